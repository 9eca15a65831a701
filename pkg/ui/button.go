package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Button runs OnClick when pressed. Its label can change between frames,
// which is how the pause button shows "Pause" or "Resume".
type Button struct {
	Label         string
	X, Y          float64
	Width, Height float64
	OnClick       func()
	Hotkey        ebiten.Key // -1 for none

	hover bool

	BGColor    color.RGBA
	HoverColor color.RGBA
}

func NewButton(x, y, width, height float64, label string, onClick func()) *Button {
	return &Button{
		Label:      label,
		X:          x,
		Y:          y,
		Width:      width,
		Height:     height,
		OnClick:    onClick,
		Hotkey:     -1,
		BGColor:    color.RGBA{R: 80, G: 120, B: 180, A: 255},
		HoverColor: color.RGBA{R: 100, G: 150, B: 220, A: 255},
	}
}

func (b *Button) Update() {
	mx, my := ebiten.CursorPosition()
	b.hover = contains(b.X, b.Y, b.Width, b.Height, mx, my)

	pressed := (b.hover && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)) ||
		(b.Hotkey >= 0 && inpututil.IsKeyJustPressed(b.Hotkey))
	if pressed && b.OnClick != nil {
		b.OnClick()
	}
}

func (b *Button) RowHeight() float64 { return b.Height + 6 }

func (b *Button) Draw(screen *ebiten.Image) {
	bg := b.BGColor
	if b.hover {
		bg = b.HoverColor
	}
	vector.FillRect(screen, float32(b.X), float32(b.Y), float32(b.Width), float32(b.Height), bg, true)
	vector.StrokeRect(screen, float32(b.X), float32(b.Y), float32(b.Width), float32(b.Height), 1,
		color.RGBA{R: 200, G: 200, B: 220, A: 255}, true)

	// DebugPrint glyphs are 6x16
	tx := b.X + (b.Width-float64(len(b.Label)*6))/2
	ty := b.Y + (b.Height-16)/2
	ebitenutil.DebugPrintAt(screen, b.Label, int(tx), int(ty))
}

func (b *Button) place(x, y float64) { b.X, b.Y = x, y }
