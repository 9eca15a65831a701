package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Checkbox is a boolean widget toggled by a click or by its hotkey.
type Checkbox struct {
	Label  string
	Value  bool
	X, Y   float64
	Size   float64
	Hotkey ebiten.Key // toggles the value; -1 for none

	changed bool
}

// NewCheckbox creates a checkbox without a hotkey.
func NewCheckbox(x, y float64, label string, value bool) *Checkbox {
	return &Checkbox{
		Label:  label,
		Value:  value,
		X:      x,
		Y:      y,
		Size:   16,
		Hotkey: -1,
	}
}

// Update toggles the value on a click inside the box or a hotkey press.
func (c *Checkbox) Update() {
	c.changed = false

	if c.Hotkey >= 0 && inpututil.IsKeyJustPressed(c.Hotkey) {
		c.toggle()
		return
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		if contains(c.X, c.Y, c.Size, c.Size, mx, my) {
			c.toggle()
		}
	}
}

// Changed reports whether the last Update flipped the value.
func (c *Checkbox) Changed() bool { return c.changed }

func (c *Checkbox) toggle() {
	c.Value = !c.Value
	c.changed = true
}

func (c *Checkbox) RowHeight() float64 { return c.Size + 6 }

func (c *Checkbox) Draw(screen *ebiten.Image) {
	vector.StrokeRect(screen,
		float32(c.X), float32(c.Y),
		float32(c.Size), float32(c.Size),
		2,
		color.RGBA{R: 200, G: 200, B: 200, A: 255},
		true)

	if c.Value {
		vector.FillRect(screen,
			float32(c.X+3), float32(c.Y+3),
			float32(c.Size-6), float32(c.Size-6),
			color.RGBA{R: 100, G: 200, B: 100, A: 255},
			true)
	}
	ebitenutil.DebugPrintAt(screen, c.Label, int(c.X+c.Size+8), int(c.Y))
}

func contains(x, y, w, h float64, mx, my int) bool {
	fx, fy := float64(mx), float64(my)
	return fx >= x && fx <= x+w && fy >= y && fy <= y+h
}

func (c *Checkbox) place(x, y float64) { c.X, c.Y = x, y }
