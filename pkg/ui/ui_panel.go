package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Widget is anything the panel can stack.
type Widget interface {
	Update()
	Draw(screen *ebiten.Image)
	RowHeight() float64
	place(x, y float64)
}

const (
	panelMargin = 10
	titleHeight = 24
	lineHeight  = 16
)

// UIPanel stacks widgets under a title and shows a block of read-only
// text lines below them, refreshed every frame with SetLines.
type UIPanel struct {
	X, Y  float64
	Width float64
	Title string

	widgets []Widget
	lines   []string

	BGColor     color.RGBA
	BorderColor color.RGBA
}

func NewUIPanel(x, y, width float64, title string) *UIPanel {
	return &UIPanel{
		X:           x,
		Y:           y,
		Width:       width,
		Title:       title,
		BGColor:     color.RGBA{R: 40, G: 40, B: 45, A: 200},
		BorderColor: color.RGBA{R: 100, G: 100, B: 110, A: 255},
	}
}

// AddCheckbox appends a checkbox below the existing widgets.
func (p *UIPanel) AddCheckbox(label string, value bool) *Checkbox {
	c := NewCheckbox(0, 0, label, value)
	p.add(c)
	return c
}

// AddButton appends a button spanning the panel width.
func (p *UIPanel) AddButton(label string, onClick func()) *Button {
	b := NewButton(0, 0, p.Width-2*panelMargin, 20, label, onClick)
	p.add(b)
	return b
}

func (p *UIPanel) add(w Widget) {
	w.place(p.X+panelMargin, p.Y+titleHeight+p.widgetsHeight())
	p.widgets = append(p.widgets, w)
}

func (p *UIPanel) widgetsHeight() float64 {
	h := 0.0
	for _, w := range p.widgets {
		h += w.RowHeight()
	}
	return h
}

// SetLines replaces the text shown under the widgets.
func (p *UIPanel) SetLines(lines ...string) {
	p.lines = append(p.lines[:0], lines...)
}

// Height is the panel's current height, which follows its content.
func (p *UIPanel) Height() float64 {
	return titleHeight + p.widgetsHeight() + float64(len(p.lines))*lineHeight + panelMargin
}

func (p *UIPanel) Update() {
	for _, w := range p.widgets {
		w.Update()
	}
}

func (p *UIPanel) Draw(screen *ebiten.Image) {
	h := p.Height()
	vector.FillRect(screen, float32(p.X), float32(p.Y), float32(p.Width), float32(h), p.BGColor, true)
	vector.StrokeRect(screen, float32(p.X), float32(p.Y), float32(p.Width), float32(h), 2, p.BorderColor, true)

	ebitenutil.DebugPrintAt(screen, p.Title, int(p.X+panelMargin), int(p.Y+5))

	for _, w := range p.widgets {
		w.Draw(screen)
	}

	y := p.Y + titleHeight + p.widgetsHeight()
	for _, line := range p.lines {
		ebitenutil.DebugPrintAt(screen, line, int(p.X+panelMargin), int(y))
		y += lineHeight
	}
}
