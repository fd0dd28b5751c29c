package surfplay

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// Approximate glyph size of [ebitenutil.DebugPrintAt], used to center labels.
const (
	debugGlyphWidth  = 6
	debugGlyphHeight = 16
)

var (
	_ TransportButton = (*Button)(nil)
	_ Indicator       = (*Slider)(nil)
)

// A minimal clickable button with a text label.
type Button struct {
	Bounds  image.Rectangle
	OnClick func()

	label   string
	enabled bool
}

func (b *Button) SetLabel(label string)   { b.label = label }
func (b *Button) Label() string           { return b.label }
func (b *Button) SetEnabled(enabled bool) { b.enabled = enabled }
func (b *Button) Enabled() bool           { return b.enabled }

// Fires OnClick when the button is enabled and a press starts inside its
// bounds. Returns whether the click was consumed.
func (b *Button) Update(cursor image.Point, justPressed bool) bool {
	if !b.enabled || !justPressed || !cursor.In(b.Bounds) {
		return false
	}
	if b.OnClick != nil {
		b.OnClick()
	}
	return true
}

func (b *Button) Draw(canvas *ebiten.Image, painter *RectPainter) {
	bg := color.RGBA{255, 255, 255, 255}
	if !b.enabled {
		bg = color.RGBA{128, 128, 128, 255}
	}
	painter.SetColor(bg)
	painter.Draw(canvas, b.Bounds)
	painter.SetColor(color.RGBA{0, 0, 0, 255})
	painter.Draw(canvas, insetRect(b.Bounds, 2))

	x := b.Bounds.Min.X + (b.Bounds.Dx()-len(b.label)*debugGlyphWidth)/2
	y := b.Bounds.Min.Y + (b.Bounds.Dy()-debugGlyphHeight)/2
	ebitenutil.DebugPrintAt(canvas, b.label, x, y)
}

// A horizontal position slider. Progress is kept within [0, Max()].
//
// Like most toolkit sliders, changes are reported through OnChange both when
// the user drags the slider and when the progress is set programmatically.
// The fromUser argument tells them apart.
type Slider struct {
	Bounds   image.Rectangle
	OnChange func(position time.Duration, fromUser bool)

	max      time.Duration
	progress time.Duration
	enabled  bool
	dragging bool
}

func (s *Slider) Max() time.Duration      { return s.max }
func (s *Slider) Progress() time.Duration { return s.progress }
func (s *Slider) Enabled() bool           { return s.enabled }
func (s *Slider) Dragging() bool          { return s.dragging }

// Sets the maximum value. The progress is clamped if needed.
func (s *Slider) SetMax(value time.Duration) {
	s.max = max(value, 0)
	if s.progress > s.max {
		s.setProgress(s.max, false)
	}
}

// Sets the progress programmatically. OnChange is notified with
// fromUser=false if the value changes.
func (s *Slider) SetProgress(position time.Duration) {
	s.setProgress(position, false)
}

func (s *Slider) SetEnabled(enabled bool) {
	s.enabled = enabled
	if !enabled {
		s.dragging = false
	}
}

// Handles pointer input. A drag starts with a press inside the bounds and
// continues, even outside of them, for as long as the button stays pressed.
func (s *Slider) Update(cursor image.Point, pressed, justPressed bool) {
	if !s.enabled {
		return
	}
	if justPressed && cursor.In(s.Bounds) {
		s.dragging = true
	}
	if !pressed {
		s.dragging = false
		return
	}
	if s.dragging {
		s.setProgress(s.PositionAt(cursor.X), true)
	}
}

// Maps a horizontal coordinate to a position in [0, Max()].
func (s *Slider) PositionAt(x int) time.Duration {
	width := s.Bounds.Dx()
	if width <= 0 {
		return 0
	}
	t := float64(x-s.Bounds.Min.X) / float64(width)
	t = min(max(t, 0), 1)
	return time.Duration(float64(s.max) * t)
}

// Returns the progress as a fraction of Max(), or 0 if Max() is 0.
func (s *Slider) Fraction() float64 {
	if s.max <= 0 {
		return 0
	}
	return float64(s.progress) / float64(s.max)
}

func (s *Slider) Draw(canvas *ebiten.Image, painter *RectPainter) {
	const BorderThickness = 3
	const InnerMargin = 2

	track := s.Bounds
	painter.SetColor(color.RGBA{255, 255, 255, 255})
	painter.Draw(canvas, track)
	track = insetRect(track, BorderThickness)
	painter.SetColor(color.RGBA{0, 0, 0, 255})
	painter.Draw(canvas, track)

	fill := insetRect(track, InnerMargin)
	fill.Max.X = fill.Min.X + int(float64(fill.Dx())*s.Fraction())
	if s.enabled {
		painter.SetColor(color.RGBA{255, 255, 255, 255})
	} else {
		painter.SetColor(color.RGBA{128, 128, 128, 255})
	}
	painter.Draw(canvas, fill)

	info := FormatMMSS(s.progress) + " / " + FormatMMSS(s.max)
	ebitenutil.DebugPrintAt(canvas, info, s.Bounds.Min.X, s.Bounds.Min.Y-debugGlyphHeight)
}

func (s *Slider) setProgress(position time.Duration, fromUser bool) {
	position = min(max(position, 0), s.max)
	if position == s.progress {
		return
	}
	s.progress = position
	if s.OnChange != nil {
		s.OnChange(position, fromUser)
	}
}

// Formats a duration as minutes and seconds, "MM:SS".
func FormatMMSS(duration time.Duration) string {
	seconds := max(duration.Milliseconds(), 0) / 1000
	minutes := seconds / 60
	seconds = seconds % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// Draws solid or vertically graded rectangles with a single triangle pair.
type RectPainter struct {
	vertices  [4]ebiten.Vertex // clockwise starting from top-left
	whiteMask *ebiten.Image
}

func (p *RectPainter) Draw(canvas *ebiten.Image, rect image.Rectangle) {
	if rect.Empty() {
		return
	}
	if p.whiteMask == nil {
		p.whiteMask = ebiten.NewImage(1, 1)
		p.whiteMask.Fill(color.White)
		for i := range p.vertices {
			p.vertices[i].SrcX = 0.5
			p.vertices[i].SrcY = 0.5
		}
	}

	p.vertices[0].DstX, p.vertices[0].DstY = float32(rect.Min.X), float32(rect.Min.Y) // top-left
	p.vertices[1].DstX, p.vertices[1].DstY = float32(rect.Max.X), float32(rect.Min.Y) // top-right
	p.vertices[2].DstX, p.vertices[2].DstY = float32(rect.Max.X), float32(rect.Max.Y) // bottom-right
	p.vertices[3].DstX, p.vertices[3].DstY = float32(rect.Min.X), float32(rect.Max.Y) // bottom-left
	canvas.DrawTriangles(p.vertices[:], []uint16{0, 1, 2, 2, 3, 0}, p.whiteMask, nil)
}

func (p *RectPainter) SetColor(clr color.RGBA) {
	p.SetTopColor(clr)
	p.SetBottomColor(clr)
}

func (p *RectPainter) SetTopColor(clr color.RGBA) {
	r, g, b, a := rgbaToF32(clr)
	setVertexColor(&p.vertices[0], r, g, b, a)
	setVertexColor(&p.vertices[1], r, g, b, a)
}

func (p *RectPainter) SetBottomColor(clr color.RGBA) {
	r, g, b, a := rgbaToF32(clr)
	setVertexColor(&p.vertices[2], r, g, b, a)
	setVertexColor(&p.vertices[3], r, g, b, a)
}

func insetRect(rect image.Rectangle, in int) image.Rectangle {
	return image.Rect(rect.Min.X+in, rect.Min.Y+in, rect.Max.X-in, rect.Max.Y-in)
}

func setVertexColor(vertex *ebiten.Vertex, r, g, b, a float32) {
	vertex.ColorR = r
	vertex.ColorG = g
	vertex.ColorB = b
	vertex.ColorA = a
}

func rgbaToF32(rgba color.RGBA) (float32, float32, float32, float32) {
	return float32(rgba.R) / 255.0, float32(rgba.G) / 255.0, float32(rgba.B) / 255.0, float32(rgba.A) / 255.0
}
