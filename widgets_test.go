package surfplay

import (
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type sliderChange struct {
	position time.Duration
	fromUser bool
}

func newTestSlider() (*Slider, *[]sliderChange) {
	changes := &[]sliderChange{}
	s := &Slider{
		Bounds: image.Rect(100, 0, 300, 20),
		OnChange: func(position time.Duration, fromUser bool) {
			*changes = append(*changes, sliderChange{position, fromUser})
		},
	}
	s.SetMax(100 * time.Second)
	s.SetEnabled(true)
	return s, changes
}

func TestSlider_SetProgressClamps(t *testing.T) {
	s, changes := newTestSlider()

	s.SetProgress(150 * time.Second)
	assert.Equal(t, 100*time.Second, s.Progress())
	s.SetProgress(-time.Second)
	assert.Equal(t, time.Duration(0), s.Progress())

	assert.Equal(t, []sliderChange{
		{100 * time.Second, false},
		{0, false},
	}, *changes)
}

func TestSlider_SetProgressSameValueDoesNotNotify(t *testing.T) {
	s, changes := newTestSlider()
	s.SetProgress(10 * time.Second)
	s.SetProgress(10 * time.Second)
	assert.Len(t, *changes, 1)
}

func TestSlider_SetMaxClampsProgress(t *testing.T) {
	s, changes := newTestSlider()
	s.SetProgress(80 * time.Second)
	s.SetMax(50 * time.Second)

	assert.Equal(t, 50*time.Second, s.Max())
	assert.Equal(t, 50*time.Second, s.Progress())
	assert.Equal(t, sliderChange{50 * time.Second, false}, (*changes)[1])

	s.SetMax(-time.Second)
	assert.Equal(t, time.Duration(0), s.Max())
	assert.Equal(t, time.Duration(0), s.Progress())
}

func TestSlider_PositionAt(t *testing.T) {
	s, _ := newTestSlider()

	tests := []struct {
		x    int
		want time.Duration
	}{
		{100, 0},
		{150, 25 * time.Second},
		{200, 50 * time.Second},
		{300, 100 * time.Second},
		{0, 0},
		{1000, 100 * time.Second},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, s.PositionAt(tt.x), "x=%d", tt.x)
	}

	empty := &Slider{}
	assert.Equal(t, time.Duration(0), empty.PositionAt(10))
}

func TestSlider_Drag(t *testing.T) {
	s, changes := newTestSlider()

	// press outside of the track does nothing
	s.Update(image.Pt(50, 10), true, true)
	assert.False(t, s.Dragging())
	assert.Empty(t, *changes)

	s.Update(image.Pt(200, 10), true, true)
	assert.True(t, s.Dragging())
	// dragging continues outside of the bounds
	s.Update(image.Pt(400, 40), true, false)
	s.Update(image.Pt(400, 40), false, false)
	assert.False(t, s.Dragging())
	s.Update(image.Pt(150, 10), false, false)

	assert.Equal(t, []sliderChange{
		{50 * time.Second, true},
		{100 * time.Second, true},
	}, *changes)
}

func TestSlider_DisabledIgnoresInput(t *testing.T) {
	s, changes := newTestSlider()
	s.SetEnabled(false)

	s.Update(image.Pt(200, 10), true, true)
	assert.False(t, s.Dragging())
	assert.Empty(t, *changes)

	// programmatic updates still apply
	s.SetProgress(time.Second)
	assert.Len(t, *changes, 1)
}

func TestSlider_Fraction(t *testing.T) {
	s, _ := newTestSlider()
	s.SetProgress(25 * time.Second)
	assert.InDelta(t, 0.25, s.Fraction(), 1e-9)

	assert.Equal(t, 0.0, (&Slider{}).Fraction())
}

func TestButton_Update(t *testing.T) {
	clicks := 0
	b := &Button{
		Bounds:  image.Rect(0, 0, 80, 24),
		OnClick: func() { clicks++ },
	}

	// disabled by default
	assert.False(t, b.Update(image.Pt(10, 10), true))

	b.SetEnabled(true)
	assert.True(t, b.Update(image.Pt(10, 10), true))
	assert.False(t, b.Update(image.Pt(10, 10), false))
	assert.False(t, b.Update(image.Pt(100, 10), true))
	assert.Equal(t, 1, clicks)

	b.SetLabel(LabelPause)
	assert.Equal(t, LabelPause, b.Label())
}

func TestFormatMMSS(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "00:00"},
		{999 * time.Millisecond, "00:00"},
		{61 * time.Second, "01:01"},
		{2*time.Hour + 3*time.Second, "120:03"},
		{-time.Second, "00:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatMMSS(tt.in))
	}
}
