package surfplay

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// Draws a frame into the given viewport, scaling as required to take as
// much space as possible while preserving the aspect ratio. The frame is
// centered; whatever was on the viewport background stays visible around it.
//
// Sessions use this to present frames on their surface, and screens use it
// again to present the surface on the window:
//
//	surfplay.Draw(screen, surface)
func Draw(viewport, frame *ebiten.Image) {
	geom, filter := CalcProjection(viewport.Bounds(), frame.Bounds())
	var opts ebiten.DrawImageOptions
	opts.GeoM = geom
	opts.Filter = filter
	viewport.DrawImage(frame, &opts)
}

// Returns the GeoM and filter to project a frame of the given bounds into
// the viewport bounds. See [Draw]() if you don't need the parameters.
func CalcProjection(viewport, frame image.Rectangle) (ebiten.GeoM, ebiten.Filter) {
	var geom ebiten.GeoM
	if frame.Empty() || viewport.Empty() {
		geom.Scale(0, 0)
		return geom, ebiten.FilterNearest
	}

	sf := fitScale(viewport, frame)
	dst := FitRect(viewport, frame)
	if sf == 1.0 {
		// pixel perfect, no need to interpolate
		geom.Translate(float64(dst.Min.X), float64(dst.Min.Y))
		return geom, ebiten.FilterNearest
	}
	geom.Scale(sf, sf)
	geom.Translate(float64(dst.Min.X), float64(dst.Min.Y))
	return geom, ebiten.FilterLinear
}

// Returns the area of viewport that a frame of the given bounds covers once
// projected. Useful to lay out overlays on top of the video.
func FitRect(viewport, frame image.Rectangle) image.Rectangle {
	if frame.Empty() || viewport.Empty() {
		return image.Rectangle{Min: viewport.Min, Max: viewport.Min}
	}
	sf := fitScale(viewport, frame)
	w := int(float64(frame.Dx()) * sf)
	h := int(float64(frame.Dy()) * sf)
	x := viewport.Min.X + (viewport.Dx()-w)/2
	y := viewport.Min.Y + (viewport.Dy()-h)/2
	return image.Rect(x, y, x+w, y+h)
}

func fitScale(viewport, frame image.Rectangle) float64 {
	wf := float64(viewport.Dx()) / float64(frame.Dx())
	hf := float64(viewport.Dy()) / float64(frame.Dy())
	return min(wf, hf)
}
