package display

import "fyne.io/fyne/v2"

// revealLayout fills the area with the picture and centres the covering
// circle, sized to scale times the shorter side.
type revealLayout struct {
	scale float32
}

func (layout *revealLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if len(objects) < 2 {
		return
	}
	picture := objects[0]
	circle := objects[1]

	side := size.Width
	if size.Height < side {
		side = size.Height
	}
	picture.Move(fyne.NewPos((size.Width-side)/2, (size.Height-side)/2))
	picture.Resize(fyne.NewSize(side, side))

	// Slightly oversized at full scale so no picture edge peeks out.
	diameter := side * 1.05 * layout.scale
	circle.Move(fyne.NewPos((size.Width-diameter)/2, (size.Height-diameter)/2))
	circle.Resize(fyne.NewSize(diameter, diameter))

	for _, overlay := range objects[2:] {
		overlay.Move(fyne.NewPos(0, 0))
		overlay.Resize(size)
	}
}

func (layout *revealLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	return fyne.NewSize(240, 240)
}
