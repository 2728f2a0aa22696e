package display

import (
	"image/color"

	"revealtimer/internal/core/reveal"
	"revealtimer/internal/ui/animation"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
)

// confettiLayer draws animation frames with a reusable pool of shapes.
type confettiLayer struct {
	root   *fyne.Container
	pieces []fyne.CanvasObject
}

func newConfettiLayer() *confettiLayer {
	return &confettiLayer{root: container.NewWithoutLayout()}
}

// draw must run on the Fyne goroutine.
func (layer *confettiLayer) draw(frame animation.Frame) {
	size := layer.root.Size()
	for index, piece := range frame.Pieces {
		object := layer.piece(index, piece.Particle.Shape)
		tint := piece.Particle.Color
		tint.A = uint8(float64(tint.A) * piece.Alpha)
		switch shape := object.(type) {
		case *canvas.Circle:
			shape.FillColor = tint
		case *canvas.Rectangle:
			shape.FillColor = tint
			shape.CornerRadius = cornerRadius(piece.Particle)
		}
		side := float32(piece.Particle.Size)
		x := float32(piece.X)*size.Width + float32(piece.Offset) - side/2
		y := float32(piece.Y) * size.Height
		object.Move(fyne.NewPos(x, y))
		object.Resize(fyne.NewSize(side, side))
		object.Show()
		object.Refresh()
	}
	for _, object := range layer.pieces[len(frame.Pieces):] {
		object.Hide()
	}
}

// visible reports how many pieces are currently shown.
func (layer *confettiLayer) visible() int {
	count := 0
	for _, object := range layer.pieces {
		if object.Visible() {
			count++
		}
	}
	return count
}

func (layer *confettiLayer) piece(index int, shape reveal.Shape) fyne.CanvasObject {
	for len(layer.pieces) <= index {
		layer.pieces = append(layer.pieces, nil)
	}
	existing := layer.pieces[index]
	_, isCircle := existing.(*canvas.Circle)
	if existing != nil && isCircle == (shape == reveal.ShapeCircle) {
		return existing
	}

	var object fyne.CanvasObject
	if shape == reveal.ShapeCircle {
		object = canvas.NewCircle(color.Transparent)
	} else {
		object = canvas.NewRectangle(color.Transparent)
	}
	if existing != nil {
		layer.root.Remove(existing)
	}
	layer.pieces[index] = object
	layer.root.Add(object)
	return object
}

func cornerRadius(particle reveal.Particle) float32 {
	switch particle.Shape {
	case reveal.ShapeDiamond:
		return float32(particle.Size) / 3
	case reveal.ShapeTriangle:
		return float32(particle.Size) / 6
	default:
		return 0
	}
}
