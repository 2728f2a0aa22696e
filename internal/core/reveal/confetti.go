package reveal

import (
	"image/color"
	"math/rand"
	"time"
)

// ConfettiCount is the number of particles in one celebration burst.
const ConfettiCount = 150

// Shape is the outline of a confetti particle.
type Shape int

const (
	ShapeSquare Shape = iota
	ShapeTriangle
	ShapeDiamond
	ShapeCircle
)

var confettiPalette = []color.NRGBA{
	{R: 0xff, G: 0x00, B: 0x00, A: 0xff},
	{R: 0x00, G: 0xff, B: 0x00, A: 0xff},
	{R: 0x00, G: 0x00, B: 0xff, A: 0xff},
	{R: 0xff, G: 0xff, B: 0x00, A: 0xff},
	{R: 0xff, G: 0x00, B: 0xff, A: 0xff},
	{R: 0x00, G: 0xff, B: 0xff, A: 0xff},
	{R: 0xff, G: 0x6b, B: 0x6b, A: 0xff},
	{R: 0x2e, G: 0xcc, B: 0x71, A: 0xff},
	{R: 0x34, G: 0x98, B: 0xdb, A: 0xff},
}

// Particle describes one piece of confetti. X is a fraction of the display
// width; Drift is a horizontal offset in pixels reached at the end of the fall.
type Particle struct {
	X        float64
	Size     float64
	Color    color.NRGBA
	Shape    Shape
	Delay    time.Duration
	Fall     time.Duration
	Drift    float64
	Rotation float64
}

// Confetti generates a burst of count randomized particles.
func Confetti(rng *rand.Rand, count int) []Particle {
	if count <= 0 {
		return nil
	}
	particles := make([]Particle, count)
	for index := range particles {
		particles[index] = Particle{
			X:        rng.Float64(),
			Size:     rng.Float64()*15 + 5,
			Color:    confettiPalette[rng.Intn(len(confettiPalette))],
			Shape:    Shape(rng.Intn(4)),
			Delay:    time.Duration(rng.Float64() * float64(3*time.Second)),
			Fall:     2*time.Second + time.Duration(rng.Float64()*float64(3*time.Second)),
			Drift:    (rng.Float64() - 0.5) * 200,
			Rotation: 360 + rng.Float64()*360,
		}
	}
	return particles
}
