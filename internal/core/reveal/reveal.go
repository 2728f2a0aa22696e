// Package reveal maps countdown progress onto the visuals of the reveal
// shape: a non-linear scale factor, a discrete color band, the time label
// and the progress message.
package reveal

import (
	"fmt"
	"image/color"
	"math"
)

// ScaleExponent biases the shrink so it looks slow early and fast late.
const ScaleExponent = 0.7

// Band is a discrete color band of the reveal shape.
type Band string

const (
	BandA Band = "A"
	BandB Band = "B"
	BandC Band = "C"
	BandD Band = "D"
	BandE Band = "E"
)

var bandColors = map[Band]color.NRGBA{
	BandA: {R: 0x00, G: 0xb0, B: 0x9b, A: 0xff},
	BandB: {R: 0x34, G: 0x98, B: 0xdb, A: 0xff},
	BandC: {R: 0xf1, G: 0xc4, B: 0x0f, A: 0xff},
	BandD: {R: 0xe6, G: 0x7e, B: 0x22, A: 0xff},
	BandE: {R: 0xe7, G: 0x4c, B: 0x3c, A: 0xff},
}

// Color returns the fill color for the band.
func (band Band) Color() color.NRGBA {
	if value, ok := bandColors[band]; ok {
		return value
	}
	return bandColors[BandA]
}

// Hex returns the fill color as a #rrggbb string.
func (band Band) Hex() string {
	value := band.Color()
	return fmt.Sprintf("#%02x%02x%02x", value.R, value.G, value.B)
}

// Visual is the derived presentation of a countdown state.
type Visual struct {
	Ratio float64
	Scale float64
	Band  Band
}

// Map converts remaining and initial seconds into a Visual.
func Map(remainingSeconds, initialSeconds int) Visual {
	ratio := Ratio(remainingSeconds, initialSeconds)
	return Visual{
		Ratio: ratio,
		Scale: Scale(ratio),
		Band:  BandFor(ratio),
	}
}

// Ratio returns the linear fraction remaining, clamped to [0, 1].
func Ratio(remainingSeconds, initialSeconds int) float64 {
	if initialSeconds <= 0 {
		return 0
	}
	return clampUnit(float64(remainingSeconds) / float64(initialSeconds))
}

// Scale applies the non-linear shrink curve to a linear ratio.
func Scale(ratio float64) float64 {
	ratio = clampUnit(ratio)
	if ratio == 0 {
		return 0
	}
	return math.Pow(ratio, ScaleExponent)
}

// BandFor returns the color band for a linear ratio. Upper bounds are
// inclusive: 0.8 belongs to B, anything above it to A.
func BandFor(ratio float64) Band {
	switch {
	case ratio > 0.8:
		return BandA
	case ratio > 0.6:
		return BandB
	case ratio > 0.4:
		return BandC
	case ratio > 0.2:
		return BandD
	default:
		return BandE
	}
}

// FinalCountdown reports whether the display should switch to the bare
// number presentation.
func FinalCountdown(remainingSeconds int, finalWindow int) bool {
	return remainingSeconds > 0 && remainingSeconds <= finalWindow
}

// Label formats the remaining time as MM:SS, or as the bare number inside
// the final countdown window.
func Label(remainingSeconds int, finalWindow int) string {
	if remainingSeconds < 0 {
		remainingSeconds = 0
	}
	if FinalCountdown(remainingSeconds, finalWindow) {
		return fmt.Sprintf("%d", remainingSeconds)
	}
	return fmt.Sprintf("%02d:%02d", remainingSeconds/60, remainingSeconds%60)
}

func clampUnit(value float64) float64 {
	if math.IsNaN(value) || value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
