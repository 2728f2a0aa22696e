package terminal

import (
	"fmt"
	"math"
	"strings"

	"revealtimer/internal/core/countdown"
	"revealtimer/internal/core/model"
	"revealtimer/internal/core/reveal"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff6a88"))
	labelStyle   = lipgloss.NewStyle().Bold(true).Padding(0, 2)
	messageStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("252"))
	faultStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	pictureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffd86b"))
	doneStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2ecc71"))
	frameStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// disc draws the reveal circle over the picture. radius is the full-scale
// radius in rows; columns are doubled to keep the shape round.
func disc(snapshot countdown.Snapshot, radius int) string {
	if radius < 1 {
		radius = 1
	}
	fill := lipgloss.NewStyle().Foreground(lipgloss.Color(snapshot.Band.Hex()))
	covered := snapshot.Scale * float64(radius)

	var builder strings.Builder
	for row := -radius; row <= radius; row++ {
		for column := -2 * radius; column <= 2*radius; column++ {
			distance := math.Hypot(float64(column)/2, float64(row))
			switch {
			case covered > 0 && distance <= covered:
				builder.WriteString(fill.Render("█"))
			case distance <= float64(radius):
				builder.WriteString(pictureStyle.Render("·"))
			default:
				builder.WriteByte(' ')
			}
		}
		if row < radius {
			builder.WriteByte('\n')
		}
	}
	return builder.String()
}

// confettiRow renders up to width particles as colored glyphs.
func confettiRow(particles []reveal.Particle, width int) string {
	glyphs := map[reveal.Shape]string{
		reveal.ShapeSquare:   "■",
		reveal.ShapeTriangle: "▲",
		reveal.ShapeDiamond:  "◆",
		reveal.ShapeCircle:   "●",
	}
	var builder strings.Builder
	for index, particle := range particles {
		if index >= width {
			break
		}
		tint := particle.Color
		color := lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", tint.R, tint.G, tint.B))
		builder.WriteString(lipgloss.NewStyle().Foreground(color).Render(glyphs[particle.Shape]))
	}
	return builder.String()
}

func timerText(snapshot countdown.Snapshot) string {
	if snapshot.Status == model.StatusCompleted {
		return doneStyle.Render("Done!")
	}
	style := labelStyle
	if snapshot.FinalCountdown {
		style = style.Foreground(lipgloss.Color(reveal.BandE.Hex())).Underline(true)
	}
	return style.Render(snapshot.Label)
}
