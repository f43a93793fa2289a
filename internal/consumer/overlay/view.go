package overlay

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var barGlyphs = []rune("▁▂▃▄▅▆▇█")

var (
	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
	recordingStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	transcribingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	timerStyle        = lipgloss.NewStyle().Bold(true)
	errorStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	hintStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// View renders the overlay.
func (m Model) View() string {
	helpLine := m.help.View(m.keys)
	switch m.state {
	case Recording:
		body := recordingStyle.Render(Waveform(m.levels)) + "  " + timerStyle.Render(FormatElapsed(m.Elapsed(m.now())))
		return frameStyle.Render(body) + "\n" + helpLine
	case Transcribing:
		body := transcribingStyle.Render(Waveform(m.levels)) + "  " + transcribingStyle.Render(m.message)
		return frameStyle.Render(body) + "\n" + helpLine
	case Error:
		return frameStyle.BorderForeground(lipgloss.Color("196")).Render(errorStyle.Render(m.message)) + "\n" + helpLine
	default:
		return hintStyle.Render("voxtype overlay: waiting for recording") + "\n" + helpLine
	}
}

// Waveform renders one glyph per level sample; levels are clamped to [0,1]
// for display only.
func Waveform(levels []float64) string {
	var b strings.Builder
	top := len(barGlyphs) - 1
	for _, level := range levels {
		if level < 0 {
			level = 0
		}
		if level > 1 {
			level = 1
		}
		b.WriteRune(barGlyphs[int(level*float64(top)+0.5)])
	}
	return b.String()
}

// FormatElapsed renders d as mm:ss.
func FormatElapsed(d time.Duration) string {
	secs := int(d / time.Second)
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
