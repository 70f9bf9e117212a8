package logger

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// ProgressBar renders a single-line progress bar, redrawn in place
type ProgressBar struct {
	w       io.Writer
	total   int
	current int
	width   int
	message string
	noColor bool
}

// NewProgressBar creates a progress bar on the default logger output
func NewProgressBar(total int, message string) *ProgressBar {
	w, noColor := out()
	return &ProgressBar{
		w:       w,
		total:   total,
		width:   40,
		message: message,
		noColor: noColor,
	}
}

// Increment advances the bar by one
func (p *ProgressBar) Increment() {
	p.current++
	p.draw()
}

// Finish fills the bar and ends the line
func (p *ProgressBar) Finish() {
	p.current = p.total
	p.draw()
	_, _ = fmt.Fprintln(p.w)
}

func (p *ProgressBar) draw() {
	percent := 1.0
	if p.total > 0 {
		percent = float64(min(p.current, p.total)) / float64(p.total)
	}
	filled := int(percent * float64(p.width))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", p.width-filled)

	if p.noColor {
		_, _ = fmt.Fprintf(p.w, "\r%s: [%s] %3.0f%%", p.message, bar, percent*100)
		return
	}
	_, _ = fmt.Fprintf(p.w, "\r%s: %s %3.0f%%", p.message, color.GreenString(bar), percent*100)
}
