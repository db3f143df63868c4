package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Reporter prints user-facing failure lines, regardless of verbosity.
type Reporter struct {
	w     io.Writer
	style lipgloss.Style
}

// NewReporter creates a reporter writing to w.
func NewReporter(w io.Writer) *Reporter {
	return &Reporter{
		w:     w,
		style: lipgloss.NewRenderer(w).NewStyle().
			Foreground(levelColors[LevelError]).
			TabWidth(lipgloss.NoTabConversion),
	}
}

// Reportf writes a formatted message. Lines are styled one by one so
// multi-line details are not padded to a common width.
func (r *Reporter) Reportf(format string, args ...interface{}) {
	lines := strings.Split(fmt.Sprintf(format, args...), "\n")
	for i, line := range lines {
		lines[i] = r.style.Render(line)
	}
	fmt.Fprintln(r.w, strings.Join(lines, "\n"))
}
