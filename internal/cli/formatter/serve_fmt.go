package formatter

import (
	"strings"
)

// ServeInfo describes a running API for the startup banner.
type ServeInfo struct {
	Addr     string
	Origin   string
	Workbook string
	Watching bool
	Model    string
}

// FormatServeBanner renders the startup box printed when serve runs in a
// terminal.
func FormatServeBanner(info ServeInfo) string {
	var b strings.Builder
	line := func(label, value string) {
		b.WriteString(Dim(label))
		b.WriteString(value)
		b.WriteString("\n")
	}

	line("listening  ", Bold("http://localhost"+info.Addr))
	line("origin     ", info.Origin)
	switch {
	case info.Workbook == "":
		line("workbook   ", Dim("none"))
	case info.Watching:
		line("workbook   ", info.Workbook+StyleGreen.Render(" (watching)"))
	default:
		line("workbook   ", info.Workbook)
	}
	if info.Model == "" {
		line("model      ", StyleYellow.Render("disabled, deterministic answers"))
	} else {
		line("model      ", StylePurple.Render(info.Model))
	}
	return RenderBox("HarborGuide API", strings.TrimRight(b.String(), "\n")) + "\n"
}
