package formatter

import (
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/alexanderramin/harborguide/internal/intelligence"
)

// DefaultWrap is the word-wrap width used for rendered answers.
const DefaultWrap = 100

// FormatAnswer renders a markdown answer. With styled set the markdown is
// rendered for the terminal; otherwise it is returned as written. A footer
// names the mode and where the answer came from.
func FormatAnswer(ans *intelligence.AskAnswer, styled bool) string {
	if ans == nil {
		return ""
	}
	body := ans.Answer
	if styled {
		if rendered, err := RenderMarkdown(body, DefaultWrap); err == nil {
			body = rendered
		}
	}

	var b strings.Builder
	b.WriteString(strings.TrimRight(body, "\n"))
	b.WriteString("\n\n")
	b.WriteString(sourceLabel(ans))
	b.WriteString("\n")
	return b.String()
}

// RenderMarkdown renders markdown with glamour's dark style.
func RenderMarkdown(md string, wrap int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}

func sourceLabel(ans *intelligence.AskAnswer) string {
	source := StylePurple.Render("[LLM]")
	if ans.Source == intelligence.SourceDeterministic {
		source = StyleBlue.Render("[DETERMINISTIC]")
	}
	return source + " " + Dim("mode: "+string(ans.Mode))
}
