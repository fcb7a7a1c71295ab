package console

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var headingStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("39"))

// Section is one headed block of an analysis. Text before the first
// recognised heading has an empty Heading.
type Section struct {
	Heading string
	Body    string
}

// SplitSections cuts text at lines that hold one of headings. Markdown
// decoration ("## Issues", "**Issues:**") and case are ignored when matching;
// the canonical heading is reported.
func SplitSections(text string, headings []string) []Section {
	var sections []Section
	current := Section{}
	var body []string

	flush := func() {
		current.Body = strings.Trim(strings.Join(body, "\n"), "\n")
		if current.Heading != "" || strings.TrimSpace(current.Body) != "" {
			sections = append(sections, current)
		}
		body = nil
	}

	for _, line := range strings.Split(text, "\n") {
		if h, ok := matchHeading(line, headings); ok {
			flush()
			current = Section{Heading: h}
			continue
		}
		body = append(body, line)
	}
	flush()
	return sections
}

func matchHeading(line string, headings []string) (string, bool) {
	bare := strings.Trim(strings.TrimSpace(line), "#* ")
	bare = strings.TrimSuffix(bare, ":")
	for _, h := range headings {
		if strings.EqualFold(bare, strings.TrimSuffix(h, ":")) {
			return h, true
		}
	}
	return "", false
}

// Render styles the section headings of text for terminal output. Text with
// no recognised heading is returned unchanged.
func Render(text string, headings []string) string {
	sections := SplitSections(text, headings)
	hasHeading := false
	for _, s := range sections {
		if s.Heading != "" {
			hasHeading = true
			break
		}
	}
	if !hasHeading {
		return text
	}

	var b strings.Builder
	for i, s := range sections {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if s.Heading != "" {
			b.WriteString(headingStyle.Render(s.Heading))
			if s.Body != "" {
				b.WriteString("\n")
			}
		}
		b.WriteString(s.Body)
	}
	return b.String()
}
