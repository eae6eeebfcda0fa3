package format

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Markdown renders the messages of a macro run as a numbered GFM table
// under a level-one heading.
func Markdown(title string, messages []string) string {
	var sb strings.Builder
	sb.WriteString("# " + escapeMarkdown(title) + "\n\n")
	sb.WriteString("| # | Output |\n")
	sb.WriteString("|---|--------|\n")
	for i, msg := range messages {
		for _, line := range strings.Split(msg, "\n") {
			fmt.Fprintf(&sb, "| %d | %s |\n", i+1, escapeMarkdown(strings.TrimSpace(line)))
		}
	}
	return sb.String()
}

// HTML renders the messages of a macro run as an HTML fragment.
func HTML(title string, messages []string) (string, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
	)
	var buf bytes.Buffer
	if err := md.Convert([]byte(Markdown(title, messages)), &buf); err != nil {
		return "", fmt.Errorf("failed to render transcript: %w", err)
	}
	return buf.String(), nil
}

// escapeMarkdown backslash-escapes ASCII punctuation so unit expressions
// like m^2*kg*s^(-2) are not read as emphasis.
func escapeMarkdown(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r < 128 && strings.ContainsRune("\\`*_{}[]<>()#+-.!|~^", r) {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
