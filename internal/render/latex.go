package render

import (
	"fmt"
	"strings"

	"github.com/resfit/resfit/internal/richtext"
)

// LaTeX-active characters and their replacements. The hyphen is wrapped to
// stop pdflatex from turning consecutive hyphens in user text into dashes.
var latexEscapes = map[rune]string{
	'&':      `\&`,
	'%':      `\%`,
	'$':      `\$`,
	'#':      `\#`,
	'_':      `\_`,
	'{':      `\{`,
	'}':      `\}`,
	'~':      `\textasciitilde{}`,
	'^':      `\^{}`,
	'\\':     `\textbackslash{}`,
	'-':      `{-}`,
	'[':      `{[}`,
	']':      `{]}`,
	'\n':     "\\newline%\n",
	'\u00a0': "~",
}

// Escape rewrites text so it is safe to place in a LaTeX document body.
func Escape(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if repl, ok := latexEscapes[r]; ok {
			b.WriteString(repl)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// escapeURL keeps a URL usable inside \href while neutralizing the characters
// LaTeX would otherwise interpret.
func escapeURL(url string) string {
	replacer := strings.NewReplacer("\\", "", "%", `\%`, "#", `\#`, "&", `\&`, "_", `\_`)
	return replacer.Replace(url)
}

// segmentLaTeX renders one segment: plain text escaped, links as \href so the
// produced PDF keeps every hyperlink clickable.
func segmentLaTeX(seg richtext.Segment) string {
	if seg.Kind == richtext.KindLink && seg.URL != "" {
		return fmt.Sprintf(`\href{%s}{%s}`, escapeURL(seg.URL), Escape(seg.Text))
	}
	return Escape(seg.Text)
}

func richLaTeX(v any) string {
	var rt richtext.RichText
	switch value := v.(type) {
	case richtext.RichText:
		rt = value
	case *richtext.RichText:
		if value == nil {
			return ""
		}
		rt = *value
	default:
		return ""
	}

	var b strings.Builder
	for _, seg := range rt.Segments {
		b.WriteString(segmentLaTeX(seg))
	}
	return b.String()
}

func linkLaTeX(seg *richtext.Segment) string {
	if seg == nil {
		return ""
	}
	return segmentLaTeX(*seg)
}

func skillListLaTeX(skills []richtext.RichText) string {
	parts := make([]string, 0, len(skills))
	for _, skill := range skills {
		parts = append(parts, richLaTeX(skill))
	}
	return strings.Join(parts, ", ")
}
