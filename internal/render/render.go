// Package render turns a tailored resume into a LaTeX document and compiles
// it to PDF with pdflatex.
package render

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"text/template"

	"go.uber.org/zap"

	"github.com/resfit/resfit/internal/document"
)

const (
	texName = "tailored_resume.tex"
	pdfName = "tailored_resume.pdf"
)

//go:embed templates/resume.tex
var templateFS embed.FS

// The template uses << >> delimiters; default braces collide with LaTeX.
var resumeTemplate = template.Must(template.New("resume.tex").
	Delims("<<", ">>").
	Funcs(template.FuncMap{
		"rich":        richLaTeX,
		"link":        linkLaTeX,
		"skillList":   skillListLaTeX,
		"escape":      Escape,
		"contactLine": contactLine,
	}).
	ParseFS(templateFS, "templates/resume.tex"))

// contactLine renders the header's contact row: location, phone and email
// from the resume plus every configured media profile as a hyperlink.
func contactLine(info document.PersonalInfo) string {
	var parts []string
	for _, rt := range []any{info.Location, info.Phone, info.Email} {
		if rendered := richLaTeX(rt); rendered != "" {
			parts = append(parts, rendered)
		}
	}

	media := []struct{ label, url string }{
		{"Portfolio", info.Media.Portfolio},
		{"LinkedIn", info.Media.LinkedIn},
		{"GitHub", info.Media.GitHub},
		{"Medium", info.Media.Medium},
		{"Devpost", info.Media.Devpost},
	}
	for _, m := range media {
		if m.url == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf(`\href{%s}{%s}`, escapeURL(m.url), m.label))
	}

	return strings.Join(parts, ` \textbar{} `)
}

// Source renders the LaTeX source for a tailored resume.
func Source(resume *document.TailoredResume) (string, error) {
	if resume == nil {
		return "", errors.New("render: resume is required")
	}

	var b strings.Builder
	if err := resumeTemplate.Execute(&b, resume); err != nil {
		return "", fmt.Errorf("rendering latex source: %w", err)
	}
	return b.String(), nil
}

// Options tune the renderer.
type Options struct {
	// SkipPDF writes the .tex file but does not invoke pdflatex.
	SkipPDF bool
	Logger  *zap.Logger
}

// Renderer writes render artifacts into one output directory.
type Renderer struct {
	outputDir string
	skipPDF   bool
	logger    *zap.Logger
}

func NewRenderer(outputDir string, opts Options) *Renderer {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{
		outputDir: outputDir,
		skipPDF:   opts.SkipPDF,
		logger:    log,
	}
}

// Render writes the LaTeX source and compiles it. It returns the PDF and .tex
// paths; when compilation is skipped the PDF path is empty. The .tex file is
// kept on compile failure so the document can be fixed or compiled by hand.
func (r *Renderer) Render(ctx context.Context, resume *document.TailoredResume) (pdfPath, texPath string, err error) {
	source, err := Source(resume)
	if err != nil {
		return "", "", err
	}

	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return "", "", fmt.Errorf("creating output directory: %w", err)
	}

	texPath = filepath.Join(r.outputDir, texName)
	if err := os.WriteFile(texPath, []byte(source), 0o644); err != nil {
		return "", "", fmt.Errorf("writing latex source: %w", err)
	}
	r.logger.Info("latex source written", zap.String("path", texPath))

	if r.skipPDF {
		return "", texPath, nil
	}

	if err := r.compile(ctx, texPath); err != nil {
		return "", texPath, err
	}

	pdfPath = filepath.Join(r.outputDir, pdfName)
	r.logger.Info("pdf generated", zap.String("path", pdfPath))
	return pdfPath, texPath, nil
}

func (r *Renderer) compile(ctx context.Context, texPath string) error {
	cmd := exec.CommandContext(ctx, "pdflatex",
		"-interaction=nonstopmode",
		"-output-directory="+r.outputDir,
		texPath,
	)

	out, err := cmd.CombinedOutput()
	if err != nil {
		r.logger.Error("pdflatex failed",
			zap.Error(err),
			zap.String("output", tail(string(out), 2000)),
		)
		return fmt.Errorf("compiling %s with pdflatex: %w", filepath.Base(texPath), err)
	}
	return nil
}

// tail keeps the last n bytes of s; pdflatex logs bury the error at the end.
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
