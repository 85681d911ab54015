// Package pipeline orchestrates one tailoring run: extract the job posting,
// extract the resume, tailor every section against the posting and render the
// assembled document to PDF.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/resfit/resfit/internal/document"
	"github.com/resfit/resfit/internal/extract"
	"github.com/resfit/resfit/internal/pdftext"
	"github.com/resfit/resfit/internal/tailor"
)

// Input validation and noise classification failures surface through the
// extract sentinels so callers handle them uniformly.
var (
	ErrInvalidInput = extract.ErrInvalidInput
	ErrNoiseContent = extract.ErrNoiseContent
	// ErrExtraction reports a structured extraction that failed terminally.
	ErrExtraction = errors.New("extraction failed")
	// ErrRendering reports a failure producing the output document.
	ErrRendering = errors.New("rendering failed")
)

// Extractor produces structured documents from raw text.
type Extractor interface {
	ExtractResume(ctx context.Context, markdown string) (*document.Resume, error)
	ExtractJob(ctx context.Context, url, rawText string) (*document.JobPosting, error)
}

// Tailorer runs planned tailoring tasks against a job posting.
type Tailorer interface {
	Run(ctx context.Context, tasks []tailor.Task, job *document.JobPosting) ([]tailor.Outcome, error)
}

// Renderer writes the tailored document and returns the PDF and .tex paths.
type Renderer interface {
	Render(ctx context.Context, resume *document.TailoredResume) (pdfPath, texPath string, err error)
}

// Notifier receives human-readable progress messages.
type Notifier func(message string)

// Input selects the source documents for one run. Exactly one of JobURL and
// JobText must be set; ResumeText holds the resume markdown.
type Input struct {
	ResumeText string
	JobURL     string
	JobText    string
}

// Result is everything one run produced. TexPath and PDFPath are empty when
// rendering was declined.
type Result struct {
	Job      *document.JobPosting
	Resume   *document.Resume
	Tailored *document.TailoredResume
	PDFPath  string
	TexPath  string
	// Failed lists the sections omitted because tailoring them failed.
	Failed []string
}

// Deps are the pipeline's collaborators. Closer (typically the extraction
// cache) is closed exactly once when Run returns, on every path. Approve,
// when set, is consulted between assembly and rendering; declining skips the
// render without error.
type Deps struct {
	Extractor Extractor
	Tailorer  Tailorer
	Renderer  Renderer
	Closer    io.Closer
	Logger    *zap.Logger
	Notify    Notifier
	Approve   func(tailored *document.TailoredResume) (bool, error)
}

// Pipeline runs the tailoring flow end to end.
type Pipeline struct {
	deps Deps
}

func New(deps Deps) (*Pipeline, error) {
	if deps.Extractor == nil || deps.Tailorer == nil || deps.Renderer == nil {
		return nil, errors.New("pipeline: extractor, tailorer and renderer are required")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Notify == nil {
		deps.Notify = func(string) {}
	}
	return &Pipeline{deps: deps}, nil
}

// LoadResumeText reads the resume at path as markdown. PDFs are reduced to
// plain text first; anything else is read as-is.
func LoadResumeText(path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return pdftext.ExtractText(path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading resume file: %w", err)
	}
	return string(raw), nil
}

// Run executes one tailoring run. The job posting is extracted first: a noise
// page fails the run before any resume work is spent on it.
func (p *Pipeline) Run(ctx context.Context, in Input) (*Result, error) {
	defer p.closeOnce()

	log := p.deps.Logger
	notify := p.deps.Notify

	log.Info("starting tailoring run")
	job, err := p.deps.Extractor.ExtractJob(ctx, in.JobURL, in.JobText)
	if err != nil {
		return nil, extractionErr("extracting job posting", err)
	}
	log.Info("job posting extracted", zap.String("title", job.Title), zap.String("company", job.Company))

	resume, err := p.deps.Extractor.ExtractResume(ctx, in.ResumeText)
	if err != nil {
		return nil, extractionErr("extracting resume", err)
	}

	tasks, err := tailor.Plan(resume)
	if err != nil {
		return nil, fmt.Errorf("planning sections: %w", err)
	}

	outcomes, err := p.deps.Tailorer.Run(ctx, tasks, job)
	if err != nil {
		return nil, fmt.Errorf("tailoring sections: %w", err)
	}

	result := &Result{
		Job:      job,
		Resume:   resume,
		Tailored: tailor.Assemble(resume, outcomes),
	}
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			result.Failed = append(result.Failed, outcome.Task.Name)
		}
	}
	if len(result.Failed) == len(tasks) {
		log.Warn("every section failed, output will carry personal info only")
		notify("All sections failed to tailor; the output will only carry personal information.")
	}

	if p.deps.Approve != nil {
		ok, err := p.deps.Approve(result.Tailored)
		if err != nil {
			return nil, fmt.Errorf("confirming render: %w", err)
		}
		if !ok {
			notify("Rendering skipped.")
			log.Info("rendering declined")
			return result, nil
		}
	}

	notify("Rendering tailored resume...")
	pdfPath, texPath, err := p.deps.Renderer.Render(ctx, result.Tailored)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRendering, err)
	}
	result.PDFPath = pdfPath
	result.TexPath = texPath

	log.Info("tailoring run complete", zap.String("pdf", pdfPath), zap.Strings("failed_sections", result.Failed))
	return result, nil
}

// extractionErr keeps the input-validation and noise sentinels visible to
// errors.Is; anything else becomes a generic extraction failure.
func extractionErr(stage string, err error) error {
	if errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrNoiseContent) {
		return fmt.Errorf("%s: %w", stage, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrExtraction, stage, err)
}

func (p *Pipeline) closeOnce() {
	if p.deps.Closer == nil {
		return
	}
	closer := p.deps.Closer
	p.deps.Closer = nil
	if err := closer.Close(); err != nil {
		p.deps.Logger.Warn("closing extraction cache failed", zap.Error(err))
	}
}
