// Package extract turns raw resume text and job postings into structured
// documents via schema-constrained model completions, with a content-addressed
// cache in front of resume extraction.
package extract

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/resfit/resfit/internal/ai"
	"github.com/resfit/resfit/internal/document"
)

var (
	// ErrInvalidInput reports input that fails validation before any model
	// call is made.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNoiseContent reports a fetched page that carried no job posting
	// (bot walls, login screens, error pages).
	ErrNoiseContent = errors.New("no job posting content found")
)

//go:embed prompts/resume_extractor.md
var resumePrompt string

//go:embed prompts/job_extractor.md
var jobPrompt string

// Cache stores extracted resumes keyed by their literal source text.
type Cache interface {
	Get(text string) ([]byte, bool, error)
	Put(text string, doc []byte) error
}

// Fetcher retrieves a job posting page as readable text.
type Fetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}

// Notifier receives human-readable progress messages.
type Notifier func(message string)

// Deps are the extractor's collaborators. Cache, Fetcher, Logger and Notify
// are all optional; a nil Fetcher only matters when extracting a job by URL.
type Deps struct {
	Cache   Cache
	Fetcher Fetcher
	Logger  *zap.Logger
	Notify  Notifier
}

// Extractor runs structured extraction of resumes and job postings.
type Extractor struct {
	completer ai.Completer
	cache     Cache
	fetcher   Fetcher
	logger    *zap.Logger
	notify    Notifier
}

func New(completer ai.Completer, deps Deps) (*Extractor, error) {
	if completer == nil {
		return nil, errors.New("extract: completer is required")
	}
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	notify := deps.Notify
	if notify == nil {
		notify = func(string) {}
	}

	return &Extractor{
		completer: completer,
		cache:     deps.Cache,
		fetcher:   deps.Fetcher,
		logger:    log,
		notify:    notify,
	}, nil
}

// ExtractResume parses resume markdown into a structured document. Results
// are cached under the literal text: extracting byte-identical input twice
// performs zero model calls the second time.
func (e *Extractor) ExtractResume(ctx context.Context, markdown string) (*document.Resume, error) {
	if strings.TrimSpace(markdown) == "" {
		return nil, fmt.Errorf("%w: resume text is empty", ErrInvalidInput)
	}

	if e.cache != nil {
		stored, ok, err := e.cache.Get(markdown)
		if err != nil {
			e.logger.Warn("extraction cache lookup failed", zap.Error(err))
		} else if ok {
			var resume document.Resume
			if err := json.Unmarshal(stored, &resume); err != nil {
				// A corrupt entry falls through to a fresh extraction.
				e.logger.Warn("discarding unreadable cache entry", zap.Error(err))
			} else {
				e.notify("Resume loaded from extraction cache.")
				e.logger.Info("resume extraction served from cache")
				return &resume, nil
			}
		}
	}

	e.notify("Extracting resume details...")
	raw, err := e.completer.Complete(ctx, ai.Request{
		System: resumePrompt,
		User:   markdown,
		Schema: document.ResumeSchema(),
	})
	if err != nil {
		return nil, fmt.Errorf("extracting resume: %w", err)
	}

	var resume document.Resume
	if err := json.Unmarshal(raw, &resume); err != nil {
		return nil, fmt.Errorf("decoding extracted resume: %w", err)
	}

	if e.cache != nil {
		if err := e.cache.Put(markdown, raw); err != nil {
			e.logger.Warn("storing extraction cache entry failed", zap.Error(err))
		}
	}

	return &resume, nil
}

// ExtractJob parses a job posting into a structured document. Exactly one of
// url and rawText must be supplied; with a url the page is fetched and reduced
// to text first.
func (e *Extractor) ExtractJob(ctx context.Context, url, rawText string) (*document.JobPosting, error) {
	url = strings.TrimSpace(url)
	text := strings.TrimSpace(rawText)

	switch {
	case url == "" && text == "":
		return nil, fmt.Errorf("%w: a job posting url or its text is required", ErrInvalidInput)
	case url != "" && text != "":
		return nil, fmt.Errorf("%w: provide either a job posting url or its text, not both", ErrInvalidInput)
	}

	if url != "" {
		if e.fetcher == nil {
			return nil, errors.New("extract: no fetcher configured for job posting urls")
		}
		e.notify("Fetching job posting...")
		fetched, err := e.fetcher.FetchText(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("fetching job posting: %w", err)
		}
		text = fetched
	}

	e.notify("Extracting job details...")
	raw, err := e.completer.Complete(ctx, ai.Request{
		System: jobPrompt,
		User:   text,
		Schema: document.JobExtractionSchema(),
	})
	if err != nil {
		return nil, fmt.Errorf("extracting job posting: %w", err)
	}

	var extraction document.JobExtraction
	if err := json.Unmarshal(raw, &extraction); err != nil {
		return nil, fmt.Errorf("decoding extracted job posting: %w", err)
	}

	if extraction.IsNoiseOnly {
		e.logger.Warn("job posting page rejected as noise")
		return nil, ErrNoiseContent
	}
	if extraction.Data == nil {
		return nil, errors.New("extract: model returned job content without data")
	}

	return extraction.Data, nil
}
