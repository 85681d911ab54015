package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/resfit/resfit/internal/document"
	"github.com/resfit/resfit/internal/richtext"
	"github.com/resfit/resfit/internal/tailor"
)

type stubExtractor struct {
	jobErr      error
	resumeCalls int
	jobCalls    int
}

func (s *stubExtractor) ExtractJob(_ context.Context, _, _ string) (*document.JobPosting, error) {
	s.jobCalls++
	if s.jobErr != nil {
		return nil, s.jobErr
	}
	return &document.JobPosting{Title: "Senior Go Engineer", Company: "Example Corp"}, nil
}

func (s *stubExtractor) ExtractResume(_ context.Context, _ string) (*document.Resume, error) {
	s.resumeCalls++
	return &document.Resume{
		PersonalInfo: document.PersonalInfo{Name: richtext.Plain("Ada Lovelace")},
		SkillSections: []document.SkillGroup{{
			Name:   richtext.Plain("Languages"),
			Skills: []richtext.RichText{richtext.Plain("Go")},
		}},
	}, nil
}

type stubTailorer struct {
	failName string
}

func (s *stubTailorer) Run(_ context.Context, tasks []tailor.Task, _ *document.JobPosting) ([]tailor.Outcome, error) {
	outcomes := make([]tailor.Outcome, len(tasks))
	for i, task := range tasks {
		outcomes[i] = tailor.Outcome{Task: task}
		if task.Name == s.failName {
			outcomes[i].Err = errors.New("model unavailable")
		}
	}
	return outcomes, nil
}

type stubRenderer struct {
	calls int
	err   error
}

func (s *stubRenderer) Render(_ context.Context, _ *document.TailoredResume) (string, string, error) {
	s.calls++
	if s.err != nil {
		return "", "", s.err
	}
	return "out/tailored_resume.pdf", "out/tailored_resume.tex", nil
}

type stubCloser struct {
	closed int
}

func (s *stubCloser) Close() error {
	s.closed++
	return nil
}

func newTestPipeline(t *testing.T, extractor *stubExtractor, renderer *stubRenderer, closer *stubCloser) *Pipeline {
	t.Helper()
	p, err := New(Deps{
		Extractor: extractor,
		Tailorer:  &stubTailorer{},
		Renderer:  renderer,
		Closer:    closer,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return p
}

func TestRunHappyPath(t *testing.T) {
	extractor := &stubExtractor{}
	renderer := &stubRenderer{}
	closer := &stubCloser{}
	p := newTestPipeline(t, extractor, renderer, closer)

	result, err := p.Run(context.Background(), Input{ResumeText: "# Ada", JobURL: "https://example.com/job"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.PDFPath == "" || result.TexPath == "" {
		t.Fatalf("expected output paths, got %+v", result)
	}
	if result.Tailored.PersonalInfo.Name.PlainText() != "Ada Lovelace" {
		t.Fatalf("personal info missing: %+v", result.Tailored)
	}
	if renderer.calls != 1 {
		t.Fatalf("expected one render, got %d", renderer.calls)
	}
	if closer.closed != 1 {
		t.Fatalf("expected cache closed once, got %d", closer.closed)
	}
}

func TestRunNoiseJobShortCircuits(t *testing.T) {
	extractor := &stubExtractor{jobErr: ErrNoiseContent}
	renderer := &stubRenderer{}
	closer := &stubCloser{}
	p := newTestPipeline(t, extractor, renderer, closer)

	_, err := p.Run(context.Background(), Input{ResumeText: "# Ada", JobURL: "https://example.com/job"})
	if !errors.Is(err, ErrNoiseContent) {
		t.Fatalf("expected ErrNoiseContent, got %v", err)
	}

	if extractor.resumeCalls != 0 {
		t.Fatalf("expected no resume extraction after a noise page, got %d", extractor.resumeCalls)
	}
	if renderer.calls != 0 {
		t.Fatalf("expected no render, got %d", renderer.calls)
	}
	if closer.closed != 1 {
		t.Fatalf("expected cache closed once even on failure, got %d", closer.closed)
	}
}

func TestRunSectionFailuresAreReported(t *testing.T) {
	extractor := &stubExtractor{}
	renderer := &stubRenderer{}
	p, err := New(Deps{
		Extractor: extractor,
		Tailorer:  &stubTailorer{failName: "skill_sections"},
		Renderer:  renderer,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := p.Run(context.Background(), Input{ResumeText: "# Ada", JobText: "a posting"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Failed) != 1 || result.Failed[0] != "skill_sections" {
		t.Fatalf("unexpected failed sections: %v", result.Failed)
	}
	if renderer.calls != 1 {
		t.Fatalf("a section failure must not stop the run, renders: %d", renderer.calls)
	}
}

func TestRunApprovalDeclineSkipsRender(t *testing.T) {
	extractor := &stubExtractor{}
	renderer := &stubRenderer{}
	p, err := New(Deps{
		Extractor: extractor,
		Tailorer:  &stubTailorer{},
		Renderer:  renderer,
		Approve:   func(*document.TailoredResume) (bool, error) { return false, nil },
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := p.Run(context.Background(), Input{ResumeText: "# Ada", JobText: "a posting"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if renderer.calls != 0 {
		t.Fatalf("expected no render after decline, got %d", renderer.calls)
	}
	if result.PDFPath != "" || result.TexPath != "" {
		t.Fatalf("expected no output paths, got %+v", result)
	}
	if result.Tailored == nil {
		t.Fatalf("expected the tailored document to be returned")
	}
}

func TestRunRenderFailure(t *testing.T) {
	extractor := &stubExtractor{}
	renderer := &stubRenderer{err: errors.New("pdflatex exited 1")}
	closer := &stubCloser{}
	p := newTestPipeline(t, extractor, renderer, closer)

	_, err := p.Run(context.Background(), Input{ResumeText: "# Ada", JobText: "a posting"})
	if !errors.Is(err, ErrRendering) {
		t.Fatalf("expected ErrRendering, got %v", err)
	}
	if closer.closed != 1 {
		t.Fatalf("expected cache closed once, got %d", closer.closed)
	}
}

func TestLoadResumeText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resume.md")
	if err := os.WriteFile(path, []byte("# Ada Lovelace"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text, err := LoadResumeText(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "# Ada Lovelace" {
		t.Fatalf("unexpected text: %q", text)
	}

	if _, err := LoadResumeText(filepath.Join(dir, "missing.md")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
