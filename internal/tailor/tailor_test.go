package tailor

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/resfit/resfit/internal/ai"
	"github.com/resfit/resfit/internal/document"
	"github.com/resfit/resfit/internal/richtext"
)

func testResume() *document.Resume {
	summary := richtext.Plain("Engineer with a decade of backend work.")
	return &document.Resume{
		PersonalInfo: document.PersonalInfo{
			Name:  richtext.Plain("Ada Lovelace"),
			Email: richtext.Plain("ada@example.com"),
		},
		Summary: &summary,
		WorkExperience: []document.Experience{{
			Role:       richtext.Plain("Backend Engineer"),
			Company:    richtext.Plain("Example Corp"),
			DatePeriod: richtext.Plain("2019 - 2024"),
			Description: []richtext.RichText{
				richtext.Plain("Built payment services in Go."),
			},
		}},
		SkillSections: []document.SkillGroup{{
			Name:   richtext.Plain("Languages"),
			Skills: []richtext.RichText{richtext.Plain("Go"), richtext.Plain("SQL")},
		}},
		Projects: []document.Project{{
			Name:       richtext.Plain("resfit"),
			Link:       &richtext.Segment{Kind: richtext.KindLink, Text: "repo", URL: "https://github.com/ada/resfit"},
			DatePeriod: richtext.Plain("2024"),
			Description: []richtext.RichText{{
				Segments: []richtext.Segment{
					richtext.Text("Published at "),
					richtext.Link("ada.dev", "https://ada.dev/resfit"),
				},
			}},
		}},
		Certifications: []document.Certification{{
			Info: richtext.Plain("CKA"),
		}},
		CustomSections: []document.GenericSection{{
			Name: richtext.Plain("Volunteering"),
			Entries: []document.GenericEntry{{
				Title: richtext.Plain("Code mentor"),
			}},
		}},
		Keywords: []string{"go", "payments"},
	}
}

func testJob() *document.JobPosting {
	return &document.JobPosting{
		Title:    "Senior Go Engineer",
		Company:  "Example Corp",
		Keywords: []string{"go", "distributed systems"},
	}
}

// sectionCompleter answers each task by its payload tag.
type sectionCompleter struct {
	responses map[string]string
	failures  map[string]error
	delay     time.Duration

	calls     atomic.Int64
	active    atomic.Int64
	maxActive atomic.Int64
}

func (s *sectionCompleter) Complete(ctx context.Context, req ai.Request) ([]byte, error) {
	s.calls.Add(1)

	active := s.active.Add(1)
	defer s.active.Add(-1)
	for {
		seen := s.maxActive.Load()
		if active <= seen || s.maxActive.CompareAndSwap(seen, active) {
			break
		}
	}

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	for tag, err := range s.failures {
		if strings.Contains(req.User, "<"+tag+">") {
			return nil, err
		}
	}
	for tag, resp := range s.responses {
		if strings.Contains(req.User, "<"+tag+">") {
			return []byte(resp), nil
		}
	}
	return nil, errors.New("stub: no response for request")
}

func relevant(t *testing.T, data any) string {
	t.Helper()
	raw, err := json.Marshal(map[string]any{"is_relevant": true, "data": data})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return string(raw)
}

func defaultResponses(t *testing.T) map[string]string {
	t.Helper()
	summary := richtext.Plain("Backend engineer shipping Go payment systems.")
	return map[string]string{
		"SUMMARY":         relevant(t, summary),
		"WORK_EXPERIENCE": relevant(t, testResume().WorkExperience),
		"SKILL_SECTIONS":  relevant(t, testResume().SkillSections),
		"PROJECTS":        relevant(t, testResume().Projects),
		"CERTIFICATIONS":  relevant(t, testResume().Certifications),
		"VOLUNTEERING":    relevant(t, testResume().CustomSections[0].Entries),
	}
}

func TestPlanOrderAndPayloads(t *testing.T) {
	resume := testResume()

	tasks, err := Plan(resume)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var names []string
	for _, task := range tasks {
		names = append(names, task.Name)
	}
	want := []string{"summary", "work_experience", "skill_sections", "projects", "certifications", "Volunteering"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("unexpected task order: %v", names)
	}

	// The summary is tailored from the whole resume, not just a previous
	// summary paragraph.
	if !strings.Contains(tasks[0].payload, "work_experience") || !strings.Contains(tasks[0].payload, "ada@example.com") {
		t.Fatalf("summary payload is not the full resume: %s", tasks[0].payload)
	}

	for _, task := range tasks[1:] {
		if strings.Contains(task.payload, "personal_info") {
			t.Fatalf("section %s payload leaks personal info: %s", task.Name, task.payload)
		}
	}
}

func TestPlanSkipsEmptySections(t *testing.T) {
	resume := &document.Resume{
		PersonalInfo: document.PersonalInfo{Name: richtext.Plain("Ada Lovelace")},
		Education:    []document.Education{},
	}

	tasks, err := Plan(resume)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(tasks) != 1 || tasks[0].Kind != KindSummary {
		t.Fatalf("expected only the summary task, got %+v", tasks)
	}
}

func TestRunIsolatesSectionFailures(t *testing.T) {
	resume := testResume()
	tasks, err := Plan(resume)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	completer := &sectionCompleter{
		responses: defaultResponses(t),
		failures:  map[string]error{"PROJECTS": errors.New("model unavailable")},
	}

	scheduler, err := NewScheduler(completer, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	outcomes, err := scheduler.Run(context.Background(), tasks, testJob())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tailored := Assemble(resume, outcomes)

	if len(tailored.Projects) != 0 {
		t.Fatalf("failed section leaked into output: %+v", tailored.Projects)
	}
	if tailored.Summary == nil {
		t.Fatalf("expected summary to survive a sibling failure")
	}
	if len(tailored.WorkExperience) != 1 || len(tailored.SkillSections) != 1 || len(tailored.Certifications) != 1 {
		t.Fatalf("expected remaining sections to survive: %+v", tailored)
	}
	if len(tailored.CustomSections["Volunteering"]) != 1 {
		t.Fatalf("expected custom section to survive: %+v", tailored.CustomSections)
	}

	var failed int
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			failed++
		}
	}
	if failed != 1 {
		t.Fatalf("expected exactly one failed outcome, got %d", failed)
	}
}

func TestRunBoundsConcurrency(t *testing.T) {
	resume := testResume()
	tasks, err := Plan(resume)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tasks) < 4 {
		t.Fatalf("test needs more tasks than the limit, got %d", len(tasks))
	}

	completer := &sectionCompleter{
		responses: defaultResponses(t),
		delay:     20 * time.Millisecond,
	}

	scheduler, err := NewScheduler(completer, Options{Concurrency: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := scheduler.Run(context.Background(), tasks, testJob()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := completer.maxActive.Load(); got > 2 {
		t.Fatalf("concurrency limit violated: %d simultaneous completions", got)
	}
	if got := completer.calls.Load(); got != int64(len(tasks)) {
		t.Fatalf("expected %d completions, got %d", len(tasks), got)
	}
}

func TestRunSkipsNotRelevantSections(t *testing.T) {
	resume := testResume()
	tasks, err := Plan(resume)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	responses := defaultResponses(t)
	responses["CERTIFICATIONS"] = `{"is_relevant": false, "data": null}`
	completer := &sectionCompleter{responses: responses}

	scheduler, err := NewScheduler(completer, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	outcomes, err := scheduler.Run(context.Background(), tasks, testJob())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tailored := Assemble(resume, outcomes)
	if len(tailored.Certifications) != 0 {
		t.Fatalf("not-relevant section leaked into output: %+v", tailored.Certifications)
	}

	for _, outcome := range outcomes {
		if outcome.Task.Kind == KindCertifications && outcome.Err != nil {
			t.Fatalf("a not-relevant verdict is not a failure: %v", outcome.Err)
		}
	}
}

func TestAssemblePreservesHyperlinks(t *testing.T) {
	resume := testResume()
	tasks, err := Plan(resume)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	completer := &sectionCompleter{responses: defaultResponses(t)}
	scheduler, err := NewScheduler(completer, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	outcomes, err := scheduler.Run(context.Background(), tasks, testJob())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tailored := Assemble(resume, outcomes)

	if tailored.Projects[0].Link == nil || tailored.Projects[0].Link.URL != "https://github.com/ada/resfit" {
		t.Fatalf("project link lost: %+v", tailored.Projects[0].Link)
	}

	links := tailored.Projects[0].Description[0].Links()
	if len(links) != 1 || links[0] != "https://ada.dev/resfit" {
		t.Fatalf("description link lost: %v", links)
	}
}

func TestAssembleIsDeterministic(t *testing.T) {
	resume := testResume()
	tasks, err := Plan(resume)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	completer := &sectionCompleter{responses: defaultResponses(t)}
	scheduler, err := NewScheduler(completer, Options{Concurrency: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	outcomes, err := scheduler.Run(context.Background(), tasks, testJob())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Shuffled outcome order stands in for nondeterministic completion order.
	shuffled := make([]Outcome, 0, len(outcomes))
	for i := len(outcomes) - 1; i >= 0; i-- {
		shuffled = append(shuffled, outcomes[i])
	}

	first := Assemble(resume, outcomes)
	second := Assemble(resume, shuffled)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("assembly depends on outcome order:\n%+v\n%+v", first, second)
	}
	if first.PersonalInfo.Name.PlainText() != "Ada Lovelace" {
		t.Fatalf("personal info not carried over: %+v", first.PersonalInfo)
	}
}
