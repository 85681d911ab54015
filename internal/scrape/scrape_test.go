package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

const postingHTML = `<!DOCTYPE html>
<html>
<head><title>Job</title><style>body { color: red }</style></head>
<body>
<nav><ul><li>Home</li><li>Careers</li></ul></nav>
<main>
  <h1>Senior Go Engineer</h1>
  <p>Build and operate distributed services.</p>
  <ul>
    <li>5+ years of Go</li>
    <li>Experience with PostgreSQL</li>
  </ul>
</main>
<footer><p>Copyright</p></footer>
<script>console.log("tracking")</script>
</body>
</html>`

func TestExtractTextPrefersMainContent(t *testing.T) {
	text, err := ExtractText(postingHTML, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{"Senior Go Engineer", "5+ years of Go", "Experience with PostgreSQL"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in extracted text: %s", want, text)
		}
	}

	for _, unwanted := range []string{"console.log", "color: red", "Careers", "Copyright"} {
		if strings.Contains(text, unwanted) {
			t.Fatalf("expected %q to be stripped: %s", unwanted, text)
		}
	}
}

func TestExtractTextHonorsSelector(t *testing.T) {
	html := `<html><body><div id="posting"><p>Only this</p></div><div><p>Not this</p></div></body></html>`

	text, err := ExtractText(html, "#posting")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(text, "Only this") || strings.Contains(text, "Not this") {
		t.Fatalf("selector not honored: %s", text)
	}
}

func TestExtractTextFailsOnEmptyContent(t *testing.T) {
	if _, err := ExtractText("<html><body><script>x</script></body></html>", ""); err == nil {
		t.Fatalf("expected error for content-free page")
	}
}

func TestFetchText(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(postingHTML))
	}))
	defer server.Close()

	fetcher := NewFetcher(nil, zap.NewNop())

	text, err := fetcher.FetchText(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(text, "Senior Go Engineer") {
		t.Fatalf("unexpected text: %s", text)
	}

	if !strings.Contains(gotUA, "Mozilla/5.0") {
		t.Fatalf("expected browser-like user agent, got %q", gotUA)
	}
}

func TestFetchTextSurfacesHTTPErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "denied", http.StatusForbidden)
	}))
	defer server.Close()

	fetcher := NewFetcher(nil, zap.NewNop())

	if _, err := fetcher.FetchText(context.Background(), server.URL); err == nil {
		t.Fatalf("expected error for http 403")
	}
}

func TestFetchTextRejectsInvalidURL(t *testing.T) {
	fetcher := NewFetcher(nil, zap.NewNop())

	if _, err := fetcher.FetchText(context.Background(), "not a url"); err == nil {
		t.Fatalf("expected error for invalid url")
	}
}

func TestDecodeConfig(t *testing.T) {
	cfg, err := DecodeConfig(map[string]any{
		"timeout": "30s",
		"selectors": map[string]any{
			"careers.example.com": "#job-body",
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Timeout != 30*time.Second {
		t.Fatalf("timeout not decoded: %v", cfg.Timeout)
	}

	if cfg.Selectors["careers.example.com"] != "#job-body" {
		t.Fatalf("selectors not decoded: %v", cfg.Selectors)
	}
}
