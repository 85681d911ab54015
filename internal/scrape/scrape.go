package scrape

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/resfit/resfit/internal/util"
)

const defaultTimeout = 15 * time.Second

// Job boards regularly reject non-browser agents, so requests identify as a
// desktop browser.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
}

// Nodes that never carry posting content.
const strippedNodes = "script, style, noscript, nav, header, footer, iframe, svg, form"

// Config controls the fetcher.
type Config struct {
	// Timeout bounds one fetch. Zero means the default.
	Timeout time.Duration `mapstructure:"timeout"`
	// Selectors maps a hostname to a CSS selector locating that site's
	// posting body, overriding the generic main-content heuristics.
	Selectors map[string]string `mapstructure:"selectors"`
}

// DecodeConfig decodes a raw configuration map (e.g. viper's scrape subtree)
// into a Config.
func DecodeConfig(raw map[string]any) (*Config, error) {
	var cfg Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     &cfg,
		DecodeHook: mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decoding scrape config: %w", err)
	}
	return &cfg, nil
}

// Fetcher retrieves a job posting page and reduces it to readable text.
type Fetcher struct {
	http      *resty.Client
	selectors map[string]string
	logger    *zap.Logger
}

// NewFetcher creates a Fetcher. cfg and logger may be nil.
func NewFetcher(cfg *Config, logger *zap.Logger) *Fetcher {
	if cfg == nil {
		cfg = &Config{}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgents[rand.Intn(len(userAgents))]).
		SetHeader("Accept-Language", "en-US,en;q=0.9")

	return &Fetcher{
		http:      client,
		selectors: cfg.Selectors,
		logger:    logger,
	}
}

// FetchText downloads the page at rawURL and extracts its main text content.
func (f *Fetcher) FetchText(ctx context.Context, rawURL string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || parsed.Host == "" {
		return "", fmt.Errorf("invalid job posting url %q", rawURL)
	}

	resp, err := f.http.R().SetContext(ctx).Get(parsed.String())
	if err != nil {
		return "", fmt.Errorf("fetching job posting: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("fetching job posting: unexpected status %s", resp.Status())
	}

	f.logger.Debug("job posting fetched",
		zap.String("host", parsed.Host),
		zap.Int("body_length", len(resp.Body())),
	)

	text, err := ExtractText(resp.String(), f.selectors[parsed.Host])
	if err != nil {
		return "", fmt.Errorf("extracting job posting content from %s: %w", parsed.Host, err)
	}

	return text, nil
}

// ExtractText reduces an HTML document to its readable text. When selector is
// non-empty it locates the content; otherwise main/article are preferred over
// the full body.
func ExtractText(html, selector string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parsing html: %w", err)
	}

	doc.Find(strippedNodes).Remove()

	root := doc.Selection
	switch {
	case selector != "":
		if picked := doc.Find(selector); picked.Length() > 0 {
			root = picked
		}
	default:
		for _, candidate := range []string{"main", "article", "body"} {
			if picked := doc.Find(candidate); picked.Length() > 0 {
				root = picked
				break
			}
		}
	}

	text := util.CollapseWhitespace(blockText(root))
	if text == "" {
		return "", errors.New("no readable content found")
	}

	return text, nil
}

// blockText renders the selection's text with newlines between block-level
// children, so headings and list items do not run together.
func blockText(sel *goquery.Selection) string {
	var b strings.Builder
	sel.Find("h1, h2, h3, h4, h5, h6, p, li, div, td, th").Each(func(_ int, node *goquery.Selection) {
		// Leaf-ish nodes only: a div wrapping other blocks would duplicate text.
		if node.Children().Filter("h1, h2, h3, h4, h5, h6, p, li, div, ul, ol, table").Length() > 0 {
			return
		}
		if line := strings.TrimSpace(node.Text()); line != "" {
			b.WriteString(line)
			b.WriteString("\n")
		}
	})

	if b.Len() == 0 {
		return sel.Text()
	}
	return b.String()
}
