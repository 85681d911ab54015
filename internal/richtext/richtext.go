package richtext

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind discriminates the two segment variants.
type Kind int

const (
	// KindText is a plain text segment.
	KindText Kind = iota
	// KindLink is a text segment anchored to a URL.
	KindLink
)

// Segment is a single unit of rich text: either plain text or text with a
// hyperlink target. The URL of a link segment must survive every
// transformation unchanged.
type Segment struct {
	Kind Kind
	Text string
	URL  string
}

// Text returns a plain text segment.
func Text(text string) Segment {
	return Segment{Kind: KindText, Text: text}
}

// Link returns a link segment anchored to url.
func Link(text, url string) Segment {
	return Segment{Kind: KindLink, Text: text, URL: url}
}

type segmentJSON struct {
	Text string `json:"text"`
	URL  string `json:"url,omitempty"`
}

// MarshalJSON encodes the segment as {"text": ...} or {"text": ..., "url": ...}.
func (s Segment) MarshalJSON() ([]byte, error) {
	switch s.Kind {
	case KindText:
		return json.Marshal(segmentJSON{Text: s.Text})
	case KindLink:
		if strings.TrimSpace(s.URL) == "" {
			return nil, fmt.Errorf("link segment %q has no url", s.Text)
		}
		return json.Marshal(segmentJSON{Text: s.Text, URL: s.URL})
	default:
		return nil, fmt.Errorf("unknown segment kind %d", s.Kind)
	}
}

// UnmarshalJSON decodes a segment, deriving the variant from url presence.
func (s *Segment) UnmarshalJSON(data []byte) error {
	var raw segmentJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if strings.TrimSpace(raw.URL) == "" {
		*s = Text(raw.Text)
		return nil
	}

	*s = Link(raw.Text, raw.URL)
	return nil
}

// RichText is an ordered sequence of segments. Concatenating segment text in
// order yields the plain-text rendering. Values are treated as immutable once
// produced by extraction: downstream stages replace whole values.
type RichText struct {
	Segments []Segment `json:"segments"`
}

// Plain builds a RichText holding a single plain text segment.
func Plain(text string) RichText {
	return RichText{Segments: []Segment{Text(text)}}
}

// PlainText renders the text content of all segments in order.
func (rt RichText) PlainText() string {
	var b strings.Builder
	for _, seg := range rt.Segments {
		b.WriteString(seg.Text)
	}
	return b.String()
}

// Links returns the URL of every link segment in order.
func (rt RichText) Links() []string {
	var urls []string
	for _, seg := range rt.Segments {
		switch seg.Kind {
		case KindText:
		case KindLink:
			urls = append(urls, seg.URL)
		}
	}
	return urls
}

// IsEmpty reports whether the rich text renders to an empty string.
func (rt RichText) IsEmpty() bool {
	return strings.TrimSpace(rt.PlainText()) == ""
}

// CollectLinks gathers link targets from several rich text values in order.
func CollectLinks(values ...RichText) []string {
	var urls []string
	for _, v := range values {
		urls = append(urls, v.Links()...)
	}
	return urls
}
