// Package explain resolves event IDs to human-readable explanations through
// a persistent cache and an online reference source.
package explain

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	"EventLens/internal/retry"
)

// DefaultTimeout is the per-request timeout for online lookups.
const DefaultTimeout = 10 * time.Second

// lookupURL is the reference encyclopedia queried for event ID explanations.
const lookupURL = "https://www.ultimatewindowssecurity.com/securitylog/encyclopedia/event.aspx?eventid=%s"

// userAgent mirrors a browser string; the reference site rejects default
// client agents.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/58.0.3029.110 Safari/537.36"

// Lookup fetches an explanation for an event ID from an external source.
// Implementations return ("", error) on any network or parse condition;
// the resolver downgrades the id rather than failing the run.
type Lookup interface {
	Lookup(ctx context.Context, eventID string) (string, error)
}

// HTTPLookup queries the online event encyclopedia.
type HTTPLookup struct {
	client *http.Client
	retry  retry.Config

	// URL overrides the lookup endpoint; used by tests. Must contain one
	// %s verb for the event ID.
	URL string
}

// NewHTTPLookup creates a lookup client with the given per-request timeout.
// A zero timeout uses DefaultTimeout.
func NewHTTPLookup(timeout time.Duration) *HTTPLookup {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPLookup{
		client: &http.Client{Timeout: timeout},
		retry:  retry.DefaultConfig,
		URL:    lookupURL,
	}
}

// Lookup fetches and extracts the explanation text for the given event ID.
func (l *HTTPLookup) Lookup(ctx context.Context, eventID string) (string, error) {
	var explanation string

	err := retry.Do(ctx, "event id lookup", l.retry, func() error {
		text, err := l.fetch(ctx, eventID)
		if err != nil {
			return err
		}
		explanation = text
		return nil
	})
	if err != nil {
		return "", err
	}

	return explanation, nil
}

func (l *HTTPLookup) fetch(ctx context.Context, eventID string) (string, error) {
	url := fmt.Sprintf(l.URL, eventID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create lookup request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := l.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("lookup request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("lookup returned status %d", resp.StatusCode)
	}

	text, err := firstParagraph(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse lookup response: %w", err)
	}
	if text == "" {
		return "", fmt.Errorf("no explanation found for event id %s", eventID)
	}

	return text, nil
}

// firstParagraph returns the text content of the first <p> element in the
// document, which is where the encyclopedia places the event description.
func firstParagraph(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", err
	}

	var p *html.Node
	var find func(*html.Node)
	find = func(n *html.Node) {
		if p != nil {
			return
		}
		if n.Type == html.ElementNode && n.Data == "p" {
			p = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			find(c)
		}
	}
	find(doc)

	if p == nil {
		return "", nil
	}

	var b strings.Builder
	var text func(*html.Node)
	text = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			text(c)
		}
	}
	text(p)

	return strings.TrimSpace(b.String()), nil
}
