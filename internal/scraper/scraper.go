package scraper

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Resolution is what a page reveals about itself: the canonical URL and the
// headline it actually carries. Feeds sometimes hand out tracking/shortened
// URLs and truncated titles; resolving against the page itself makes URL
// deduplication and title similarity sharper.
type Resolution struct {
	CanonicalURL string
	Title        string
}

type Resolver struct {
	client *http.Client
}

func NewResolver(timeout time.Duration) *Resolver {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Resolver{
		client: &http.Client{Timeout: timeout},
	}
}

// Resolve fetches a candidate URL and extracts its canonical link and
// og:title (falling back to <title>). Missing pieces come back empty rather
// than as errors; only transport and parse failures error out.
func (r *Resolver) Resolve(url string) (*Resolution, error) {
	resp, err := r.client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	res := &Resolution{
		CanonicalURL: extractCanonical(doc),
		Title:        extractTitle(doc),
	}
	return res, nil
}

func extractCanonical(doc *goquery.Document) string {
	href, ok := doc.Find(`link[rel="canonical"]`).First().Attr("href")
	if !ok {
		return ""
	}
	return strings.TrimSpace(href)
}

func extractTitle(doc *goquery.Document) string {
	if content, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok {
		if t := strings.TrimSpace(content); t != "" {
			return t
		}
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}
