// Package preview reads page metadata used to pre-fill the submission form.
package preview

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/MrSnakeDoc/nextdir/internal/utils"
)

const (
	userAgent    = "nextdir-preview/1.0"
	maxRedirects = 5
)

// ErrUnsupportedURL is returned for anything but absolute http(s) URLs.
var ErrUnsupportedURL = errors.New("preview needs an absolute http(s) URL")

// Preview is the metadata found on a page. Empty fields were not present.
type Preview struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	SiteName    string `json:"siteName,omitempty"`
	Image       string `json:"image,omitempty"`
	GitHubURL   string `json:"githubUrl,omitempty"`
}

type Fetcher struct {
	client   *http.Client
	maxBytes int64
}

// NewFetcher builds a client with a short timeout, no keep-alive and
// TLS 1.2 or later.
func NewFetcher(timeout time.Duration, maxBytes int64) *Fetcher {
	client := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   timeout,
				KeepAlive: 0,
			}).DialContext,
			TLSHandshakeTimeout: timeout,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
			DisableKeepAlives: true,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}
	return &Fetcher{client: client, maxBytes: maxBytes}
}

// Fetch downloads at most maxBytes of the page and extracts its metadata.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (Preview, error) {
	target, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (target.Scheme != "http" && target.Scheme != "https") || target.Host == "" {
		return Preview{}, ErrUnsupportedURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), http.NoBody)
	if err != nil {
		return Preview{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return Preview{}, fmt.Errorf("request page: %w", err)
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return Preview{}, fmt.Errorf("page returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return Preview{}, fmt.Errorf("parse document: %w", err)
	}

	return extract(doc, resp.Request.URL), nil
}

// extract prefers OpenGraph values and falls back to plain HTML ones.
func extract(doc *goquery.Document, base *url.URL) Preview {
	p := Preview{URL: base.String()}

	p.Title = firstNonEmpty(
		meta(doc, "og:title"),
		meta(doc, "twitter:title"),
		doc.Find("title").First().Text(),
		doc.Find("h1").First().Text(),
	)
	p.Description = firstNonEmpty(
		meta(doc, "og:description"),
		meta(doc, "description"),
		meta(doc, "twitter:description"),
	)
	p.SiteName = meta(doc, "og:site_name")

	if img := firstNonEmpty(meta(doc, "og:image"), meta(doc, "twitter:image")); img != "" {
		if ref, err := url.Parse(img); err == nil {
			p.Image = base.ResolveReference(ref).String()
		}
	}

	p.GitHubURL = githubLink(doc, base)
	return p
}

// meta reads <meta property=...> or <meta name=...>.
func meta(doc *goquery.Document, key string) string {
	sel := doc.Find(fmt.Sprintf(`meta[property=%q], meta[name=%q]`, key, key)).First()
	content, _ := sel.Attr("content")
	return strings.TrimSpace(content)
}

// githubLink returns the page itself when it is a repository, otherwise
// the first repository link on the page.
func githubLink(doc *goquery.Document, base *url.URL) string {
	if isRepo(base) {
		return repoRoot(base)
	}

	var found string
	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		u, err := url.Parse(href)
		if err != nil {
			return true
		}
		u = base.ResolveReference(u)
		if isRepo(u) {
			found = repoRoot(u)
			return false
		}
		return true
	})
	return found
}

func isRepo(u *url.URL) bool {
	if !strings.EqualFold(u.Hostname(), "github.com") {
		return false
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	return len(parts) >= 2 && parts[0] != "" && parts[1] != ""
}

func repoRoot(u *url.URL) string {
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	return "https://github.com/" + parts[0] + "/" + parts[1]
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.Join(strings.Fields(v), " "); v != "" {
			return v
		}
	}
	return ""
}
