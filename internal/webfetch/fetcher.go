// Package webfetch pulls a plain-text summary of a company website: the
// page title, meta description, main content and the titles of the most
// recent entries of the site's advertised RSS/Atom feed.
package webfetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/ignite/prospect-desk/internal/identity"
	"github.com/ignite/prospect-desk/internal/pkg/httpretry"
	"github.com/ignite/prospect-desk/internal/pkg/logger"
	"github.com/ignite/prospect-desk/internal/service/enrichment"
	"github.com/mmcdole/gofeed"
)

// Config tunes the fetcher.
type Config struct {
	// Scheme is "https" in production; tests point it at plain http.
	Scheme       string
	Timeout      time.Duration
	MaxBytes     int64
	UserAgent    string
	MaxRetries   int
	MaxFeedItems int
	// AllowPrivate lifts the public-address checks. Only tests against
	// loopback servers set it.
	AllowPrivate bool
}

// Fetcher implements enrichment.Fetcher over HTTP.
type Fetcher struct {
	cfg        Config
	httpClient httpretry.HTTPDoer
	feedParser *gofeed.Parser
}

var hostPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9.-]*[a-z0-9])?(:[0-9]+)?$`)

// New creates a Fetcher.
func New(cfg Config) *Fetcher {
	if cfg.Scheme == "" {
		cfg.Scheme = "https"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 2 << 20
	}
	if cfg.MaxFeedItems <= 0 {
		cfg.MaxFeedItems = 5
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "ProspectDeskBot/1.0"
	}
	return &Fetcher{
		cfg:        cfg,
		httpClient: httpretry.NewRetryClient(newHTTPClient(cfg), cfg.MaxRetries),
		feedParser: gofeed.NewParser(),
	}
}

// Fetch implements enrichment.Fetcher.
func (f *Fetcher) Fetch(ctx context.Context, host string) (string, error) {
	host = strings.ToLower(strings.TrimSpace(host))
	if !hostPattern.MatchString(host) {
		return "", fmt.Errorf("%w: %q", enrichment.ErrInvalidHost, host)
	}
	if !f.cfg.AllowPrivate && !identity.IsPublicHost(hostname(host)) {
		return "", fmt.Errorf("%w: %s is not a public host", enrichment.ErrInvalidHost, host)
	}
	base := &url.URL{Scheme: f.cfg.Scheme, Host: host, Path: "/"}

	resp, err := f.get(ctx, base.String(), "text/html")
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
			return "", fmt.Errorf("%w: %s does not resolve", enrichment.ErrInvalidHost, host)
		}
		if errors.Is(err, errBlockedAddress) {
			return "", fmt.Errorf("%w: %w", enrichment.ErrInvalidHost, err)
		}
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("fetch %s: HTTP %d", host, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, f.cfg.MaxBytes))
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", host, err)
	}

	var parts []string
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}
	if title != "" {
		parts = append(parts, title)
	}
	if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok && strings.TrimSpace(desc) != "" {
		parts = append(parts, strings.TrimSpace(desc))
	}

	var feedURL string
	if u := feedLink(doc, resp.Request.URL); u != nil && f.sameSite(u, resp.Request.URL) {
		feedURL = u.String()
	}
	if content := extractPageContent(doc); content != "" {
		parts = append(parts, content)
	}

	if feedURL != "" {
		titles, err := f.feedTitles(ctx, feedURL)
		if err != nil {
			logger.Debug("feed fetch failed", "host", host, "feed", feedURL, "error", err)
		} else if len(titles) > 0 {
			parts = append(parts, "Recent posts: "+strings.Join(titles, "; "))
		}
	}

	return strings.Join(parts, "\n\n"), nil
}

func (f *Fetcher) get(ctx context.Context, target, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Accept", accept)
	return f.httpClient.Do(req)
}

func (f *Fetcher) feedTitles(ctx context.Context, feedURL string) ([]string, error) {
	resp, err := f.get(ctx, feedURL, "application/rss+xml, application/atom+xml, application/xml")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	feed, err := f.feedParser.Parse(io.LimitReader(resp.Body, f.cfg.MaxBytes))
	if err != nil {
		return nil, err
	}
	var titles []string
	for _, item := range feed.Items {
		if t := strings.TrimSpace(item.Title); t != "" {
			titles = append(titles, t)
		}
		if len(titles) == f.cfg.MaxFeedItems {
			break
		}
	}
	return titles, nil
}

// feedLink returns the absolute URL of the first advertised feed.
func feedLink(doc *goquery.Document, base *url.URL) *url.URL {
	var out *url.URL
	doc.Find(`link[rel="alternate"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		typ, _ := s.Attr("type")
		href, ok := s.Attr("href")
		if !ok || !(strings.Contains(typ, "rss") || strings.Contains(typ, "atom")) {
			return true
		}
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return true
		}
		out = base.ResolveReference(ref)
		return false
	})
	return out
}

// sameSite reports whether a feed link stays on the fetched site: same
// host and port, ignoring a www. prefix, and the configured scheme.
func (f *Fetcher) sameSite(feed, page *url.URL) bool {
	if !strings.EqualFold(feed.Scheme, f.cfg.Scheme) || !strings.EqualFold(page.Scheme, f.cfg.Scheme) {
		return false
	}
	strip := func(h string) string { return strings.TrimPrefix(strings.ToLower(h), "www.") }
	return feed.User == nil && strip(feed.Host) == strip(page.Host)
}

func hostname(hostport string) string {
	if h, _, err := net.SplitHostPort(hostport); err == nil {
		return h
	}
	return hostport
}

// extractPageContent extracts meaningful text from an HTML document.
func extractPageContent(doc *goquery.Document) string {
	doc.Find("script, style, noscript, nav, footer, header, aside, .sidebar, .menu, .cookie-notice").Remove()

	var parts []string
	for _, sel := range []string{"article", "main", ".content", "#content", ".hero", "section"} {
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			if text := collapse(s.Text()); len(text) > 40 {
				parts = append(parts, text)
			}
		})
		if len(parts) > 0 {
			break
		}
	}
	if len(parts) == 0 {
		if body := collapse(doc.Find("body").Text()); body != "" {
			parts = append(parts, body)
		}
	}
	return strings.Join(parts, "\n")
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
