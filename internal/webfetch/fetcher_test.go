package webfetch

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/ignite/prospect-desk/internal/service/enrichment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const homePage = `<!doctype html>
<html><head>
  <title>Ledgerly | Reconciliation for fintech</title>
  <meta name="description" content="Close the books in hours, not weeks.">
  <link rel="alternate" type="application/rss+xml" href="/feed.xml">
  <script>var tracking = "ignore me";</script>
</head>
<body>
  <nav>Home Pricing Login</nav>
  <main><h1>Automated reconciliation</h1><p>Ledgerly matches every payment to every invoice for finance teams.</p></main>
  <footer>© Ledgerly</footer>
</body></html>`

const feed = `<?xml version="1.0"?>
<rss version="2.0"><channel><title>Blog</title>
  <item><title>Series A announcement</title></item>
  <item><title>How we reconcile 1M payments a day</title></item>
  <item><title>Hiring a CFO advisor</title></item>
</channel></rss>`

func newServer(t *testing.T, mux *http.ServeMux) (*Fetcher, string) {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	f := New(Config{Scheme: "http", MaxFeedItems: 2, AllowPrivate: true})
	return f, strings.TrimPrefix(srv.URL, "http://")
}

func TestFetch_PageAndFeed(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ProspectDeskBot/1.0", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(homePage))
	})
	mux.HandleFunc("/feed.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(feed))
	})
	f, host := newServer(t, mux)

	out, err := f.Fetch(context.Background(), host)
	require.NoError(t, err)

	assert.Contains(t, out, "Ledgerly | Reconciliation for fintech")
	assert.Contains(t, out, "Close the books in hours")
	assert.Contains(t, out, "matches every payment to every invoice")
	assert.Contains(t, out, "Recent posts: Series A announcement; How we reconcile 1M payments a day")
	assert.NotContains(t, out, "Hiring a CFO advisor")
	assert.NotContains(t, out, "ignore me")
	assert.NotContains(t, out, "Pricing Login")
}

func TestFetch_BrokenFeedIsIgnored(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(homePage))
	})
	mux.HandleFunc("/feed.xml", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	})
	f, host := newServer(t, mux)

	out, err := f.Fetch(context.Background(), host)
	require.NoError(t, err)
	assert.NotContains(t, out, "Recent posts")
}

func TestFetch_HTTPError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	})
	f, host := newServer(t, mux)

	_, err := f.Fetch(context.Background(), host)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 403")
	assert.NotErrorIs(t, err, enrichment.ErrInvalidHost)
}

func TestFetch_InvalidHost(t *testing.T) {
	f := New(Config{})
	for _, h := range []string{
		"", "bad host.com", "evil.com/path", "-lead.com", "a@b.com",
		"127.0.0.1", "10.0.0.5:8080", "169.254.169.254", "localhost:8080", "metadata.google.internal",
	} {
		_, err := f.Fetch(context.Background(), h)
		assert.ErrorIs(t, err, enrichment.ErrInvalidHost, h)
	}
}

func TestFetch_FeedMustStayOnSite(t *testing.T) {
	var offsiteHits atomic.Int32
	offsite := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		offsiteHits.Add(1)
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(`<rss version="2.0"><channel><item><title>ami-0abc secret</title></item></channel></rss>`))
	}))
	t.Cleanup(offsite.Close)

	for name, href := range map[string]string{
		"other host":   offsite.URL + "/latest/meta-data/",
		"other scheme": "ftp://" + strings.TrimPrefix(offsite.URL, "http://") + "/feed.xml",
	} {
		t.Run(name, func(t *testing.T) {
			page := fmt.Sprintf(`<html><head><title>Acme</title>
<link rel="alternate" type="application/rss+xml" href="%s"></head>
<body><main>Acme builds payment rails for marketplaces and platforms.</main></body></html>`, href)
			mux := http.NewServeMux()
			mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(page))
			})
			f, host := newServer(t, mux)

			out, err := f.Fetch(context.Background(), host)
			require.NoError(t, err)
			assert.Contains(t, out, "Acme builds payment rails")
			assert.NotContains(t, out, "Recent posts")
			assert.NotContains(t, out, "secret")
		})
	}
	assert.Zero(t, offsiteHits.Load())
}

func TestGet_RefusesPrivateAddresses(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	t.Cleanup(srv.Close)

	// Bypasses the host check in Fetch, as a rebinding DNS name would.
	f := New(Config{Scheme: "http"})
	_, err := f.get(context.Background(), srv.URL, "text/html")
	require.Error(t, err)
	assert.ErrorIs(t, err, errBlockedAddress)
	assert.Zero(t, hits.Load())
}

func TestBlockedIP(t *testing.T) {
	for _, ip := range []string{
		"127.0.0.1", "10.0.0.5", "172.16.3.4", "192.168.1.1", "169.254.169.254",
		"100.64.0.1", "0.0.0.0", "::1", "fe80::1", "fd00::1", "::ffff:127.0.0.1",
	} {
		assert.True(t, blockedIP(net.ParseIP(ip)), ip)
	}
	for _, ip := range []string{"93.184.216.34", "1.1.1.1", "2606:4700:4700::1111"} {
		assert.False(t, blockedIP(net.ParseIP(ip)), ip)
	}
}
