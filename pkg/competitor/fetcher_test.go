package competitor

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mindforge-be/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bakeryPage = `<!doctype html>
<html><head>
<title> Sweet   Crumbs Bakery </title>
<meta name="description" content="Fresh bread daily">
</head><body>
<nav>
<a href="/menu">Menu</a>
<a href="#top">Top</a>
<a href="javascript:void(0)">Open</a>
<a href="/about"></a>
<a href="/order">Order <b>online</b></a>
</nav>
<h1>Welcome</h1><h2>Our breads</h2><h3></h3>
</body></html>`

func TestResolveURLs(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		explicit []string
		limit    int
		want     []string
	}{
		{
			name:  "from query",
			query: "compare https://a.com and http://b.org/menu please",
			limit: 10,
			want:  []string{"https://a.com", "http://b.org/menu"},
		},
		{
			name:     "explicit wins",
			query:    "https://ignored.com",
			explicit: []string{" https://x.com ", ""},
			limit:    10,
			want:     []string{"https://x.com"},
		},
		{
			name:  "limit applies",
			query: "https://1.com https://2.com https://3.com",
			limit: 2,
			want:  []string{"https://1.com", "https://2.com"},
		},
		{
			name:  "none",
			query: "no links here",
			limit: 10,
			want:  nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveURLs(tt.query, tt.explicit, tt.limit))
		})
	}
}

func TestFetcher_Fetch(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		fmt.Fprint(w, bakeryPage)
	}))
	defer srv.Close()

	f := NewFetcher(5*time.Second, "test-agent", 1<<20)
	site := f.Fetch(context.Background(), srv.URL)

	require.True(t, site.OK(), site.Error)
	assert.Equal(t, "test-agent", gotUA)
	assert.Equal(t, "Sweet Crumbs Bakery", site.Title)
	assert.Equal(t, "Fresh bread daily", site.MetaDescription)
	assert.Equal(t, []string{"Welcome", "Our breads"}, site.Headings)
	assert.Equal(t, []entity.NavLink{
		{Href: "/menu", Text: "Menu"},
		{Href: "/order", Text: "Order online"},
	}, site.NavLinks)
	assert.Equal(t, len(bakeryPage), site.ContentLength)
}

func TestFetcher_Limits(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("<html><body>")
	for i := 0; i < 40; i++ {
		fmt.Fprintf(&sb, "<h2>Heading %d</h2><a href=\"/p%d\">Page %d</a>", i, i, i)
	}
	sb.WriteString("</body></html>")
	page := sb.String()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page)
	}))
	defer srv.Close()

	site := NewFetcher(5*time.Second, "ua", 1<<20).Fetch(context.Background(), srv.URL)
	require.True(t, site.OK())
	assert.Len(t, site.Headings, maxHeadings)
	assert.Len(t, site.NavLinks, maxLinks)
	assert.Equal(t, "No title", site.Title)

	truncated := NewFetcher(5*time.Second, "ua", 100).Fetch(context.Background(), srv.URL)
	assert.Equal(t, 100, truncated.ContentLength)
}

func TestFetcher_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewFetcher(5*time.Second, "ua", 1<<20)

	site := f.Fetch(context.Background(), srv.URL)
	assert.False(t, site.OK())
	assert.Contains(t, site.Error, "404")

	site = f.Fetch(context.Background(), "http://127.0.0.1:1/unreachable")
	assert.False(t, site.OK())
	assert.Equal(t, "http://127.0.0.1:1/unreachable", site.URL)
}
