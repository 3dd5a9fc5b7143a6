// Package competitor scrapes competitor sites and asks the model for a
// comparative report.
package competitor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"mindforge-be/internal/entity"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	maxHeadings = 20
	maxLinks    = 30
)

var urlPattern = regexp.MustCompile(`https?://[^\s<>"']+`)

// ResolveURLs prefers the explicit list and otherwise pulls http(s) URLs out
// of the free-text query. At most limit URLs are returned.
func ResolveURLs(query string, explicit []string, limit int) []string {
	var urls []string
	for _, u := range explicit {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}
	if len(urls) == 0 {
		urls = urlPattern.FindAllString(query, -1)
	}
	if limit > 0 && len(urls) > limit {
		urls = urls[:limit]
	}
	return urls
}

type Fetcher struct {
	client    *http.Client
	userAgent string
	maxBytes  int64
}

func NewFetcher(timeout time.Duration, userAgent string, maxBytes int64) *Fetcher {
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		maxBytes:  maxBytes,
	}
}

// Fetch never fails outright; problems are recorded on the extraction.
func (f *Fetcher) Fetch(ctx context.Context, url string) entity.SiteExtraction {
	out := entity.SiteExtraction{URL: url}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		out.Error = err.Error()
		return out
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		out.Error = err.Error()
		return out
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		out.Error = fmt.Sprintf("unexpected status %d", resp.StatusCode)
		return out
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		out.Error = err.Error()
		return out
	}
	out.ContentLength = len(body)

	doc, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		out.Error = err.Error()
		return out
	}
	extract(doc, &out)
	if out.Title == "" {
		out.Title = "No title"
	}
	return out
}

func extract(doc *html.Node, out *entity.SiteExtraction) {
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Title:
				if out.Title == "" {
					out.Title = textOf(n)
				}
			case atom.Meta:
				if strings.EqualFold(attr(n, "name"), "description") && out.MetaDescription == "" {
					out.MetaDescription = strings.TrimSpace(attr(n, "content"))
				}
			case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
				if len(out.Headings) < maxHeadings {
					if t := textOf(n); t != "" {
						out.Headings = append(out.Headings, t)
					}
				}
			case atom.A:
				href := strings.TrimSpace(attr(n, "href"))
				text := textOf(n)
				if len(out.NavLinks) < maxLinks && keepLink(href, text) {
					out.NavLinks = append(out.NavLinks, entity.NavLink{Href: href, Text: text})
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
}

func keepLink(href, text string) bool {
	if href == "" || text == "" {
		return false
	}
	return !strings.HasPrefix(href, "#") && !strings.HasPrefix(strings.ToLower(href), "javascript:")
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

// textOf joins all descendant text with single spaces.
func textOf(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}
