// Package sitemap builds the sitemap.xml document for the public site.
package sitemap

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/jonathan/portfolio/internal/content"
)

// Namespace is the sitemap protocol namespace.
const Namespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

const dateLayout = "2006-01-02"

// Route is one page of the site.
type Route struct {
	Path       string
	Priority   string
	ChangeFreq string
	LastMod    string
}

// StaticRoutes are the fixed pages, in navigation order.
func StaticRoutes() []Route {
	return []Route{
		{Path: "/", Priority: "1.0", ChangeFreq: "weekly"},
		{Path: "/about", Priority: "0.8", ChangeFreq: "monthly"},
		{Path: "/portfolio", Priority: "0.9", ChangeFreq: "weekly"},
		{Path: "/experience", Priority: "0.7", ChangeFreq: "monthly"},
		{Path: "/testimonials", Priority: "0.6", ChangeFreq: "monthly"},
		{Path: "/blog", Priority: "0.8", ChangeFreq: "weekly"},
		{Path: "/contact", Priority: "0.7", ChangeFreq: "monthly"},
	}
}

// URL is a <url> entry.
type URL struct {
	Loc        string `xml:"loc"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
	LastMod    string `xml:"lastmod"`
}

// URLSet is the sitemap document.
type URLSet struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

// Source supplies the content pages listed after the static routes.
type Source interface {
	BlogPosts() []content.BlogPost
	Projects() []content.Project
}

// Routes returns the static routes followed by one route per published blog
// post and one per project.
func Routes(src Source) []Route {
	routes := StaticRoutes()
	for _, p := range src.BlogPosts() {
		if !p.Published || p.ID == "" {
			continue
		}
		routes = append(routes, Route{
			Path:       "/blog/" + url.PathEscape(p.ID),
			Priority:   "0.6",
			ChangeFreq: "monthly",
			LastMod:    lastMod(p.UpdatedAt, p.PublishedDate),
		})
	}
	for _, p := range src.Projects() {
		if p.ID == "" {
			continue
		}
		routes = append(routes, Route{
			Path:       "/portfolio/" + url.PathEscape(p.ID),
			Priority:   "0.7",
			ChangeFreq: "monthly",
			LastMod:    lastMod(p.UpdatedAt, ""),
		})
	}
	return routes
}

func lastMod(updated *time.Time, fallback string) string {
	if updated != nil && !updated.IsZero() {
		return updated.UTC().Format(dateLayout)
	}
	if _, err := time.Parse(dateLayout, fallback); err == nil {
		return fallback
	}
	return ""
}

// Build resolves routes against baseURL. Routes without a modification date
// get today's.
func Build(baseURL string, routes []Route, now time.Time) URLSet {
	base := strings.TrimRight(baseURL, "/")
	today := now.UTC().Format(dateLayout)

	set := URLSet{Xmlns: Namespace, URLs: make([]URL, 0, len(routes))}
	for _, r := range routes {
		mod := r.LastMod
		if mod == "" {
			mod = today
		}
		set.URLs = append(set.URLs, URL{
			Loc:        base + r.Path,
			ChangeFreq: r.ChangeFreq,
			Priority:   r.Priority,
			LastMod:    mod,
		})
	}
	return set
}

// Write encodes the document with the XML declaration.
func (s URLSet) Write(w io.Writer) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode sitemap: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}
