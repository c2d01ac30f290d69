package server

import (
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/jonathan/portfolio/internal/contact"
	"github.com/jonathan/portfolio/internal/content"
	"github.com/jonathan/portfolio/internal/settings"
	"github.com/jonathan/portfolio/internal/sitemap"
)

const (
	defaultRelated = 3
	maxRelated     = 10
	maxListLimit   = 100
)

// ListResponse is the body of a collection listing.
type ListResponse struct {
	Collection content.Collection `json:"collection"`
	Items      []content.Record   `json:"items"`
	Count      int                `json:"count"`
}

// PublicProfile is the part of the admin profile shown on the public site.
type PublicProfile struct {
	Name        string               `json:"name"`
	Avatar      string               `json:"avatar"`
	Bio         string               `json:"bio"`
	Location    string               `json:"location"`
	Website     string               `json:"website"`
	Company     string               `json:"company"`
	Email       string               `json:"email,omitempty"`
	Phone       string               `json:"phone,omitempty"`
	SocialLinks settings.SocialLinks `json:"socialLinks"`
}

// SiteResponse is what the public site needs to render its frame.
type SiteResponse struct {
	SEO        settings.SEO        `json:"seo"`
	Appearance settings.Appearance `json:"appearance"`
	Profile    PublicProfile       `json:"profile"`
	Stats      []content.Stat      `json:"stats,omitempty"`
	Brands     []content.Brand     `json:"brands"`
	Loading    bool                `json:"loading"`
}

// handleList returns the cached records of one collection.
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	col, err := content.ParseCollection(r.PathValue("collection"))
	if err != nil {
		s.errResponse(w, r, err)
		return
	}

	items := s.visible(col, s.isAdmin(r))
	items = filterRecords(items, r.URL.Query())
	if limit := parseQueryInt(r, "limit", 0, maxListLimit); limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	s.jsonResponse(w, http.StatusOK, ListResponse{Collection: col, Items: items, Count: len(items)})
}

// handleGet returns one cached record.
func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	col, err := content.ParseCollection(r.PathValue("collection"))
	if err != nil {
		s.errResponse(w, r, err)
		return
	}
	id := r.PathValue("id")

	admin := s.isAdmin(r)

	rec, ok := s.cache.Find(col, id)
	if !ok || !s.shown(rec, admin) {
		s.errResponse(w, r, &ErrRecordNotFound{Collection: col, ID: id})
		return
	}
	s.jsonResponse(w, http.StatusOK, s.presenter(admin)(rec))
}

// handleRelated returns the projects or posts sharing tags with a record.
func (s *Server) handleRelated(w http.ResponseWriter, r *http.Request) {
	col, err := content.ParseCollection(r.PathValue("collection"))
	if err != nil {
		s.errResponse(w, r, err)
		return
	}
	id := r.PathValue("id")
	limit := parseQueryInt(r, "limit", defaultRelated, maxRelated)
	admin := s.isAdmin(r)

	rec, ok := s.cache.Find(col, id)
	if !ok || !s.shown(rec, admin) {
		s.errResponse(w, r, &ErrRecordNotFound{Collection: col, ID: id})
		return
	}

	var related []content.Record
	switch col {
	case content.CollectionProjects:
		for _, p := range content.Related(s.cache.Projects(), id, limit) {
			related = append(related, p)
		}
	case content.CollectionBlogPosts:
		posts := slices.DeleteFunc(s.cache.BlogPosts(), func(p content.BlogPost) bool {
			return !admin && !p.Published
		})
		for _, p := range content.Related(posts, id, limit) {
			related = append(related, p)
		}
	default:
		s.errResponse(w, r, &ErrValidation{Field: "collection", Message: "only projects and blog posts have related items"})
		return
	}
	if related == nil {
		related = []content.Record{}
	}
	s.jsonResponse(w, http.StatusOK, ListResponse{Collection: col, Items: related, Count: len(related)})
}

// handleSite returns the settings, profile, stats and brands the site frame
// renders, honoring the privacy settings.
func (s *Server) handleSite(w http.ResponseWriter, r *http.Request) {
	cfg := s.settings.Settings()
	profile := s.settings.Profile()

	resp := SiteResponse{
		SEO:        cfg.SEO,
		Appearance: cfg.Appearance,
		Profile: PublicProfile{
			Name:        profile.Name,
			Avatar:      profile.Avatar,
			Bio:         profile.Bio,
			Location:    profile.Location,
			Website:     profile.Website,
			Company:     profile.Company,
			SocialLinks: profile.SocialLinks,
		},
		Brands:  s.cache.Brands(),
		Loading: s.cache.Loading(),
	}
	if cfg.Privacy.ShowContactInfo {
		resp.Profile.Email = profile.Email
		resp.Profile.Phone = profile.Phone
	}
	if cfg.Privacy.ShowPortfolioStats {
		resp.Stats = s.cache.Stats()
	}
	if resp.Brands == nil {
		resp.Brands = []content.Brand{}
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleSitemap renders sitemap.xml from the static pages and cached content.
func (s *Server) handleSitemap(w http.ResponseWriter, r *http.Request) {
	set := sitemap.Build(s.baseURL, sitemap.Routes(s.cache), s.now())
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	if err := set.Write(w); err != nil {
		s.logger.Error("failed to write sitemap", "error", err)
	}
}

// handleContact accepts a contact form submission.
func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	var msg contact.Message
	if err := s.decodeJSON(w, r, &msg); err != nil {
		s.errResponse(w, r, err)
		return
	}

	env, err := s.contact.Submit(r.Context(), msg)
	if err != nil {
		s.errResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusAccepted, map[string]string{
		"id":      env.ID,
		"message": "Message sent successfully",
	})
}

// visible returns the records of col a visitor may see. Drafts are only
// listed for the admin.
func (s *Server) visible(col content.Collection, admin bool) []content.Record {
	items := s.cache.Items(col)
	present := s.presenter(admin)
	out := make([]content.Record, 0, len(items))
	for _, rec := range items {
		if s.shown(rec, admin) {
			out = append(out, present(rec))
		}
	}
	return out
}

func (s *Server) shown(rec content.Record, admin bool) bool {
	if post, ok := rec.(content.BlogPost); ok && !admin {
		return post.Published
	}
	return true
}

// presenter returns the function that prepares records for one response. It
// reads the privacy settings once and hides testimonial authors from visitors
// when they ask for it.
func (s *Server) presenter(admin bool) func(content.Record) content.Record {
	if admin || s.settings.Settings().Privacy.ShowTestimonialAuthors {
		return func(rec content.Record) content.Record { return rec }
	}
	return anonymize
}

func anonymize(rec content.Record) content.Record {
	t, ok := rec.(content.Testimonial)
	if !ok {
		return rec
	}
	t.Name = "Anonymous"
	t.Avatar = ""
	return t
}

// filterRecords applies the tag and category query filters. Matching ignores
// case.
func filterRecords(items []content.Record, q url.Values) []content.Record {
	tag := strings.TrimSpace(q.Get("tag"))
	category := strings.TrimSpace(q.Get("category"))
	if tag == "" && category == "" {
		return items
	}
	return slices.DeleteFunc(items, func(rec content.Record) bool {
		if tag != "" && !hasTag(rec, tag) {
			return true
		}
		if category != "" && !strings.EqualFold(recordCategory(rec), category) {
			return true
		}
		return false
	})
}

func hasTag(rec content.Record, tag string) bool {
	tagged, ok := rec.(content.Tagged)
	if !ok {
		return false
	}
	return slices.ContainsFunc(tagged.TagList(), func(t string) bool {
		return strings.EqualFold(t, tag)
	})
}

func recordCategory(rec content.Record) string {
	switch v := rec.(type) {
	case content.Skill:
		return v.Category
	case content.Project:
		return v.Category
	default:
		return ""
	}
}
