package content

import (
	"maps"
	"time"
)

// Wire is a record as exchanged with the remote store, keyed by column name.
type Wire map[string]any

// Clone returns a shallow copy of w.
func (w Wire) Clone() Wire {
	if w == nil {
		return nil
	}
	return maps.Clone(w)
}

// Record is one of the eight content variants, or Raw for a collection the
// model does not know. The set of implementations is closed.
type Record interface {
	RecordID() string
	Collection() Collection
	sealed()
}

// Meta holds the fields every record carries. Extra keeps store columns the
// variant has no field for, so they survive a round trip.
type Meta struct {
	ID        string     `json:"id"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
	Extra     Wire       `json:"-"`
}

// RecordID returns the record's identifier.
func (m Meta) RecordID() string { return m.ID }

// Skill is a named proficiency shown as a percentage bar.
type Skill struct {
	Meta
	Name       string `json:"name" validate:"required"`
	Percentage int    `json:"percentage" validate:"gte=0,lte=100"`
	Category   string `json:"category"`
}

// Experience is a position held at a company.
type Experience struct {
	Meta
	Title       string  `json:"title" validate:"required"`
	Company     string  `json:"company" validate:"required"`
	Location    string  `json:"location"`
	StartDate   string  `json:"startDate" validate:"required"`
	EndDate     *string `json:"endDate"`
	Description string  `json:"description"`
	IsCurrently bool    `json:"isCurrently"`
}

// Education is a degree earned at an institution.
type Education struct {
	Meta
	Degree      string `json:"degree" validate:"required"`
	Institution string `json:"institution" validate:"required"`
	Location    string `json:"location"`
	StartDate   string `json:"startDate" validate:"required"`
	EndDate     string `json:"endDate"`
	Description string `json:"description"`
}

// Project is a portfolio entry, usually a marketing campaign.
type Project struct {
	Meta
	Title              string   `json:"title" validate:"required"`
	Description        string   `json:"description"`
	Image              string   `json:"image"`
	Images             []string `json:"images" validate:"max=4"`
	Tags               []string `json:"tags"`
	Category           string   `json:"category"`
	DemoURL            string   `json:"demoUrl"`
	CodeURL            string   `json:"codeUrl"`
	CampaignDuration   string   `json:"campaignDuration"`
	CompletionDate     string   `json:"completionDate"`
	EngagementRate     string   `json:"engagementRate"`
	Reach              string   `json:"reach"`
	Conversion         string   `json:"conversion"`
	CampaignStrategy   string   `json:"campaignStrategy"`
	CampaignHighlights []string `json:"campaignHighlights"`
}

// Testimonial is a quote from a client.
type Testimonial struct {
	Meta
	Name    string `json:"name" validate:"required"`
	Role    string `json:"role"`
	Company string `json:"company"`
	Content string `json:"content" validate:"required"`
	Avatar  string `json:"avatar"`
	Rating  int    `json:"rating" validate:"gte=1,lte=5"`
}

// Author is the byline embedded in a blog post.
type Author struct {
	Name   string `json:"name" validate:"required"`
	Title  string `json:"title"`
	Avatar string `json:"avatar"`
	Bio    string `json:"bio"`
}

// BlogPost is an article with rich-text (HTML) content.
type BlogPost struct {
	Meta
	Title         string   `json:"title" validate:"required"`
	Summary       string   `json:"summary"`
	Content       string   `json:"content"`
	CoverImage    string   `json:"coverImage"`
	Tags          []string `json:"tags"`
	PublishedDate string   `json:"publishedDate" validate:"required"`
	ReadTime      int      `json:"readTime" validate:"gte=0"`
	Published     bool     `json:"published"`
	Author        *Author  `json:"author,omitempty" validate:"omitempty"`
}

// Stat is a headline number on the home page.
type Stat struct {
	Meta
	Label string `json:"label" validate:"required"`
	Value int    `json:"value"`
	Icon  string `json:"icon"`
}

// Brand is a client logo.
type Brand struct {
	Meta
	Name string `json:"name" validate:"required"`
	Logo string `json:"logo"`
}

// Raw is a record of a collection outside the model. Its fields are kept
// exactly as the store returned them.
type Raw struct {
	Name   Collection
	Fields Wire
}

// RecordID returns the "id" field when it is a string.
func (r Raw) RecordID() string {
	id, _ := r.Fields["id"].(string)
	return id
}

func (Skill) Collection() Collection       { return CollectionSkills }
func (Experience) Collection() Collection  { return CollectionExperiences }
func (Education) Collection() Collection   { return CollectionEducation }
func (Project) Collection() Collection     { return CollectionProjects }
func (Testimonial) Collection() Collection { return CollectionTestimonials }
func (BlogPost) Collection() Collection    { return CollectionBlogPosts }
func (Stat) Collection() Collection        { return CollectionStats }
func (Brand) Collection() Collection       { return CollectionBrands }
func (r Raw) Collection() Collection       { return r.Name }

func (Skill) sealed()       {}
func (Experience) sealed()  {}
func (Education) sealed()   {}
func (Project) sealed()     {}
func (Testimonial) sealed() {}
func (BlogPost) sealed()    {}
func (Stat) sealed()        {}
func (Brand) sealed()       {}
func (Raw) sealed()         {}

// TagList returns the project's tags.
func (p Project) TagList() []string { return p.Tags }

// TagList returns the post's tags.
func (p BlogPost) TagList() []string { return p.Tags }

// Deref turns a pointer to a variant into the variant value and a nil pointer
// into a nil Record. Records are handled as values everywhere else.
func Deref(r Record) Record {
	switch v := r.(type) {
	case *Skill:
		return deref(v)
	case *Experience:
		return deref(v)
	case *Education:
		return deref(v)
	case *Project:
		return deref(v)
	case *Testimonial:
		return deref(v)
	case *BlogPost:
		return deref(v)
	case *Stat:
		return deref(v)
	case *Brand:
		return deref(v)
	case *Raw:
		return deref(v)
	}
	return r
}

func deref[T Record](p *T) Record {
	if p == nil {
		return nil
	}
	return *p
}
