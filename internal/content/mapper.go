package content

// ToWire converts an in-memory record to its store row. Fields that have a
// store alias are renamed, blog post authors are flattened into author_*
// columns, and everything else passes through unchanged.
func ToWire(r Record) Wire {
	switch v := Deref(r).(type) {
	case Skill:
		return v.toWire()
	case Experience:
		return v.toWire()
	case Education:
		return v.toWire()
	case Project:
		return v.toWire()
	case Testimonial:
		return v.toWire()
	case BlogPost:
		return v.toWire()
	case Stat:
		return v.toWire()
	case Brand:
		return v.toWire()
	case Raw:
		return v.Fields.Clone()
	default:
		return Wire{}
	}
}

// FromWire converts a store row of collection c to an in-memory record.
// Rows of an unknown collection come back as Raw with the row unchanged.
func FromWire(c Collection, w Wire) Record {
	r := newWireReader(w)
	switch c {
	case CollectionSkills:
		return skillFromWire(r)
	case CollectionExperiences:
		return experienceFromWire(r)
	case CollectionEducation:
		return educationFromWire(r)
	case CollectionProjects:
		return projectFromWire(r)
	case CollectionTestimonials:
		return testimonialFromWire(r)
	case CollectionBlogPosts:
		return blogPostFromWire(r)
	case CollectionStats:
		return statFromWire(r)
	case CollectionBrands:
		return brandFromWire(r)
	default:
		return Raw{Name: c, Fields: w.Clone()}
	}
}

func (s Skill) toWire() Wire {
	w := s.base()
	w["name"] = s.Name
	w["percentage"] = s.Percentage
	w["category"] = s.Category
	return w
}

func skillFromWire(r *wireReader) Skill {
	s := Skill{
		Name:       r.str("name"),
		Percentage: r.num("percentage"),
		Category:   r.str("category"),
	}
	s.Meta = r.meta()
	return s
}

func (e Experience) toWire() Wire {
	w := e.base()
	w["title"] = e.Title
	w["company"] = e.Company
	w["location"] = e.Location
	w["start_date"] = e.StartDate
	if e.EndDate != nil {
		w["end_date"] = *e.EndDate
	} else {
		w["end_date"] = nil
	}
	w["description"] = e.Description
	w["is_currently"] = e.IsCurrently
	return w
}

func experienceFromWire(r *wireReader) Experience {
	e := Experience{
		Title:       r.str("title"),
		Company:     r.str("company"),
		Location:    r.str("location"),
		StartDate:   r.str("start_date"),
		EndDate:     r.optStr("end_date"),
		Description: r.str("description"),
		IsCurrently: r.flag("is_currently"),
	}
	e.Meta = r.meta()
	return e
}

func (e Education) toWire() Wire {
	w := e.base()
	w["degree"] = e.Degree
	w["institution"] = e.Institution
	w["location"] = e.Location
	w["start_date"] = e.StartDate
	w["end_date"] = e.EndDate
	w["description"] = e.Description
	return w
}

func educationFromWire(r *wireReader) Education {
	e := Education{
		Degree:      r.str("degree"),
		Institution: r.str("institution"),
		Location:    r.str("location"),
		StartDate:   r.str("start_date"),
		EndDate:     r.str("end_date"),
		Description: r.str("description"),
	}
	e.Meta = r.meta()
	return e
}

func (p Project) toWire() Wire {
	w := p.base()
	w["title"] = p.Title
	w["description"] = p.Description
	w["image"] = p.Image
	w["images"] = p.Images
	w["tags"] = p.Tags
	w["category"] = p.Category
	w["demo_url"] = p.DemoURL
	w["code_url"] = p.CodeURL
	w["campaign_duration"] = p.CampaignDuration
	w["completion_date"] = p.CompletionDate
	w["engagement_rate"] = p.EngagementRate
	w["reach"] = p.Reach
	w["conversion"] = p.Conversion
	w["campaign_strategy"] = p.CampaignStrategy
	w["campaign_highlights"] = p.CampaignHighlights
	return w
}

func projectFromWire(r *wireReader) Project {
	p := Project{
		Title:              r.str("title"),
		Description:        r.str("description"),
		Image:              r.str("image"),
		Images:             r.list("images"),
		Tags:               r.list("tags"),
		Category:           r.str("category"),
		DemoURL:            r.str("demo_url"),
		CodeURL:            r.str("code_url"),
		CampaignDuration:   r.str("campaign_duration"),
		CompletionDate:     r.str("completion_date"),
		EngagementRate:     r.str("engagement_rate"),
		Reach:              r.str("reach"),
		Conversion:         r.str("conversion"),
		CampaignStrategy:   r.str("campaign_strategy"),
		CampaignHighlights: r.list("campaign_highlights"),
	}
	p.Meta = r.meta()
	return p
}

func (t Testimonial) toWire() Wire {
	w := t.base()
	w["name"] = t.Name
	w["role"] = t.Role
	w["company"] = t.Company
	w["content"] = t.Content
	w["avatar"] = t.Avatar
	w["rating"] = t.Rating
	return w
}

func testimonialFromWire(r *wireReader) Testimonial {
	t := Testimonial{
		Name:    r.str("name"),
		Role:    r.str("role"),
		Company: r.str("company"),
		Content: r.str("content"),
		Avatar:  r.str("avatar"),
		Rating:  r.num("rating"),
	}
	t.Meta = r.meta()
	return t
}

func (p BlogPost) toWire() Wire {
	w := p.base()
	w["title"] = p.Title
	w["summary"] = p.Summary
	w["content"] = p.Content
	w["cover_image"] = p.CoverImage
	w["tags"] = p.Tags
	w["published_date"] = p.PublishedDate
	w["read_time"] = p.ReadTime
	w["published"] = p.Published
	if p.Author != nil {
		w["author_name"] = p.Author.Name
		w["author_title"] = p.Author.Title
		w["author_avatar"] = p.Author.Avatar
		w["author_bio"] = p.Author.Bio
	} else {
		w["author_name"] = nil
		w["author_title"] = nil
		w["author_avatar"] = nil
		w["author_bio"] = nil
	}
	return w
}

func blogPostFromWire(r *wireReader) BlogPost {
	p := BlogPost{
		Title:         r.str("title"),
		Summary:       r.str("summary"),
		Content:       r.str("content"),
		CoverImage:    r.str("cover_image"),
		Tags:          r.list("tags"),
		PublishedDate: r.str("published_date"),
		ReadTime:      r.num("read_time"),
		Published:     r.flag("published"),
	}
	author := Author{
		Name:   r.str("author_name"),
		Title:  r.str("author_title"),
		Avatar: r.str("author_avatar"),
		Bio:    r.str("author_bio"),
	}
	if author.Name != "" {
		p.Author = &author
	}
	p.Meta = r.meta()
	return p
}

func (s Stat) toWire() Wire {
	w := s.base()
	w["label"] = s.Label
	w["value"] = s.Value
	w["icon"] = s.Icon
	return w
}

func statFromWire(r *wireReader) Stat {
	s := Stat{
		Label: r.str("label"),
		Value: r.num("value"),
		Icon:  r.str("icon"),
	}
	s.Meta = r.meta()
	return s
}

func (b Brand) toWire() Wire {
	w := b.base()
	w["name"] = b.Name
	w["logo"] = b.Logo
	return w
}

func brandFromWire(r *wireReader) Brand {
	b := Brand{
		Name: r.str("name"),
		Logo: r.str("logo"),
	}
	b.Meta = r.meta()
	return b
}
