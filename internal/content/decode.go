package content

import (
	"encoding/json"
	"fmt"
)

// New returns an empty record of collection c, or nil for an unknown one.
func New(c Collection) Record {
	switch c {
	case CollectionSkills:
		return Skill{}
	case CollectionExperiences:
		return Experience{}
	case CollectionEducation:
		return Education{}
	case CollectionProjects:
		return Project{}
	case CollectionTestimonials:
		return Testimonial{}
	case CollectionBlogPosts:
		return BlogPost{}
	case CollectionStats:
		return Stat{}
	case CollectionBrands:
		return Brand{}
	default:
		return nil
	}
}

// Decode parses the in-memory JSON form of a record of collection c.
func Decode(c Collection, data []byte) (Record, error) {
	switch c {
	case CollectionSkills:
		return decodeAs[Skill](c, data)
	case CollectionExperiences:
		return decodeAs[Experience](c, data)
	case CollectionEducation:
		return decodeAs[Education](c, data)
	case CollectionProjects:
		return decodeAs[Project](c, data)
	case CollectionTestimonials:
		return decodeAs[Testimonial](c, data)
	case CollectionBlogPosts:
		return decodeAs[BlogPost](c, data)
	case CollectionStats:
		return decodeAs[Stat](c, data)
	case CollectionBrands:
		return decodeAs[Brand](c, data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCollection, string(c))
	}
}

func decodeAs[T Record](c Collection, data []byte) (Record, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.Label(), err)
	}
	return v, nil
}

// WithID returns a copy of r carrying the given identifier.
func WithID(r Record, id string) Record {
	switch v := Deref(r).(type) {
	case Skill:
		v.ID = id
		return v
	case Experience:
		v.ID = id
		return v
	case Education:
		v.ID = id
		return v
	case Project:
		v.ID = id
		return v
	case Testimonial:
		v.ID = id
		return v
	case BlogPost:
		v.ID = id
		return v
	case Stat:
		v.ID = id
		return v
	case Brand:
		v.ID = id
		return v
	case Raw:
		v.Fields = v.Fields.Clone()
		if v.Fields == nil {
			v.Fields = Wire{}
		}
		v.Fields["id"] = id
		return v
	default:
		return r
	}
}
