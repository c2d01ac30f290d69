package content

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"time"
)

// wireReader reads typed values out of a Wire and remembers which keys were
// consumed. Values of an unexpected dynamic type read as zero values.
type wireReader struct {
	w    Wire
	seen map[string]struct{}
}

func newWireReader(w Wire) *wireReader {
	return &wireReader{w: w, seen: make(map[string]struct{}, len(w))}
}

func (r *wireReader) take(key string) any {
	r.seen[key] = struct{}{}
	return r.w[key]
}

func (r *wireReader) str(key string) string       { return asString(r.take(key)) }
func (r *wireReader) optStr(key string) *string   { return asOptString(r.take(key)) }
func (r *wireReader) num(key string) int          { return asInt(r.take(key)) }
func (r *wireReader) flag(key string) bool        { return asBool(r.take(key)) }
func (r *wireReader) list(key string) []string    { return asStrings(r.take(key)) }
func (r *wireReader) stamp(key string) *time.Time { return asTime(r.take(key)) }

// meta reads the common fields. It must run after every variant field has
// been read, since everything left unread becomes Extra.
func (r *wireReader) meta() Meta {
	m := Meta{
		ID:        r.str("id"),
		CreatedAt: r.stamp("created_at"),
		UpdatedAt: r.stamp("updated_at"),
	}
	for k, v := range r.w {
		if _, ok := r.seen[k]; ok {
			continue
		}
		if m.Extra == nil {
			m.Extra = Wire{}
		}
		m.Extra[k] = v
	}
	return m
}

// base starts a Wire from the common fields. Nil timestamps are left out so
// the store can assign them.
func (m Meta) base() Wire {
	w := m.Extra.Clone()
	if w == nil {
		w = Wire{}
	}
	w["id"] = m.ID
	if m.CreatedAt != nil {
		w["created_at"] = *m.CreatedAt
	}
	if m.UpdatedAt != nil {
		w["updated_at"] = *m.UpdatedAt
	}
	return w
}

func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case *string:
		if t == nil {
			return ""
		}
		return *t
	case []byte:
		return string(t)
	case time.Time:
		return t.Format(time.DateOnly)
	case fmt.Stringer:
		return t.String()
	default:
		return ""
	}
}

func asOptString(v any) *string {
	switch t := v.(type) {
	case nil:
		return nil
	case *string:
		if t == nil {
			return nil
		}
		s := *t
		return &s
	default:
		s := asString(v)
		return &s
	}
}

func asInt(v any) int {
	switch t := v.(type) {
	case int:
		return t
	case int8:
		return int(t)
	case int16:
		return int(t)
	case int32:
		return int(t)
	case int64:
		return int(t)
	case uint8:
		return int(t)
	case uint16:
		return int(t)
	case uint32:
		return int(t)
	case float32:
		return int(math.Round(float64(t)))
	case float64:
		return int(math.Round(t))
	case string:
		n, err := strconv.Atoi(t)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

func asBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case *bool:
		return t != nil && *t
	case string:
		b, _ := strconv.ParseBool(t)
		return b
	default:
		return false
	}
}

func asStrings(v any) []string {
	switch t := v.(type) {
	case []string:
		if t == nil {
			return nil
		}
		return slices.Clone(t)
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func asTime(v any) *time.Time {
	switch t := v.(type) {
	case time.Time:
		return &t
	case *time.Time:
		if t == nil {
			return nil
		}
		c := *t
		return &c
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05.999999-07", time.DateOnly} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return &parsed
			}
		}
		return nil
	default:
		return nil
	}
}
