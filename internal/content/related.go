package content

import "slices"

// Tagged is a record that carries free-form tags.
type Tagged interface {
	Record
	TagList() []string
}

// Related returns up to limit items, other than the one with id, that share
// at least one tag with it. Order follows items. A missing id yields nil.
func Related[T Tagged](items []T, id string, limit int) []T {
	idx := slices.IndexFunc(items, func(item T) bool { return item.RecordID() == id })
	if idx < 0 {
		return nil
	}
	tags := items[idx].TagList()

	var out []T
	for _, item := range items {
		if limit > 0 && len(out) >= limit {
			break
		}
		if item.RecordID() == id {
			continue
		}
		if slices.ContainsFunc(item.TagList(), func(tag string) bool { return slices.Contains(tags, tag) }) {
			out = append(out, item)
		}
	}
	return out
}
