// Package pagination holds the list query contract shared by every list
// endpoint: query binding, predicate helpers and page slicing.
package pagination

import "strings"

// MaxLimit caps the page size a caller may request.
const MaxLimit = 100

// ListQuery is the common part of every list query string. Pointers let the
// binder tell "absent" apart from an explicit zero, which must be rejected.
type ListQuery struct {
	Page     *int   `form:"page" binding:"omitempty,min=1"`
	Limit    *int   `form:"limit" binding:"omitempty,min=1,max=100"`
	IsActive string `form:"is_active" binding:"omitempty,oneof=true false"`
	Search   string `form:"search"`
}

// Params are validated page coordinates.
type Params struct {
	Page  int
	Limit int
}

// Meta is the pagination block of the response envelope.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Page is one slice of a filtered collection.
type Page[T any] struct {
	Items      []T
	Total      int
	TotalPages int
}

// Params resolves page/limit against the resource default.
func (q ListQuery) Params(defaultLimit int) Params {
	p := Params{Page: 1, Limit: defaultLimit}
	if q.Page != nil {
		p.Page = *q.Page
	}
	if q.Limit != nil {
		p.Limit = *q.Limit
	}
	return p
}

// Active converts the is_active string into an optional bool.
func (q ListQuery) Active() *bool {
	switch q.IsActive {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	}
	return nil
}

// Paginate slices items for the given page. Pages past the end, including
// absurdly large ones, are empty, not an error.
func Paginate[T any](items []T, page, limit int) Page[T] {
	total := len(items)
	totalPages := 0
	if limit > 0 {
		totalPages = total / limit
		if total%limit != 0 {
			totalPages++
		}
	}

	out := Page[T]{Items: []T{}, Total: total, TotalPages: totalPages}
	// Checked before multiplying so (page-1)*limit cannot overflow.
	if page < 1 || limit < 1 || page > totalPages {
		return out
	}
	offset := (page - 1) * limit
	end := total
	if limit < total-offset {
		end = offset + limit
	}
	out.Items = append(out.Items, items[offset:end]...)
	return out
}

// MetaFor builds the envelope block for a page.
func MetaFor[T any](p Page[T], params Params) Meta {
	return Meta{
		Page:       params.Page,
		Limit:      params.Limit,
		Total:      p.Total,
		TotalPages: p.TotalPages,
	}
}

// Filter keeps the items matching every predicate. A nil predicate is a no-op.
func Filter[T any](items []T, preds ...func(T) bool) []T {
	out := make([]T, 0, len(items))
next:
	for _, it := range items {
		for _, p := range preds {
			if p != nil && !p(it) {
				continue next
			}
		}
		out = append(out, it)
	}
	return out
}

// ContainsFold reports whether any of fields contains needle, ignoring case.
// An empty needle matches everything.
func ContainsFold(needle string, fields ...string) bool {
	if needle == "" {
		return true
	}
	needle = strings.ToLower(needle)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}
