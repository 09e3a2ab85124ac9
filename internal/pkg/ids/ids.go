// Package ids generates identifiers for stored entities.
package ids

import "github.com/oklog/ulid/v2"

// New returns a new lexically sortable unique id. Safe for concurrent use.
func New() string {
	return ulid.Make().String()
}
