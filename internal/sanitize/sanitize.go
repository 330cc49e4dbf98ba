// Package sanitize cleans user-supplied free text before it is stored.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// maxPasses bounds how many layers of entity encoding Text peels off.
const maxPasses = 8

var strict = bluemonday.StrictPolicy()

// Text strips all markup from s and collapses surrounding whitespace.
// Entity-encoded markup is decoded and stripped as well, so Text(Text(s))
// equals Text(s).
func Text(s string) string {
	for i := 0; i < maxPasses; i++ {
		next := strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
		if next == s {
			return next
		}
		s = next
	}
	// Still decoding into markup after maxPasses; keep the escaped form.
	return strings.TrimSpace(strict.Sanitize(s))
}
