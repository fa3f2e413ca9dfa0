// Package citation turns inline citation markers in generated answers into
// links bound to the citation records returned with the same answer.
//
// Accepted marker spellings are [citationN] and [citation{N}] where N is a
// 1-based index into the answer's citation list.
package citation

import (
	"aglc_chat/internal/model"
	"fmt"
	"html"
	"regexp"
	"strconv"
)

var markerRe = regexp.MustCompile(`\[citation\{?(\d+)\}?\]`)

// Link replaces every resolvable marker with an anchor carrying the citation
// id as data-citation-id and the citation url as href. Markers whose index is
// out of range are returned unchanged.
func Link(text string, citations []model.Citation) string {
	return markerRe.ReplaceAllStringFunc(text, func(match string) string {
		m := markerRe.FindStringSubmatch(match)
		c, ok := resolve(m[1], citations)
		if !ok {
			return match
		}
		return fmt.Sprintf(`<a href="%s" class="citation-ref" data-citation-id="%s" target="_blank">[%s]</a>`,
			html.EscapeString(c.URL), html.EscapeString(c.ID), m[1])
	})
}

// Unresolved counts markers that Link would leave untouched.
func Unresolved(text string, citations []model.Citation) int {
	n := 0
	for _, m := range markerRe.FindAllStringSubmatch(text, -1) {
		if _, ok := resolve(m[1], citations); !ok {
			n++
		}
	}
	return n
}

func resolve(digits string, citations []model.Citation) (model.Citation, bool) {
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 || n > len(citations) {
		return model.Citation{}, false
	}
	return citations[n-1], true
}
