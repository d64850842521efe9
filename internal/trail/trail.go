// Package trail holds the ordered list of article titles visited by a run,
// plus the helpers that turn CLI input into a title and a trail into text.
package trail

import "strings"

// DefaultDestination is the article that ends a successful trail.
const DefaultDestination = "Philosophy"

// Trail is an append-only, insertion-ordered sequence of titles with a
// case-insensitive membership test. The zero value is an empty trail.
//
// Trail is a value type: Append returns a new Trail and leaves the receiver
// untouched, so a Trail can be handed between loop iterations freely.
type Trail struct {
	titles []string
}

// New builds a Trail from the given titles, skipping blanks.
func New(titles ...string) Trail {
	var t Trail
	for _, title := range titles {
		t = t.Append(title)
	}
	return t
}

// Contains reports whether title is already present, ignoring letter case.
func (t Trail) Contains(title string) bool {
	for _, existing := range t.titles {
		if SameTitle(existing, title) {
			return true
		}
	}
	return false
}

// Append returns a copy of t with title added at the end. Blank titles are
// never stored; t is returned as-is for them.
func (t Trail) Append(title string) Trail {
	if strings.TrimSpace(title) == "" {
		return t
	}
	next := make([]string, len(t.titles), len(t.titles)+1)
	copy(next, t.titles)
	return Trail{titles: append(next, title)}
}

// Titles returns the titles in visit order. The slice is a copy.
func (t Trail) Titles() []string {
	return append([]string(nil), t.titles...)
}

// Len returns the number of titles in the trail.
func (t Trail) Len() int {
	return len(t.titles)
}

// SameTitle compares two titles the way the trail does: case-insensitively,
// with no other normalization.
func SameTitle(a, b string) bool {
	return strings.EqualFold(a, b)
}
