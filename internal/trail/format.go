package trail

import (
	"fmt"
	"strings"
)

// JoinArgs turns positional CLI arguments into a single article title.
// Arguments are kept in order and joined with exactly one underscore, so
// `wikitrail Barack Obama` and `wikitrail Barack_Obama` name the same page.
func JoinArgs(args []string) string {
	return strings.Join(args, "_")
}

// DisplayTitle renders a title for humans by turning underscores into spaces.
func DisplayTitle(title string) string {
	return strings.ReplaceAll(title, "_", " ")
}

// Format renders t as a header line followed by a 1-indexed listing.
func Format(t Trail) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d article(s) traversed\n", t.Len())
	for i, title := range t.titles {
		fmt.Fprintf(&b, "%d. %s\n", i+1, DisplayTitle(title))
	}
	return b.String()
}
