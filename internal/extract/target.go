package extract

import (
	"net/url"
	"strings"
)

const wikiPathPrefix = "/wiki/"

// nonArticleNamespaces are title prefixes that point at project pages,
// media or talk pages rather than encyclopedia articles.
var nonArticleNamespaces = map[string]bool{
	"book":           true,
	"category":       true,
	"draft":          true,
	"file":           true,
	"help":           true,
	"image":          true,
	"media":          true,
	"mediawiki":      true,
	"module":         true,
	"portal":         true,
	"special":        true,
	"talk":           true,
	"template":       true,
	"template_talk":  true,
	"timedtext":      true,
	"user":           true,
	"user_talk":      true,
	"wikipedia":      true,
	"wikipedia_talk": true,
	"wiktionary":     true,
}

// wikiTarget turns an anchor href into an article title, or "" when the link
// is not an in-wiki article reference.
func wikiTarget(href, class string) string {
	if hasClass(class, "new") || !strings.HasPrefix(href, wikiPathPrefix) {
		return ""
	}
	raw := strings.TrimPrefix(href, wikiPathPrefix)
	if i := strings.IndexAny(raw, "#?"); i >= 0 {
		raw = raw[:i]
	}
	title, err := url.PathUnescape(raw)
	if err != nil {
		return ""
	}
	title = strings.ReplaceAll(strings.TrimSpace(title), " ", "_")
	if title == "" || inNonArticleNamespace(title) {
		return ""
	}
	return title
}

func inNonArticleNamespace(title string) bool {
	ns, _, found := strings.Cut(title, ":")
	if !found {
		return false
	}
	return nonArticleNamespaces[strings.ToLower(ns)]
}

func hasClass(attr, class string) bool {
	for _, c := range strings.Fields(attr) {
		if c == class {
			return true
		}
	}
	return false
}
