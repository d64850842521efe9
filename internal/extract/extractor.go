// Package extract picks the next article of a trail out of raw article markup.
//
// The body-content region and its paragraphs are located with goquery. The
// chosen paragraph is then re-tokenized into a flat stream of text and link
// tokens, each tagged with whether it sits inside parentheses or italics, and
// the first acceptable link wins.
package extract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// DefaultRegionSelector matches the article body on MediaWiki pages.
const DefaultRegionSelector = "#mw-content-text"

// asideSelector matches containers whose paragraphs are not body text.
const asideSelector = "table, figure, .infobox, .navbox, .sidebar, .hatnote, .thumb, .shortdescription"

// ErrNoLink is returned when no acceptable link could be found.
var ErrNoLink = errors.New("no qualifying link found")

// Config controls where the extractor looks for links.
type Config struct {
	// RegionSelector is the CSS selector of the body-content region.
	RegionSelector string
	// AllParagraphs keeps scanning later paragraphs when the first one has no
	// acceptable link.
	AllParagraphs bool
}

// Extractor implements link extraction over article markup.
type Extractor struct {
	cfg    Config
	logger *zap.Logger
}

// New builds an Extractor.
func New(cfg Config, logger *zap.Logger) *Extractor {
	if strings.TrimSpace(cfg.RegionSelector) == "" {
		cfg.RegionSelector = DefaultRegionSelector
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{cfg: cfg, logger: logger}
}

// Extract returns the title of the first link in body that is inside the
// body-content region, in its first paragraph, and neither parenthetical nor
// italic. Every failure wraps ErrNoLink.
func (e *Extractor) Extract(body string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: parse markup: %w", ErrNoLink, err)
	}
	region := doc.Find(e.cfg.RegionSelector).First()
	if region.Length() == 0 {
		return "", fmt.Errorf("%w: no body content matching %q", ErrNoLink, e.cfg.RegionSelector)
	}

	blocks := e.paragraphs(region)
	if len(blocks) == 0 {
		return "", fmt.Errorf("%w: body content has no paragraphs", ErrNoLink)
	}
	if !e.cfg.AllParagraphs {
		blocks = blocks[:1]
	}
	for i, tokens := range blocks {
		if tok, ok := Select(tokens); ok {
			e.logger.Debug("selected link",
				zap.Int("paragraph", i),
				zap.String("target", tok.Target),
				zap.String("text", tok.Text),
			)
			return tok.Target, nil
		}
	}
	return "", ErrNoLink
}

// Select returns the first acceptable link token.
func Select(tokens []Token) (Token, bool) {
	for _, tok := range tokens {
		if tok.Acceptable() {
			return tok, true
		}
	}
	return Token{}, false
}

// paragraphs returns the tokens of each paragraph of region, in document
// order, skipping paragraphs nested inside tables, infoboxes or other asides
// and paragraphs with no visible text once skipped content is dropped.
func (e *Extractor) paragraphs(region *goquery.Selection) [][]Token {
	var out [][]Token
	region.Find("p").Each(func(i int, p *goquery.Selection) {
		if p.ParentsUntilSelection(region).Filter(asideSelector).Length() > 0 {
			return
		}
		markup, err := goquery.OuterHtml(p)
		if err != nil {
			e.logger.Debug("skipping unrenderable paragraph", zap.Int("paragraph", i), zap.Error(err))
			return
		}
		tokens := Tokenize(strings.NewReader(markup))
		if !hasVisibleText(tokens) {
			return
		}
		out = append(out, tokens)
	})
	return out
}

func hasVisibleText(tokens []Token) bool {
	for _, tok := range tokens {
		if strings.TrimSpace(tok.Text) != "" {
			return true
		}
	}
	return false
}
