package extract

import (
	"bytes"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Token is one piece of a tokenized paragraph. Text tokens carry the text
// that appeared between tags; link tokens additionally carry the article the
// link points at.
type Token struct {
	Text         string
	Target       string
	InsideParens bool
	Italic       bool
}

// IsLink reports whether the token is an in-wiki article link.
func (t Token) IsLink() bool {
	return t.Target != ""
}

// Acceptable reports whether the token is a link the trail may follow:
// an article link that is neither parenthetical nor italic.
func (t Token) Acceptable() bool {
	return t.IsLink() && !t.InsideParens && !t.Italic
}

// skippedTags have their whole content dropped from the token stream. Spans
// carry pronunciation guides and sups carry citation markers.
var skippedTags = map[atom.Atom]bool{
	atom.Sup:    true,
	atom.Span:   true,
	atom.Table:  true,
	atom.Style:  true,
	atom.Script: true,
}

func isItalicTag(a atom.Atom) bool {
	return a == atom.I || a == atom.Em
}

// scanState tracks the context a token appears in while walking the markup.
type scanState struct {
	parens int
	italic int
	skip   int
	quoted bool
	// quotes enables the double-quote exemption. It is off for paragraphs
	// whose quotes do not pair up, where a lone '"' is an inch or seconds mark.
	quotes bool
}

// consume advances the parenthesis depth over text. Parentheses between
// double quotes are not counted, and a stray ')' never drives depth negative.
func (s *scanState) consume(text string) {
	for _, r := range text {
		switch {
		case r == '"' && s.quotes:
			s.quoted = !s.quoted
		case s.quoted:
		case r == '(':
			s.parens++
		case r == ')':
			if s.parens > 0 {
				s.parens--
			}
		}
	}
}

// Tokenize walks markup with the x/net/html tokenizer and returns a flat
// token sequence. It never fails: malformed or truncated markup simply ends
// the stream early.
func Tokenize(r io.Reader) []Token {
	// A read error leaves a truncated document, which tokenizes like any
	// other truncated markup.
	data, _ := io.ReadAll(r)
	tokens := tokenize(data, true)
	if !quotesPaired(tokens) {
		tokens = tokenize(data, false)
	}
	return tokens
}

// quotesPaired reports whether the visible text holds an even number of
// double quotes.
func quotesPaired(tokens []Token) bool {
	n := 0
	for _, tok := range tokens {
		n += strings.Count(tok.Text, `"`)
	}
	return n%2 == 0
}

func tokenize(data []byte, quotes bool) []Token {
	z := html.NewTokenizer(bytes.NewReader(data))
	var (
		tokens []Token
		state  scanState
		link   *Token
		text   strings.Builder
	)
	state.quotes = quotes
	// plain and italic record whether the open link's visible text was seen
	// outside or inside italics.
	var plain, italic bool
	closeLink := func() {
		if link == nil {
			return
		}
		link.Text = text.String()
		if italic && !plain {
			link.Italic = true
		}
		tokens = append(tokens, *link)
		link = nil
		text.Reset()
		plain, italic = false, false
	}

	for {
		switch z.Next() {
		case html.ErrorToken:
			closeLink()
			return tokens
		case html.StartTagToken:
			name, hasAttr := z.TagName()
			a := atom.Lookup(name)
			switch {
			case state.skip > 0:
				if skippedTags[a] {
					state.skip++
				}
			case skippedTags[a]:
				state.skip++
			case isItalicTag(a):
				state.italic++
			case a == atom.A:
				closeLink()
				href, class := anchorAttrs(z, hasAttr)
				link = &Token{
					Target:       wikiTarget(href, class),
					InsideParens: state.parens > 0,
					Italic:       state.italic > 0,
				}
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			switch {
			case state.skip > 0:
				if skippedTags[a] {
					state.skip--
				}
			case isItalicTag(a):
				if state.italic > 0 {
					state.italic--
				}
			case a == atom.A:
				closeLink()
			}
		case html.TextToken:
			if state.skip > 0 {
				continue
			}
			raw := string(z.Text())
			if link != nil {
				text.WriteString(raw)
				if strings.TrimSpace(raw) != "" {
					if state.italic > 0 {
						italic = true
					} else {
						plain = true
					}
				}
			} else {
				tokens = append(tokens, Token{
					Text:         raw,
					InsideParens: state.parens > 0,
					Italic:       state.italic > 0,
				})
			}
			state.consume(raw)
		}
	}
}

func anchorAttrs(z *html.Tokenizer, more bool) (href, class string) {
	for more {
		var key, val []byte
		key, val, more = z.TagAttr()
		switch string(key) {
		case "href":
			href = string(val)
		case "class":
			class = string(val)
		}
	}
	return href, class
}
