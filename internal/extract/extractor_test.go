package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func wrapBody(paragraphs string) string {
	return `<html><body><div id="mw-navigation"><a href="/wiki/Main_Page">Main page</a></div>` +
		`<div id="mw-content-text"><div class="mw-parser-output">` + paragraphs + `</div></div></body></html>`
}

func TestExtractFixture(t *testing.T) {
	t.Parallel()

	raw, err := os.ReadFile(filepath.Join("testdata", "cat.html"))
	require.NoError(t, err)

	got, err := New(Config{}, nil).Extract(string(raw))
	require.NoError(t, err)
	require.Equal(t, "Carnivore", got)
}

func TestExtract(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		cfg     Config
		want    string
		wantErr bool
	}{
		{
			name: "plain link",
			body: wrapBody(`<p>The cat is a <a href="/wiki/Domestic_animal">domestic animal</a>.</p>`),
			want: "Domestic_animal",
		},
		{
			name: "parenthetical link skipped",
			body: wrapBody(`<p>Cat (<a href="/wiki/Latin">Latin</a>) is a <a href="/wiki/Mammal">mammal</a>.</p>`),
			want: "Mammal",
		},
		{
			name:    "only link parenthetical",
			body:    wrapBody(`<p>Cat (<a href="/wiki/Latin">Latin</a>) is small.</p>`),
			wantErr: true,
		},
		{
			name: "italic link skipped",
			body: wrapBody(`<p>See <i><a href="/wiki/Felis">Felis</a></i> and <a href="/wiki/Animal">animal</a>.</p>`),
			want: "Animal",
		},
		{
			name: "emphasis counts as italic",
			body: wrapBody(`<p><em><a href="/wiki/Felis">Felis</a></em> <a href="/wiki/Animal">animal</a></p>`),
			want: "Animal",
		},
		{
			name:    "no body region",
			body:    `<html><body><p><a href="/wiki/Animal">animal</a></p></body></html>`,
			wantErr: true,
		},
		{
			name:    "empty document",
			body:    ``,
			wantErr: true,
		},
		{
			name:    "region without paragraphs",
			body:    wrapBody(`<div><a href="/wiki/Animal">animal</a></div>`),
			wantErr: true,
		},
		{
			name: "infobox paragraph ignored",
			body: wrapBody(`<table class="infobox"><tr><td><p><a href="/wiki/Felidae">Felidae</a></p></td></tr></table>` +
				`<p>A <a href="/wiki/Mammal">mammal</a>.</p>`),
			want: "Mammal",
		},
		{
			name: "empty paragraph ignored",
			body: wrapBody(`<p class="mw-empty-elt"> </p><p>A <a href="/wiki/Mammal">mammal</a>.</p>`),
			want: "Mammal",
		},
		{
			name: "namespace and red links ignored",
			body: wrapBody(`<p><a href="/wiki/Help:IPA">/kæt/</a> <a href="/wiki/File:Cat.jpg">pic</a> ` +
				`<a href="/wiki/Missing" class="new">missing</a> <a href="https://example.com/">ext</a> ` +
				`<a href="/wiki/Mammal">mammal</a></p>`),
			want: "Mammal",
		},
		{
			name: "citation markers ignored",
			body: wrapBody(`<p>Cats<sup class="reference"><a href="/wiki/Citation">[1]</a></sup> are <a href="/wiki/Mammal">mammals</a>.</p>`),
			want: "Mammal",
		},
		{
			name: "fragment stripped and escapes decoded",
			body: wrapBody(`<p>A <a href="/wiki/Caf%C3%A9_society#History">café</a>.</p>`),
			want: "Café_society",
		},
		{
			name: "parentheses inside quotes do not count",
			body: wrapBody(`<p>Known as "Tom (the cat)" to <a href="/wiki/Fan">fans</a>.</p>`),
			want: "Fan",
		},
		{
			name: "parentheses in link text stay balanced",
			body: wrapBody(`<p>A <a href="/wiki/Cat_(band)">Cat (band)</a> song.</p>`),
			want: "Cat_(band)",
		},
		{
			name:    "later paragraphs ignored by default",
			body:    wrapBody(`<p>No links here.</p><p>A <a href="/wiki/Mammal">mammal</a>.</p>`),
			wantErr: true,
		},
		{
			name: "later paragraphs scanned when enabled",
			body: wrapBody(`<p>No links here.</p><p>A <a href="/wiki/Mammal">mammal</a>.</p>`),
			cfg:  Config{AllParagraphs: true},
			want: "Mammal",
		},
		{
			name: "custom region selector",
			body: `<div class="article"><p><a href="/wiki/Mammal">mammal</a></p></div>`,
			cfg:  Config{RegionSelector: ".article"},
			want: "Mammal",
		},
		{
			name: "italic text inside link skipped",
			body: wrapBody(`<p>The <a href="/wiki/Felis_catus"><i>Felis catus</i></a> is a <a href="/wiki/Mammal">mammal</a>.</p>`),
			want: "Mammal",
		},
		{
			name: "unpaired quote does not hide parentheses",
			body: wrapBody(`<p>A 12" single (<a href="/wiki/Vinyl">vinyl</a>) by the <a href="/wiki/Band">band</a>.</p>`),
			want: "Band",
		},
		{
			name: "paragraph holding only styles skipped",
			body: wrapBody(`<p><style>.mw-parser-output .hatnote{font-style:italic}</style></p>` +
				`<p>A <a href="/wiki/Mammal">mammal</a>.</p>`),
			want: "Mammal",
		},
		{
			name: "paragraph holding only coordinates skipped",
			body: wrapBody(`<p><span id="coordinates">51°N 0°W</span></p>` +
				`<p>A <a href="/wiki/Mammal">mammal</a>.</p>`),
			want: "Mammal",
		},
		{
			name: "truncated markup",
			body: `<div id="mw-content-text"><p>See <a href="/wiki/Truncation">trunc`,
			want: "Truncation",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := New(tt.cfg, nil).Extract(tt.body)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrNoLink)
				require.Empty(t, got)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestSelect(t *testing.T) {
	t.Parallel()

	_, ok := Select(nil)
	require.False(t, ok)

	tokens := []Token{
		{Text: "see "},
		{Text: "x", Target: "Paren", InsideParens: true},
		{Text: "y", Target: "Italic", Italic: true},
		{Text: "z", Target: "Plain"},
		{Text: "w", Target: "Later"},
	}
	tok, ok := Select(tokens)
	require.True(t, ok)
	require.Equal(t, "Plain", tok.Target)
}
