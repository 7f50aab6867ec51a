package domain

import "strings"

// SearchPrefix selects the Lavalink search provider for a plain-text query.
type SearchPrefix string

const (
	SearchYouTube      SearchPrefix = "ytsearch"
	SearchYouTubeMusic SearchPrefix = "ytmsearch"
)

var urlSchemes = []string{"http://", "https://", "www."}

// SearchQuery is what gets handed to the resolver: a URL loaded as is, or a
// search term sent through a provider prefix.
type SearchQuery struct {
	Term   string
	Prefix SearchPrefix
}

// NewSearchQuery classifies user input. Angle brackets Discord users wrap
// around links to suppress embeds are stripped.
func NewSearchQuery(input string) SearchQuery {
	term := strings.TrimSpace(input)
	if unwrapped, ok := strings.CutPrefix(term, "<"); ok {
		if inner, ok := strings.CutSuffix(unwrapped, ">"); ok && looksLikeURL(inner) {
			term = inner
		}
	}

	if looksLikeURL(term) {
		return SearchQuery{Term: term}
	}
	return SearchQuery{Term: term, Prefix: SearchYouTube}
}

// RelatedQuery builds the autoplay lookup for seed: the radio mix for sources
// that have one, otherwise a YouTube Music search by author.
func RelatedQuery(seed *Track) SearchQuery {
	if id := seed.Identifier; id != "" && seed.Source().HasRadioMix() {
		return SearchQuery{Term: "https://www.youtube.com/watch?v=" + id + "&list=RD" + id}
	}
	return SearchQuery{Term: seed.Author, Prefix: SearchYouTubeMusic}
}

// IsURL reports whether the query is loaded directly.
func (q SearchQuery) IsURL() bool {
	return q.Prefix == ""
}

func (q SearchQuery) IsValid() bool {
	return q.Term != ""
}

// Identifier is the string passed to Lavalink's loadtracks endpoint.
func (q SearchQuery) Identifier() string {
	if q.IsURL() {
		return q.Term
	}
	return string(q.Prefix) + ":" + q.Term
}

func looksLikeURL(s string) bool {
	for _, scheme := range urlSchemes {
		if strings.HasPrefix(s, scheme) {
			return true
		}
	}
	return false
}
