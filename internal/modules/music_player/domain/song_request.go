package domain

import (
	"regexp"
	"unicode/utf8"
)

const (
	minSongQueryLength = 2
	maxSongQueryLength = 200
)

var (
	restrictedContentPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)discord\.gg`),
		regexp.MustCompile(`(?i)@everyone`),
		regexp.MustCompile(`(?i)@here`),
	}
	plainSongQueryPattern = regexp.MustCompile(`^[^/*?|<>]+$`)
	songURLPattern        = regexp.MustCompile(`(?i)https?://(www\.)?(youtube|youtu\.be|spotify)`)
)

// IsSongQuery reports whether a message posted in the central channel should be
// treated as a song request.
func IsSongQuery(content string) bool {
	length := utf8.RuneCountInString(content)
	if length <= minSongQueryLength || length > maxSongQueryLength {
		return false
	}

	for _, pattern := range restrictedContentPatterns {
		if pattern.MatchString(content) {
			return false
		}
	}

	return plainSongQueryPattern.MatchString(content) || songURLPattern.MatchString(content)
}
