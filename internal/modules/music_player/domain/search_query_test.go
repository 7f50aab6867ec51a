package domain

import "testing"

func TestNewSearchQuery(t *testing.T) {
	tests := []struct {
		name           string
		input          string
		wantIdentifier string
		wantURL        bool
		wantValid      bool
	}{
		{
			name:           "plain text searches youtube",
			input:          "never gonna give you up",
			wantIdentifier: "ytsearch:never gonna give you up",
			wantValid:      true,
		},
		{
			name:           "surrounding whitespace is trimmed",
			input:          "  hello world  ",
			wantIdentifier: "ytsearch:hello world",
			wantValid:      true,
		},
		{
			name:           "https link loads directly",
			input:          "https://youtube.com/watch?v=dQw4w9WgXcQ",
			wantIdentifier: "https://youtube.com/watch?v=dQw4w9WgXcQ",
			wantURL:        true,
			wantValid:      true,
		},
		{
			name:           "bare www link loads directly",
			input:          "www.youtube.com/watch?v=abc",
			wantIdentifier: "www.youtube.com/watch?v=abc",
			wantURL:        true,
			wantValid:      true,
		},
		{
			name:           "embed-suppressed link is unwrapped",
			input:          "<https://open.spotify.com/track/abc>",
			wantIdentifier: "https://open.spotify.com/track/abc",
			wantURL:        true,
			wantValid:      true,
		},
		{
			name:           "angle brackets around text are kept",
			input:          "<3 songs",
			wantIdentifier: "ytsearch:<3 songs",
			wantValid:      true,
		},
		{
			name:           "blank input",
			input:          "   ",
			wantIdentifier: "ytsearch:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewSearchQuery(tt.input)

			if got := q.Identifier(); got != tt.wantIdentifier {
				t.Errorf("expected identifier %q, got %q", tt.wantIdentifier, got)
			}
			if q.IsURL() != tt.wantURL {
				t.Errorf("expected IsURL %v, got %v", tt.wantURL, q.IsURL())
			}
			if q.IsValid() != tt.wantValid {
				t.Errorf("expected IsValid %v, got %v", tt.wantValid, q.IsValid())
			}
		})
	}
}

func TestRelatedQuery(t *testing.T) {
	tests := []struct {
		name string
		seed *Track
		want string
	}{
		{
			name: "youtube track uses its radio mix",
			seed: &Track{Identifier: "dQw4w9WgXcQ", SourceName: "youtube", Author: "Rick Astley"},
			want: "https://www.youtube.com/watch?v=dQw4w9WgXcQ&list=RDdQw4w9WgXcQ",
		},
		{
			name: "youtube track without identifier searches author",
			seed: &Track{SourceName: "youtube", Author: "Rick Astley"},
			want: "ytmsearch:Rick Astley",
		},
		{
			name: "spotify track searches author",
			seed: &Track{Identifier: "4uLU6hMCjMI75M1A2tKUQC", SourceName: "spotify", Author: "Rick Astley"},
			want: "ytmsearch:Rick Astley",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RelatedQuery(tt.seed).Identifier(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
