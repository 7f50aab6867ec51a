package usecases

import (
	"context"

	"github.com/sglre6355/tunedeck/internal/modules/music_player/application/ports"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/domain"
)

// DefaultSuggestionLimit is the maximum number of suggestions Discord shows.
const DefaultSuggestionLimit = 25

// AutocompleteService provides search suggestions while users type a query.
type AutocompleteService struct {
	trackResolver ports.TrackResolver
}

// NewAutocompleteService creates a new AutocompleteService.
func NewAutocompleteService(trackResolver ports.TrackResolver) *AutocompleteService {
	return &AutocompleteService{
		trackResolver: trackResolver,
	}
}

// SearchTracks returns search results for a partially typed query.
// Plain text is searched; URLs are not resolved while typing.
func (s *AutocompleteService) SearchTracks(
	ctx context.Context,
	input string,
	limit int,
) ([]*ports.TrackInfo, error) {
	query := domain.NewSearchQuery(input)
	if !query.IsValid() || query.IsURL() {
		return nil, nil
	}

	result, err := s.trackResolver.LoadTracks(ctx, query.Identifier())
	if err != nil {
		return nil, err
	}
	if result.Type != ports.LoadTypeSearch && result.Type != ports.LoadTypeTrack {
		return nil, nil
	}

	if limit <= 0 || limit > DefaultSuggestionLimit {
		limit = DefaultSuggestionLimit
	}
	tracks := result.Tracks
	if len(tracks) > limit {
		tracks = tracks[:limit]
	}
	return tracks, nil
}
