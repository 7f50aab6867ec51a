package application

import (
	"errors"

	"github.com/sglre6355/tunedeck/internal/modules/info/domain"
)

// ErrUnknownSupportTopic is returned when no link matches the requested topic.
var ErrUnknownSupportTopic = errors.New("unknown support topic")

// SupportInteractor handles the support use case.
type SupportInteractor struct{}

// NewSupportInteractor creates a new SupportInteractor.
func NewSupportInteractor() *SupportInteractor {
	return &SupportInteractor{}
}

// Execute returns the links to show. An empty topic returns every link.
func (s *SupportInteractor) Execute(topic string) ([]domain.SupportLink, error) {
	if topic == "" {
		return domain.SupportLinks(), nil
	}

	link, ok := domain.LookupSupportLink(topic)
	if !ok {
		return nil, ErrUnknownSupportTopic
	}
	return []domain.SupportLink{link}, nil
}
