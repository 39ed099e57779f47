package service

import (
	"context"

	"github.com/tutorlink/backend/internal/model"
)

// LookupService serves the reference-data collections. The registry maps the
// closed set of lookup kinds to typed fetch functions, so an unknown kind is
// a domain error at the edge, not a silent reflection miss.
type LookupService struct {
	registry map[model.LookupKind]func(ctx context.Context) ([]*model.LookupItem, error)
}

func NewLookupService(lookupRepo LookupStore) *LookupService {
	return &LookupService{
		registry: map[model.LookupKind]func(ctx context.Context) ([]*model.LookupItem, error){
			model.LookupSubjects:    lookupRepo.GetSubjects,
			model.LookupGradeLevels: lookupRepo.GetGradeLevels,
			model.LookupCities:      lookupRepo.GetCities,
		},
	}
}

// Get gets all active items of the given kind
func (s *LookupService) Get(ctx context.Context, kind model.LookupKind) ([]*model.LookupItem, error) {
	fetch, ok := s.registry[kind]
	if !ok {
		return nil, ErrUnknownLookupKind
	}

	return fetch(ctx)
}

// GetNames gets the items of a kind resolved to a single language
func (s *LookupService) GetNames(ctx context.Context, kind model.LookupKind, locale model.Locale) ([]string, error) {
	items, err := s.Get(ctx, kind)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name.Resolve(locale))
	}

	return names, nil
}

// Kinds lists every supported lookup kind
func (s *LookupService) Kinds() []model.LookupKind {
	kinds := make([]model.LookupKind, 0, len(s.registry))
	for kind := range s.registry {
		kinds = append(kinds, kind)
	}

	return kinds
}
