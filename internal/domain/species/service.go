package species

import "context"

// Service es una capa fina sobre el repo: la data es read-only.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListSpecies(ctx context.Context) ([]Species, error) {
	return s.repo.ListSpecies(ctx)
}

func (s *Service) ListBreeds(ctx context.Context, speciesID int64) ([]Breed, error) {
	return s.repo.ListBreeds(ctx, speciesID)
}
