package services

import (
	"context"
	"errors"

	"github.com/castmatch/castmatch-backend/internal/model"
	"github.com/castmatch/castmatch-backend/internal/store"
)

// PersonaService ingests and serves interest profiles. Personas are
// produced by an external profiling pipeline and stored as-is.
type PersonaService struct {
	store store.Store
}

func NewPersonaService(s store.Store) *PersonaService {
	return &PersonaService{store: s}
}

func (s *PersonaService) PutPersona(ctx context.Context, p *model.Persona) (*model.Persona, error) {
	return s.store.Personas().Upsert(ctx, p)
}

func (s *PersonaService) GetPersona(ctx context.Context, userID string) (*model.Persona, error) {
	p, err := s.store.Personas().Get(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewError(model.NotFound, "no persona for user %q", userID)
		}
		return nil, err
	}
	return p, nil
}
