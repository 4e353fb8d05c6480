package auth

import (
	"context"

	"github.com/gatehouse-app/gatehouse/internal/authz"
	"github.com/gatehouse-app/gatehouse/internal/shared"
)

// Service wraps the identifier-only login rules. No password verification
// is performed anywhere; a registered identifier is the whole credential.
type Service struct {
	store *authz.Store
}

// NewService constructs a new Service.
func NewService(store *authz.Store) *Service {
	return &Service{store: store}
}

// Authenticate resolves an identifier to its principal.
func (s *Service) Authenticate(ctx context.Context, identifier string) (authz.Principal, error) {
	p, ok := s.store.Lookup(identifier)
	if !ok {
		return authz.Principal{}, shared.ErrUnknownPrincipal
	}
	return p, nil
}
