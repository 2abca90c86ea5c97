package templates

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"household-shopping/internal/apperr"
	"household-shopping/internal/clock"
	"household-shopping/internal/identity"
)

// Service is the owner-scoped template store.
type Service struct {
	store    Store
	identity identity.Provider
	clock    clock.Clock
}

type Option func(*Service)

func WithClock(c clock.Clock) Option {
	return func(s *Service) { s.clock = c }
}

func NewService(store Store, ids identity.Provider, opts ...Option) *Service {
	s := &Service{store: store, identity: ids, clock: clock.System()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateTemplate stores a new template owned by the caller.
func (s *Service) CreateTemplate(ctx context.Context, in Input) (*Template, error) {
	const op = "templates.Create"
	owner, err := identity.Require(ctx, s.identity, op)
	if err != nil {
		return nil, err
	}
	in, typ, err := in.Validate()
	if err != nil {
		return nil, apperr.Validation(op, "%v", err)
	}
	now := clock.Stamp(s.clock, 0)
	t := &Template{
		ID:          uuid.NewString(),
		OwnerID:     owner,
		Name:        in.Name,
		Description: in.Description,
		Type:        typ,
		Products:    in.Products,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create template: %w", err)
	}
	return t, nil
}

// UpdateTemplate replaces every mutable field of a template.
func (s *Service) UpdateTemplate(ctx context.Context, id string, in Input) (*Template, error) {
	const op = "templates.Update"
	owner, err := identity.Require(ctx, s.identity, op)
	if err != nil {
		return nil, err
	}
	in, typ, err := in.Validate()
	if err != nil {
		return nil, apperr.Validation(op, "%v", err)
	}
	return s.store.Update(ctx, id, func(t *Template) error {
		if t.OwnerID != owner {
			return apperr.Forbidden(op, id)
		}
		t.Name = in.Name
		t.Description = in.Description
		t.Type = typ
		t.Products = in.Products
		t.UpdatedAt = clock.Stamp(s.clock, t.UpdatedAt)
		return nil
	})
}

// DeleteTemplate removes a template. Lists derived from it are unaffected.
func (s *Service) DeleteTemplate(ctx context.Context, id string) error {
	const op = "templates.Delete"
	owner, err := identity.Require(ctx, s.identity, op)
	if err != nil {
		return err
	}
	return s.store.Delete(ctx, id, func(t *Template) error {
		if t.OwnerID != owner {
			return apperr.Forbidden(op, id)
		}
		return nil
	})
}

// ListTemplates returns the caller's templates.
func (s *Service) ListTemplates(ctx context.Context) ([]Template, error) {
	owner, err := identity.Require(ctx, s.identity, "templates.List")
	if err != nil {
		return nil, err
	}
	list, err := s.store.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return list, nil
}

// GetTemplate returns one of the caller's templates.
func (s *Service) GetTemplate(ctx context.Context, id string) (*Template, error) {
	const op = "templates.Get"
	owner, err := identity.Require(ctx, s.identity, op)
	if err != nil {
		return nil, err
	}
	t, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	if t == nil {
		return nil, apperr.NotFound(op, id, "template")
	}
	if t.OwnerID != owner {
		return nil, apperr.Forbidden(op, id)
	}
	return t, nil
}
