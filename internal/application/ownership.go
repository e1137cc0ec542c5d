package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/SARVESHVARADKAR123/livechat/internal/domain"
	"github.com/SARVESHVARADKAR123/livechat/internal/store"
)

// authorOf loads the message at path and checks that requesterID wrote it.
// store.ErrNotFound is passed through so each caller can decide what a
// missing message means.
func (s *Service) authorOf(ctx context.Context, path, requesterID string) error {
	if requesterID == "" {
		return domain.ErrNotAuthenticated
	}

	rec, err := s.store.Get(ctx, path)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return store.ErrNotFound
	case errors.Is(err, store.ErrInvalidPath):
		return domain.ErrInvalidPath
	case err != nil:
		return fmt.Errorf("failed to load message: %w", err)
	}

	if owner, _ := rec[domain.FieldUserID].(string); owner != requesterID {
		return domain.ErrForbidden
	}
	return nil
}
