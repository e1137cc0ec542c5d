package application

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/SARVESHVARADKAR123/livechat/internal/domain"
	"github.com/SARVESHVARADKAR123/livechat/internal/observability"
	"github.com/SARVESHVARADKAR123/livechat/internal/store"
)

type DeleteMessageCommand struct {
	MessageID   string
	RequesterID string
}

// DeleteMessage removes a message for good. Asking the user first is up to
// the caller. Only the author may delete; a message that is already gone
// counts as deleted.
func (s *Service) DeleteMessage(ctx context.Context, cmd DeleteMessageCommand) error {
	if cmd.MessageID == "" {
		return domain.ErrInvalidInput
	}

	s.log.Info("DeleteMessage requested", zap.String("message_id", cmd.MessageID), zap.String("requester_id", cmd.RequesterID))

	path := store.Path(domain.Collection, cmd.MessageID)
	if err := s.authorOf(ctx, path, cmd.RequesterID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}

	err := s.store.Delete(ctx, path)
	observability.StoreWritesTotal.WithLabelValues("delete", observability.WriteResult(err)).Inc()
	if err != nil {
		if errors.Is(err, store.ErrInvalidPath) {
			return domain.ErrInvalidPath
		}
		s.log.Error("DeleteMessage failed", zap.String("message_id", cmd.MessageID), zap.Error(err))
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}
