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

type EditMessageCommand struct {
	MessageID   string
	Text        string
	RequesterID string
}

// EditMessage replaces the text of a message and marks it edited. Author and
// timestamp are left as they are. Only the author may edit.
func (s *Service) EditMessage(ctx context.Context, cmd EditMessageCommand) error {
	if domain.IsBlank(cmd.Text) {
		return domain.ErrEmptyMessage
	}
	if cmd.MessageID == "" {
		return domain.ErrInvalidInput
	}

	s.log.Info("EditMessage requested", zap.String("message_id", cmd.MessageID), zap.String("requester_id", cmd.RequesterID))

	path := store.Path(domain.Collection, cmd.MessageID)
	if err := s.authorOf(ctx, path, cmd.RequesterID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.ErrMessageNotFound
		}
		return err
	}

	err := s.store.Update(ctx, path, domain.EditFields(cmd.Text, s.now()))
	observability.StoreWritesTotal.WithLabelValues("update", observability.WriteResult(err)).Inc()
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return domain.ErrMessageNotFound
	case errors.Is(err, store.ErrInvalidPath):
		return domain.ErrInvalidPath
	}

	s.log.Error("EditMessage failed", zap.String("message_id", cmd.MessageID), zap.Error(err))
	return fmt.Errorf("failed to update message: %w", err)
}
