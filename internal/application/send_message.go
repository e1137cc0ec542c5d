package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/SARVESHVARADKAR123/livechat/internal/domain"
	"github.com/SARVESHVARADKAR123/livechat/internal/observability"
)

type SendMessageCommand struct {
	Text   string
	Author *domain.Author
}

// SendMessage appends a message authored by cmd.Author. The text is stored as
// typed; only blank input is rejected.
func (s *Service) SendMessage(ctx context.Context, cmd SendMessageCommand) (string, error) {
	if domain.IsBlank(cmd.Text) {
		return "", domain.ErrEmptyMessage
	}
	if cmd.Author == nil || cmd.Author.ID == "" {
		return "", domain.ErrNotAuthenticated
	}

	s.log.Info("SendMessage requested", zap.String("user_id", cmd.Author.ID))

	rec := domain.NewRecord(cmd.Text, *cmd.Author, s.now())
	id, err := s.store.Create(ctx, domain.Collection, rec)
	observability.StoreWritesTotal.WithLabelValues("create", observability.WriteResult(err)).Inc()
	if err != nil {
		s.log.Error("SendMessage failed", zap.String("user_id", cmd.Author.ID), zap.Error(err))
		return "", fmt.Errorf("failed to send message: %w", err)
	}

	return id, nil
}
