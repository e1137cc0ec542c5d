package application

import (
	"time"

	"go.uber.org/zap"

	"github.com/SARVESHVARADKAR123/livechat/internal/store"
)

type Service struct {
	store store.Store
	log   *zap.Logger
	now   func() time.Time
}

func New(s store.Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: s, log: log, now: time.Now}
}
