package websocket

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/SARVESHVARADKAR123/livechat/internal/auth"
	"github.com/SARVESHVARADKAR123/livechat/internal/observability"
)

const (
	SendQueueSize = 128
	writeWait     = 10 * time.Second
	pongWait      = 60 * time.Second
	pingPeriod    = (pongWait * 9) / 10
	maxFrameSize  = 64 * 1024
)

// Session is one browser connection. Writes go through SendQueue and are
// performed by writeLoop only.
type Session struct {
	ID     string
	UserID string
	Holder *auth.Holder

	Conn      *websocket.Conn
	SendQueue chan []byte
	done      chan struct{}
	closed    atomic.Int32

	closeCode   int
	closeReason string
}

func NewSession(id string, holder *auth.Holder, conn *websocket.Conn) *Session {
	user, _ := holder.Current()
	return &Session{
		ID:        id,
		UserID:    user.UID,
		Holder:    holder,
		Conn:      conn,
		SendQueue: make(chan []byte, SendQueueSize),
		done:      make(chan struct{}),
	}
}

func (s *Session) Start() {
	go s.writeLoop()
}

func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) TrySend(msg []byte) bool {
	if s.closed.Load() == 1 {
		return false
	}
	select {
	case s.SendQueue <- msg:
		return true
	default:
		s.logger().Warn("session: backpressure overflow, dropping connection")
		s.CloseWithReason(websocket.CloseInternalServerErr, "backpressure overflow")
		return false
	}
}

func (s *Session) SendFrame(f Frame) bool {
	payload, err := json.Marshal(f)
	if err != nil {
		s.logger().Error("session: failed to encode frame", zap.String("type", f.Type), zap.Error(err))
		return false
	}
	return s.TrySend(payload)
}

func (s *Session) Close() {
	s.CloseWithReason(websocket.CloseNormalClosure, "server closing")
}

// CloseWithReason marks the session closed. Frames already queued are still
// flushed by the write loop before the close frame goes out.
func (s *Session) CloseWithReason(code int, reason string) {
	if !s.closed.CompareAndSwap(0, 1) {
		return
	}

	s.logger().Info("session: closing", zap.Int("code", code), zap.String("reason", reason))
	s.closeCode, s.closeReason = code, reason
	close(s.done)
}

func (s *Session) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.CloseWithReason(websocket.CloseGoingAway, "write failed")
		s.Conn.Close()
	}()

	for {
		select {
		case msg := <-s.SendQueue:
			if err := s.write(msg); err != nil {
				s.logger().Warn("session: write error", zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = s.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.logger().Warn("session: ping error", zap.Error(err))
				return
			}
		case <-s.done:
			s.flush()
			deadline := time.Now().Add(time.Second)
			_ = s.Conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(s.closeCode, s.closeReason), deadline)
			return
		}
	}
}

func (s *Session) flush() {
	for {
		select {
		case msg := <-s.SendQueue:
			if err := s.write(msg); err != nil {
				return
			}
		default:
			return
		}
	}
}

func (s *Session) write(msg []byte) error {
	_ = s.Conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.Conn.WriteMessage(websocket.TextMessage, msg)
}

func (s *Session) logger() *zap.Logger {
	return observability.GetLogger(context.Background()).With(
		zap.String("session_id", s.ID),
		zap.String("user_id", s.UserID),
	)
}
