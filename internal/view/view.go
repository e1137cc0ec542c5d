package view

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/SARVESHVARADKAR123/livechat/internal/application"
	"github.com/SARVESHVARADKAR123/livechat/internal/auth"
	"github.com/SARVESHVARADKAR123/livechat/internal/domain"
)

var ErrAlreadyRunning = errors.New("view: already running")

const defaultWriteTimeout = 10 * time.Second

// Feed produces message snapshots until ctx is done.
type Feed interface {
	Run(ctx context.Context, publish func([]domain.Message)) error
}

type Deps struct {
	Feed         Feed
	Actions      Actions
	User         auth.CurrentUser
	Auth         SignOuter
	UI           UI
	WriteTimeout time.Duration
	WindowLimit  int
	Log          *zap.Logger
}

// View is one viewer's chat screen. Snapshots, intents and write completions
// all become events applied one at a time by Run, so the fields below the
// marker are only touched from that goroutine.
type View struct {
	feed         Feed
	actions      Actions
	user         auth.CurrentUser
	auth         SignOuter
	ui           UI
	writeTimeout time.Duration
	log          *zap.Logger

	events   chan func()
	done     chan struct{}
	started  atomic.Bool
	inflight sync.WaitGroup

	// loop-owned
	ctx     context.Context
	stop    context.CancelFunc
	list    *MessageList
	compose string
	sending bool
	saving  bool
	edit    EditSession
	left    bool
}

func New(d Deps) *View {
	if d.WriteTimeout <= 0 {
		d.WriteTimeout = defaultWriteTimeout
	}
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	return &View{
		feed:         d.Feed,
		actions:      d.Actions,
		user:         d.User,
		auth:         d.Auth,
		ui:           d.UI,
		writeTimeout: d.WriteTimeout,
		log:          d.Log,
		events:       make(chan func(), 16),
		done:         make(chan struct{}),
		list:         NewMessageList(d.WindowLimit),
	}
}

// Run drives the view until ctx is done or the viewer signs out. The live
// subscription is started here and has been torn down by the time Run returns.
func (v *View) Run(ctx context.Context) error {
	if !v.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer close(v.done)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	v.ctx, v.stop = ctx, cancel

	if _, ok := v.user.Current(); !ok {
		v.ui.Navigate(RouteLanding)
		return nil
	}

	feedDone := make(chan error, 1)
	go func() {
		feedDone <- v.feed.Run(ctx, func(msgs []domain.Message) {
			v.postCtx(ctx, func() {
				v.list.Replace(msgs)
				v.render()
			})
		})
	}()

	v.render()
	for {
		select {
		case <-ctx.Done():
			if feedDone != nil {
				<-feedDone
			}
			return nil
		case fn := <-v.events:
			if !v.left {
				fn()
			}
		case err := <-feedDone:
			feedDone = nil
			if err != nil {
				v.log.Error("view: live subscription ended, keeping last snapshot", zap.Error(err))
			}
		case <-v.user.Changes():
			v.userChanged()
		}
	}
}

// Done is closed once Run has returned.
func (v *View) Done() <-chan struct{} {
	return v.done
}

// Wait blocks until writes started by the view have finished.
func (v *View) Wait() {
	v.inflight.Wait()
}

func (v *View) Compose(text string) {
	v.post(func() {
		if v.sending {
			return
		}
		v.compose = text
		v.render()
	})
}

func (v *View) Send() {
	v.post(v.send)
}

func (v *View) StartEdit(id string) {
	v.post(func() { v.startEdit(id) })
}

func (v *View) ChangeDraft(text string) {
	v.post(func() {
		if v.saving {
			return
		}
		if v.edit.SetDraft(text) {
			v.render()
		}
	})
}

func (v *View) SaveEdit() {
	v.post(v.saveEdit)
}

func (v *View) CancelEdit() {
	v.post(func() {
		v.edit.Cancel()
		v.render()
	})
}

func (v *View) Delete(id string) {
	v.post(func() { v.delete(id) })
}

func (v *View) SignOut() {
	v.post(v.signOut)
}

func (v *View) send() {
	if v.sending || domain.IsBlank(v.compose) {
		return
	}
	user, ok := v.user.Current()
	if !ok {
		return
	}

	text := v.compose
	author := user.Author()
	v.sending = true
	v.render()

	v.async(func() func() {
		ctx, cancel := v.writeContext()
		defer cancel()

		_, err := v.actions.SendMessage(ctx, application.SendMessageCommand{Text: text, Author: &author})
		return func() {
			v.sending = false
			if err != nil {
				v.log.Error("view: send failed", zap.Error(err))
				v.ui.Alert(AlertSendFailed)
			} else {
				v.compose = ""
			}
			v.render()
		}
	})
}

func (v *View) startEdit(id string) {
	msg, ok := v.list.Find(id)
	if !ok || !v.isMine(msg) {
		return
	}
	v.edit.Start(id, msg.Text)
	v.render()
}

func (v *View) saveEdit() {
	edit, ok := v.edit.Active()
	if !ok || v.saving {
		return
	}
	if domain.IsBlank(edit.DraftText) {
		v.ui.Alert(AlertEmptyMessage)
		return
	}
	user, ok := v.user.Current()
	if !ok {
		return
	}

	v.saving = true
	v.render()

	v.async(func() func() {
		ctx, cancel := v.writeContext()
		defer cancel()

		err := v.actions.EditMessage(ctx, application.EditMessageCommand{
			MessageID:   edit.MessageID,
			Text:        edit.DraftText,
			RequesterID: user.UID,
		})
		return func() {
			v.saving = false
			if err != nil {
				v.log.Error("view: update failed", zap.String("message_id", edit.MessageID), zap.Error(err))
				v.ui.Alert(AlertUpdateFailed)
				v.render()
				return
			}
			if v.edit.Editing(edit.MessageID) {
				v.edit.Cancel()
			}
			v.render()
		}
	})
}

func (v *View) delete(id string) {
	msg, ok := v.list.Find(id)
	if !ok || !v.isMine(msg) {
		return
	}
	requester := msg.AuthorID

	// the prompt may take a while; snapshots keep flowing meanwhile
	v.async(func() func() {
		confirmed, err := v.ui.Confirm(v.ctx, ConfirmDelete)
		if err != nil || !confirmed {
			return nil
		}

		ctx, cancel := v.writeContext()
		defer cancel()

		if err := v.actions.DeleteMessage(ctx, application.DeleteMessageCommand{MessageID: id, RequesterID: requester}); err != nil {
			return func() {
				v.log.Error("view: delete failed", zap.String("message_id", id), zap.Error(err))
				v.ui.Alert(AlertDeleteFailed)
			}
		}
		return nil
	})
}

func (v *View) signOut() {
	v.async(func() func() {
		ctx, cancel := v.writeContext()
		defer cancel()

		if err := v.auth.SignOut(ctx); err != nil {
			return func() {
				v.log.Error("view: sign out failed", zap.Error(err))
				v.ui.Alert(AlertSignOutFailed)
			}
		}
		return v.leave
	})
}

func (v *View) userChanged() {
	if _, ok := v.user.Current(); !ok {
		v.leave()
		return
	}
	v.render()
}

// leave sends the viewer to the landing route and stops the view.
func (v *View) leave() {
	if v.left {
		return
	}
	v.left = true
	v.ui.Navigate(RouteLanding)
	v.stop()
}

func (v *View) isMine(m domain.Message) bool {
	user, ok := v.user.Current()
	return ok && user.UID != "" && m.AuthorID == user.UID
}

func (v *View) render() {
	user, _ := v.user.Current()
	items := v.list.Items()

	msgs := make([]MessageView, len(items))
	for i, m := range items {
		msgs[i] = MessageView{Message: m, Mine: user.UID != "" && m.AuthorID == user.UID}
	}

	st := State{
		Loaded:   v.list.Loaded(),
		Empty:    len(items) == 0,
		Messages: msgs,
		Compose:  v.compose,
		Sending:  v.sending,
		Saving:   v.saving,
		UserID:   user.UID,
	}
	if e, ok := v.edit.Active(); ok {
		st.Edit = &e
	}
	v.ui.Render(st)
}

// async runs task off the loop. A non-nil result is applied on the loop if
// the view is still running.
func (v *View) async(task func() func()) {
	v.inflight.Add(1)
	go func() {
		defer v.inflight.Done()
		if complete := task(); complete != nil {
			v.post(complete)
		}
	}()
}

// writeContext bounds a write by the write timeout only. Writes are not
// cancelled when the view stops.
func (v *View) writeContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(v.ctx), v.writeTimeout)
}

func (v *View) post(fn func()) bool {
	select {
	case v.events <- fn:
		return true
	case <-v.done:
		return false
	}
}

func (v *View) postCtx(ctx context.Context, fn func()) {
	select {
	case v.events <- fn:
	case <-ctx.Done():
	case <-v.done:
	}
}
