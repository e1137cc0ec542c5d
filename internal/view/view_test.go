package view

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SARVESHVARADKAR123/livechat/internal/application"
	"github.com/SARVESHVARADKAR123/livechat/internal/auth"
	"github.com/SARVESHVARADKAR123/livechat/internal/domain"
	"github.com/SARVESHVARADKAR123/livechat/internal/live"
	"github.com/SARVESHVARADKAR123/livechat/internal/notify"
	"github.com/SARVESHVARADKAR123/livechat/internal/store"
	"github.com/SARVESHVARADKAR123/livechat/internal/store/memory"
)

const waitFor = 2 * time.Second

type fakeUI struct {
	mu      sync.Mutex
	states  []State
	alerts  []string
	routes  []string
	prompts []string
	answer  bool
}

func (u *fakeUI) Render(s State) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.states = append(u.states, s)
}

func (u *fakeUI) Alert(message string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.alerts = append(u.alerts, message)
}

func (u *fakeUI) Confirm(_ context.Context, message string) (bool, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.prompts = append(u.prompts, message)
	return u.answer, nil
}

func (u *fakeUI) Navigate(route string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.routes = append(u.routes, route)
}

func (u *fakeUI) last() State {
	u.mu.Lock()
	defer u.mu.Unlock()
	if len(u.states) == 0 {
		return State{}
	}
	return u.states[len(u.states)-1]
}

func (u *fakeUI) alertList() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.alerts...)
}

func (u *fakeUI) routeList() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.routes...)
}

func (u *fakeUI) promptList() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.prompts...)
}

// countingStore records writes and can be told to fail them.
type countingStore struct {
	*memory.Store

	mu         sync.Mutex
	creates    int
	updates    int
	deletes    int
	failCreate error
	failUp     error
	failDelete error
	holdUp     chan struct{}
}

func (s *countingStore) Create(ctx context.Context, collection string, rec store.Record) (string, error) {
	s.mu.Lock()
	s.creates++
	err := s.failCreate
	s.mu.Unlock()
	if err != nil {
		return "", err
	}
	return s.Store.Create(ctx, collection, rec)
}

func (s *countingStore) Update(ctx context.Context, path string, fields store.Record) error {
	s.mu.Lock()
	s.updates++
	err, hold := s.failUp, s.holdUp
	s.mu.Unlock()
	if hold != nil {
		<-hold
	}
	if err != nil {
		return err
	}
	return s.Store.Update(ctx, path, fields)
}

func (s *countingStore) Delete(ctx context.Context, path string) error {
	s.mu.Lock()
	s.deletes++
	err := s.failDelete
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.Store.Delete(ctx, path)
}

func (s *countingStore) counts() (int, int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creates, s.updates, s.deletes
}

type harness struct {
	t      *testing.T
	store  *countingStore
	hub    *notify.Hub
	ui     *fakeUI
	holder *auth.Holder
	view   *View
	cancel context.CancelFunc
	done   chan error
}

var (
	alice = auth.User{UID: "alice", DisplayName: "Alice"}
	bob   = auth.User{UID: "bob", Email: "bob@x.io"}
)

func newHarness(t *testing.T, user *auth.User) *harness {
	t.Helper()

	hub := notify.NewHub()
	st := &countingStore{Store: memory.New(hub)}
	ui := &fakeUI{answer: true}
	holder := auth.NewHolder(user)

	v := New(Deps{
		Feed:         live.New(st, domain.WindowSize),
		Actions:      application.New(st, nil),
		User:         holder,
		Auth:         holder,
		UI:           ui,
		WriteTimeout: time.Second,
	})

	ctx, cancel := context.WithCancel(context.Background())
	h := &harness{t: t, store: st, hub: hub, ui: ui, holder: holder, view: v, cancel: cancel, done: make(chan error, 1)}
	go func() { h.done <- v.Run(ctx) }()

	t.Cleanup(func() {
		cancel()
		<-v.Done()
		v.Wait()
	})
	return h
}

// seed writes a message straight to the store, as another client would.
func (h *harness) seed(author auth.User, text string, ts int64) string {
	h.t.Helper()
	rec := domain.NewRecord(text, author.Author(), time.UnixMilli(ts))
	id, err := h.store.Store.Create(context.Background(), domain.Collection, rec)
	require.NoError(h.t, err)
	return id
}

func (h *harness) eventually(cond func(State) bool, msg string) State {
	h.t.Helper()
	require.Eventually(h.t, func() bool { return cond(h.ui.last()) }, waitFor, 5*time.Millisecond, msg)
	return h.ui.last()
}

func (h *harness) loaded(n int) State {
	h.t.Helper()
	return h.eventually(func(s State) bool { return s.Loaded && len(s.Messages) == n }, "snapshot never arrived")
}

func TestViewShowsEmptyStateThenLiveMessages(t *testing.T) {
	h := newHarness(t, &alice)

	st := h.loaded(0)
	assert.True(t, st.Empty)
	assert.Equal(t, "alice", st.UserID)

	h.seed(bob, "hi from bob", 1000)
	st = h.loaded(1)
	assert.False(t, st.Empty)
	assert.Equal(t, "bob", st.Messages[0].AuthorName)
	assert.False(t, st.Messages[0].Mine)
}

func TestViewSendAppearsAndClearsCompose(t *testing.T) {
	h := newHarness(t, &alice)
	h.loaded(0)

	h.view.Compose("hello")
	h.view.Send()

	st := h.eventually(func(s State) bool { return len(s.Messages) == 1 && s.Compose == "" && !s.Sending }, "sent message never rendered")
	msg := st.Messages[0]
	assert.Equal(t, "hello", msg.Text)
	assert.Equal(t, "Alice", msg.AuthorName)
	assert.True(t, msg.Mine)
	assert.False(t, msg.Edited)
	assert.NotZero(t, msg.Timestamp)
}

func TestViewBlankSendIsIgnored(t *testing.T) {
	h := newHarness(t, &alice)
	h.loaded(0)

	h.view.Compose("   ")
	h.view.Send()
	h.view.Compose("done")
	h.eventually(func(s State) bool { return s.Compose == "done" }, "compose never rendered")

	creates, _, _ := h.store.counts()
	assert.Zero(t, creates)
	assert.Empty(t, h.ui.alertList())
}

func TestViewSendFailureAlertsAndKeepsDraft(t *testing.T) {
	h := newHarness(t, &alice)
	h.loaded(0)
	h.store.failCreate = errors.New("permission denied")

	h.view.Compose("hello")
	h.view.Send()

	require.Eventually(t, func() bool { return len(h.ui.alertList()) == 1 }, waitFor, 5*time.Millisecond)
	assert.Equal(t, []string{AlertSendFailed}, h.ui.alertList())
	st := h.eventually(func(s State) bool { return !s.Sending }, "sending flag never cleared")
	assert.Equal(t, "hello", st.Compose)
}

func TestViewEditFlow(t *testing.T) {
	h := newHarness(t, &alice)
	id := h.seed(alice, "helo", 1000)
	h.loaded(1)

	h.view.StartEdit(id)
	h.eventually(func(s State) bool { return s.Edit != nil && s.Edit.DraftText == "helo" }, "edit never started")

	h.view.ChangeDraft("hello")
	h.view.SaveEdit()

	st := h.eventually(func(s State) bool {
		return s.Edit == nil && len(s.Messages) == 1 && s.Messages[0].Text == "hello"
	}, "edit never saved")
	msg := st.Messages[0]
	assert.True(t, msg.Edited)
	assert.NotZero(t, msg.EditedAt)
	assert.Equal(t, id, msg.ID)
	assert.Equal(t, "alice", msg.AuthorID)
	assert.Equal(t, int64(1000), msg.Timestamp)
}

func TestViewBlankEditAlertsAndKeepsSession(t *testing.T) {
	h := newHarness(t, &alice)
	id := h.seed(alice, "hello", 1000)
	h.loaded(1)

	h.view.StartEdit(id)
	h.view.ChangeDraft("   ")
	h.view.SaveEdit()

	require.Eventually(t, func() bool { return len(h.ui.alertList()) == 1 }, waitFor, 5*time.Millisecond)
	assert.Equal(t, []string{AlertEmptyMessage}, h.ui.alertList())

	st := h.ui.last()
	require.NotNil(t, st.Edit)
	assert.Equal(t, Edit{MessageID: id, DraftText: "   "}, *st.Edit)
	_, updates, _ := h.store.counts()
	assert.Zero(t, updates)
}

func TestViewEditFailureKeepsSession(t *testing.T) {
	h := newHarness(t, &alice)
	id := h.seed(alice, "hello", 1000)
	h.loaded(1)
	h.store.failUp = errors.New("network")

	h.view.StartEdit(id)
	h.view.ChangeDraft("hello!")
	h.view.SaveEdit()

	require.Eventually(t, func() bool { return len(h.ui.alertList()) == 1 }, waitFor, 5*time.Millisecond)
	assert.Equal(t, []string{AlertUpdateFailed}, h.ui.alertList())
	st := h.eventually(func(s State) bool { return !s.Saving }, "saving flag never cleared")
	require.NotNil(t, st.Edit)
	assert.Equal(t, "hello!", st.Edit.DraftText)
}

func TestViewDraftIsFrozenWhileSaving(t *testing.T) {
	h := newHarness(t, &alice)
	id := h.seed(alice, "helo", 1000)
	h.loaded(1)
	release := make(chan struct{})
	h.store.mu.Lock()
	h.store.holdUp = release
	h.store.mu.Unlock()

	h.view.StartEdit(id)
	h.view.ChangeDraft("hello")
	h.view.SaveEdit()
	h.eventually(func(s State) bool { return s.Saving }, "save never started")

	h.view.ChangeDraft("changed mid-save")
	h.view.Compose("marker")
	st := h.eventually(func(s State) bool { return s.Compose == "marker" }, "compose never rendered")
	require.NotNil(t, st.Edit)
	assert.Equal(t, "hello", st.Edit.DraftText)

	close(release)
	st = h.eventually(func(s State) bool {
		return s.Edit == nil && !s.Saving && len(s.Messages) == 1 && s.Messages[0].Text == "hello"
	}, "edit never saved")
	assert.True(t, st.Messages[0].Edited)
}

func TestViewStartingSecondEditDiscardsFirstDraft(t *testing.T) {
	h := newHarness(t, &alice)
	a := h.seed(alice, "first", 1000)
	b := h.seed(alice, "second", 2000)
	h.loaded(2)

	h.view.StartEdit(a)
	h.view.ChangeDraft("first, edited")
	h.view.StartEdit(b)

	st := h.eventually(func(s State) bool { return s.Edit != nil && s.Edit.MessageID == b }, "second edit never started")
	assert.Equal(t, "second", st.Edit.DraftText)

	h.view.CancelEdit()
	st = h.eventually(func(s State) bool { return s.Edit == nil }, "edit never cancelled")
	assert.Equal(t, "first", st.Messages[0].Text)
	_, updates, _ := h.store.counts()
	assert.Zero(t, updates)
}

func TestViewIgnoresEditOfOthersMessages(t *testing.T) {
	h := newHarness(t, &alice)
	id := h.seed(bob, "bob's", 1000)
	h.loaded(1)

	h.view.StartEdit(id)
	h.view.Compose("marker")
	st := h.eventually(func(s State) bool { return s.Compose == "marker" }, "compose never rendered")
	assert.Nil(t, st.Edit)
}

func TestViewDeclinedDeleteIssuesNoRequest(t *testing.T) {
	h := newHarness(t, &alice)
	id := h.seed(alice, "keep me", 1000)
	h.loaded(1)
	h.ui.answer = false

	h.view.Delete(id)
	require.Eventually(t, func() bool { return len(h.ui.promptList()) == 1 }, waitFor, 5*time.Millisecond)
	h.view.Wait()

	assert.Equal(t, []string{ConfirmDelete}, h.ui.promptList())
	_, _, deletes := h.store.counts()
	assert.Zero(t, deletes)
	assert.Len(t, h.ui.last().Messages, 1)
}

func TestViewConfirmedDeleteRemovesMessage(t *testing.T) {
	h := newHarness(t, &alice)
	id := h.seed(alice, "bye", 1000)
	h.seed(bob, "stay", 2000)
	h.loaded(2)

	h.view.Delete(id)

	st := h.loaded(1)
	assert.Equal(t, "stay", st.Messages[0].Text)
}

func TestViewDeleteFailureAlerts(t *testing.T) {
	h := newHarness(t, &alice)
	id := h.seed(alice, "bye", 1000)
	h.loaded(1)
	h.store.failDelete = errors.New("denied")

	h.view.Delete(id)

	require.Eventually(t, func() bool { return len(h.ui.alertList()) == 1 }, waitFor, 5*time.Millisecond)
	assert.Equal(t, []string{AlertDeleteFailed}, h.ui.alertList())
	assert.Len(t, h.ui.last().Messages, 1)
}

func TestViewSignOutNavigatesAndStops(t *testing.T) {
	h := newHarness(t, &alice)
	h.loaded(0)

	h.view.SignOut()

	select {
	case err := <-h.done:
		require.NoError(t, err)
	case <-time.After(waitFor):
		t.Fatal("view did not stop after sign out")
	}
	assert.Equal(t, []string{RouteLanding}, h.ui.routeList())
	_, ok := h.holder.Current()
	assert.False(t, ok)
	assert.Zero(t, h.hub.Subscribers(domain.Collection))
}

func TestViewWithoutUserNavigatesToLanding(t *testing.T) {
	h := newHarness(t, nil)

	select {
	case <-h.done:
	case <-time.After(waitFor):
		t.Fatal("view did not stop")
	}
	assert.Equal(t, []string{RouteLanding}, h.ui.routeList())
}

func TestViewRunTwice(t *testing.T) {
	h := newHarness(t, &alice)
	h.loaded(0)

	assert.ErrorIs(t, h.view.Run(context.Background()), ErrAlreadyRunning)
}
