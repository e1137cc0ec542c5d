package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SARVESHVARADKAR123/livechat/internal/view"
)

type recordingIntents struct {
	calls []string
}

func (r *recordingIntents) Compose(text string)     { r.calls = append(r.calls, "compose:"+text) }
func (r *recordingIntents) Send()                   { r.calls = append(r.calls, "send") }
func (r *recordingIntents) StartEdit(id string)     { r.calls = append(r.calls, "start_edit:"+id) }
func (r *recordingIntents) ChangeDraft(text string) { r.calls = append(r.calls, "draft:"+text) }
func (r *recordingIntents) SaveEdit()               { r.calls = append(r.calls, "save_edit") }
func (r *recordingIntents) CancelEdit()             { r.calls = append(r.calls, "cancel_edit") }
func (r *recordingIntents) Delete(id string)        { r.calls = append(r.calls, "delete:"+id) }
func (r *recordingIntents) SignOut()                { r.calls = append(r.calls, "sign_out") }

func TestDispatch(t *testing.T) {
	frames := []string{
		`{"type":"compose","text":"hi"}`,
		`{"type":"send"}`,
		`{"type":"start_edit","id":"m1"}`,
		`{"type":"draft","text":"fixed"}`,
		`{"type":"save_edit"}`,
		`{"type":"cancel_edit"}`,
		`{"type":"delete","id":"m2"}`,
		`{"type":"sign_out"}`,
	}
	v := &recordingIntents{}
	ui := NewViewUI(newTestSession("s1", "u1"))

	for _, raw := range frames {
		in, err := decodeIntent([]byte(raw))
		require.NoError(t, err)
		require.NoError(t, dispatch(v, ui, in))
	}

	assert.Equal(t, []string{
		"compose:hi", "send", "start_edit:m1", "draft:fixed",
		"save_edit", "cancel_edit", "delete:m2", "sign_out",
	}, v.calls)
}

func TestDispatch_Rejects(t *testing.T) {
	_, err := decodeIntent([]byte(`{not json`))
	assert.Error(t, err)

	in, err := decodeIntent([]byte(`{"type":"shout"}`))
	require.NoError(t, err)
	assert.ErrorIs(t, dispatch(&recordingIntents{}, nil, in), ErrUnknownIntent)
}

func TestViewUI_ConfirmRoundTrip(t *testing.T) {
	s := newTestSession("s1", "u1")
	ui := NewViewUI(s)

	result := make(chan bool, 1)
	go func() {
		ok, _ := ui.Confirm(context.Background(), view.ConfirmDelete)
		result <- ok
	}()

	var prompt Frame
	select {
	case raw := <-s.SendQueue:
		require.NoError(t, json.Unmarshal(raw, &prompt))
	case <-time.After(time.Second):
		t.Fatal("no confirm frame sent")
	}
	assert.Equal(t, FrameConfirm, prompt.Type)
	assert.Equal(t, view.ConfirmDelete, prompt.Message)
	require.NotEmpty(t, prompt.ID)

	// unknown ids are ignored
	ui.Resolve("nope", true)
	in, err := decodeIntent([]byte(`{"type":"confirm_reply","id":"` + prompt.ID + `","ok":true}`))
	require.NoError(t, err)
	require.NoError(t, dispatch(&recordingIntents{}, ui, in))

	select {
	case ok := <-result:
		assert.True(t, ok)
	case <-time.After(time.Second):
		t.Fatal("confirm did not resolve")
	}
}

func TestViewUI_ConfirmOnClosedSession(t *testing.T) {
	s := newTestSession("s1", "u1")
	s.Close()

	ok, err := NewViewUI(s).Confirm(context.Background(), view.ConfirmDelete)

	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestViewUI_NavigateCarriesPath(t *testing.T) {
	s := newTestSession("s1", "u1")

	NewViewUI(s).Navigate(view.RouteLanding)

	var f Frame
	require.NoError(t, json.Unmarshal(<-s.SendQueue, &f))
	assert.Equal(t, FrameNavigate, f.Type)
	assert.Equal(t, view.RouteLanding, f.Route)
	assert.Equal(t, "/", f.Path)
}
