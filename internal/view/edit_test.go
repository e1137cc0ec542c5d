package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEditSessionSingleSlot(t *testing.T) {
	var s EditSession

	assert.False(t, s.SetDraft("ignored"))
	_, ok := s.Active()
	assert.False(t, ok)

	s.Start("a", "draft A")
	assert.True(t, s.SetDraft("draft A2"))

	s.Start("b", "text B")
	edit, ok := s.Active()
	assert.True(t, ok)
	assert.Equal(t, Edit{MessageID: "b", DraftText: "text B"}, edit)
	assert.False(t, s.Editing("a"))

	s.Cancel()
	_, ok = s.Active()
	assert.False(t, ok)
}

func TestEditSessionActiveReturnsCopy(t *testing.T) {
	var s EditSession
	s.Start("a", "x")

	edit, _ := s.Active()
	edit.DraftText = "changed"

	current, _ := s.Active()
	assert.Equal(t, "x", current.DraftText)
}
