package view

// Edit is the message being edited and its unsaved draft.
type Edit struct {
	MessageID string `json:"messageId"`
	DraftText string `json:"draftText"`
}

// EditSession holds at most one edit at a time. Snapshots never touch it.
type EditSession struct {
	current *Edit
}

// Start begins editing id with text as the draft, dropping any other draft.
func (s *EditSession) Start(id, text string) {
	s.current = &Edit{MessageID: id, DraftText: text}
}

// SetDraft replaces the draft. It does nothing when idle.
func (s *EditSession) SetDraft(text string) bool {
	if s.current == nil {
		return false
	}
	s.current.DraftText = text
	return true
}

func (s *EditSession) Cancel() {
	s.current = nil
}

func (s *EditSession) Active() (Edit, bool) {
	if s.current == nil {
		return Edit{}, false
	}
	return *s.current, true
}

func (s *EditSession) Editing(id string) bool {
	return s.current != nil && s.current.MessageID == id
}
