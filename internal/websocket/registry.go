package websocket

import "sync"

// Registry tracks open sessions per user. A user may have several tabs open.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]map[string]*Session),
	}
}

func (r *Registry) Add(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sessions[s.UserID] == nil {
		r.sessions[s.UserID] = make(map[string]*Session)
	}
	r.sessions[s.UserID][s.ID] = s
}

func (r *Registry) Remove(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if sessions, ok := r.sessions[s.UserID]; ok {
		delete(sessions, s.ID)
		if len(sessions) == 0 {
			delete(r.sessions, s.UserID)
		}
	}
}

func (r *Registry) GetUserSessions(userID string) []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*Session
	for _, s := range r.sessions[userID] {
		result = append(result, s)
	}
	return result
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, sessions := range r.sessions {
		n += len(sessions)
	}
	return n
}

// SignOutUser signs the user out of every open session. Each session's view
// reacts to the change by navigating to the landing route and stopping.
func (r *Registry) SignOutUser(userID string) int {
	sessions := r.GetUserSessions(userID)
	for _, s := range sessions {
		s.Holder.Clear()
	}
	return len(sessions)
}

func (r *Registry) CloseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, sessions := range r.sessions {
		for _, s := range sessions {
			s.CloseWithReason(1001, "server shutting down")
		}
	}
}
