// Package session holds the identity of the logged in user.
package session

import (
	"sync"

	"project30/internal/model"
)

// Holder is safe for concurrent use. The zero value is logged out.
type Holder struct {
	mu   sync.RWMutex
	user *model.User
}

func NewHolder() *Holder {
	return &Holder{}
}

func (h *Holder) Set(u model.User) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.user = &u
}

func (h *Holder) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.user = nil
}

func (h *Holder) Current() (model.User, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.user == nil {
		return model.User{}, false
	}
	return *h.user, true
}

// UserID is empty when nobody is logged in.
func (h *Holder) UserID() string {
	u, _ := h.Current()
	return u.ID
}

func (h *Holder) IsLoggedIn() bool {
	_, ok := h.Current()
	return ok
}
