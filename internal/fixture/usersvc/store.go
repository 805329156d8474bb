package usersvc

import (
	"sync"
)

// User is a stored user.
type User struct {
	ID   string
	Name string
}

// Store keeps users in insertion order.
type Store struct {
	mu    sync.RWMutex
	order []string
	users map[string]*User
}

// NewStore creates a store holding the given users.
func NewStore(users ...*User) *Store {
	s := &Store{users: map[string]*User{}}
	for _, u := range users {
		s.Put(u)
	}
	return s
}

// Get returns a user by id.
func (s *Store) Get(id string) (*User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	return u, ok
}

// Put adds or replaces a user.
func (s *Store) Put(u *User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[u.ID]; !ok {
		s.order = append(s.order, u.ID)
	}
	s.users[u.ID] = u
}

// List returns users in insertion order.
func (s *Store) List() []*User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]*User, 0, len(s.order))
	for _, id := range s.order {
		res = append(res, s.users[id])
	}
	return res
}

// Len returns the number of users.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.order)
}
