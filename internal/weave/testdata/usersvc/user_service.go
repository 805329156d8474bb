// Package usersvc is a small user service.
package usersvc

import (
	"context"
	"errors"
	"fmt"
	"iter"
)

// ErrNotFound is returned for unknown users.
var ErrNotFound = errors.New("user not found")

// ErrEmpty is returned when there is nothing to export.
var ErrEmpty = errors.New("no users")

// UserService manages users.
type UserService struct {
	store *Store
	audit *AuditLog
}

// NewUserService creates a service over the store.
func NewUserService(store *Store, audit *AuditLog) *UserService {
	return &UserService{store: store, audit: audit}
}

// GetUser returns a user by id.
func (s *UserService) GetUser(ctx context.Context, id string) (*User, error) {
	u, ok := s.store.Get(id)
	if !ok {
		return nil, fmt.Errorf("get user %s: %w", id, ErrNotFound)
	}
	return u, nil
}

// CreateUser stores a new user.
func (s *UserService) CreateUser(ctx context.Context, id, name string) (*User, error) {
	if err := s.validate(id, name); err != nil {
		return nil, err
	}

	u := &User{ID: id, Name: name}
	s.store.Put(u)
	s.audit.Record(ctx, "create "+id)
	return u, nil
}

// Rename changes a user name and returns the previous one.
func (s *UserService) Rename(ctx context.Context, id, name string) (prev string, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("rename: %w", err)
		}
	}()

	u, err := s.GetUser(ctx, id)
	if err != nil {
		return "", err
	}
	prev, u.Name = u.Name, name
	return
}

// MustGetUser is like GetUser but panics on error.
func (s *UserService) MustGetUser(id string) *User {
	u, err := s.GetUser(context.Background(), id)
	if err != nil {
		panic(err)
	}
	return u
}

// Count returns the number of users.
func (s *UserService) Count() int {
	return s.store.Len()
}

// Export streams all users through a buffered channel.
func (s *UserService) Export(ctx context.Context) (<-chan *User, error) {
	users := s.store.List()
	if len(users) == 0 {
		return nil, ErrEmpty
	}

	ch := make(chan *User, len(users))
	for _, u := range users {
		ch <- u
	}
	close(ch)
	return ch, nil
}

// Problems streams the validation result of every stored user.
func (s *UserService) Problems() <-chan error {
	users := s.store.List()
	ch := make(chan error, len(users))
	for _, u := range users {
		ch <- s.validate(u.ID, u.Name)
	}
	close(ch)
	return ch
}

// All iterates over users in insertion order.
func (s *UserService) All() iter.Seq[*User] {
	users := s.store.List()
	return func(yield func(*User) bool) {
		for _, u := range users {
			if !yield(u) {
				return
			}
		}
	}
}

// Names iterates over user ids and names.
func (s *UserService) Names(ctx context.Context) iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for u := range s.All() {
			if !yield(u.ID, u.Name) {
				return
			}
		}
	}
}

// Resolve looks users up by id, yielding an error for every unknown one.
func (s *UserService) Resolve(ctx context.Context, ids ...string) iter.Seq2[*User, error] {
	return func(yield func(*User, error) bool) {
		for _, id := range ids {
			if !yield(s.GetUser(ctx, id)) {
				return
			}
		}
	}
}

// Ping checks the service is alive.
//
//spanweave:ignore
func (s *UserService) Ping() error {
	return nil
}

func (s *UserService) String() string {
	return fmt.Sprintf("UserService(%d users)", s.store.Len())
}

func (s *UserService) validate(id, name string) error {
	if id == "" {
		return errors.New("empty id")
	}
	if name == "" {
		return fmt.Errorf("user %s: empty name", id)
	}
	return nil
}

// AuditLog records service events.
type AuditLog struct {
	entries []string
}

// Record appends an entry.
func (l *AuditLog) Record(ctx context.Context, entry string) {
	l.entries = append(l.entries, entry)
}

// Entries returns recorded entries.
func (l *AuditLog) Entries() []string {
	return l.entries
}
