package users

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// InMemoryStore implements UserStore with a process-local map.
// Writers take the exclusive lock so each operation is atomic with respect to the whole store.
type InMemoryStore struct {
	mu    sync.RWMutex
	users map[int]User
}

// NewInMemoryStore creates a new, empty in-memory store
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		users: make(map[int]User),
	}
}

// CreateUser inserts a user unless its id is already present
func (s *InMemoryStore) CreateUser(ctx context.Context, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[user.ID]; exists {
		return NewUserAlreadyExistsError(user.ID)
	}

	s.users[user.ID] = *user
	return nil
}

// GetUser retrieves a copy of the user stored under id
func (s *InMemoryStore) GetUser(ctx context.Context, id int) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[id]
	if !exists {
		return nil, NewUserNotFoundError(id)
	}

	return &user, nil
}

// SearchUsers returns every user whose name contains name, ignoring case, ordered by id
func (s *InMemoryStore) SearchUsers(ctx context.Context, name string) ([]*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(name)
	matched := make([]*User, 0)
	for _, user := range s.users {
		if strings.Contains(strings.ToLower(user.Name), needle) {
			u := user
			matched = append(matched, &u)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ID < matched[j].ID
	})

	return matched, nil
}

// UpdateUser replaces the stored record that has the same id
func (s *InMemoryStore) UpdateUser(ctx context.Context, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[user.ID]; !exists {
		return NewUserNotFoundError(user.ID)
	}

	s.users[user.ID] = *user
	return nil
}

// DeleteUser removes a user
func (s *InMemoryStore) DeleteUser(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[id]; !exists {
		return NewUserNotFoundError(id)
	}

	delete(s.users, id)
	return nil
}

// CountUsers reports how many users are stored
func (s *InMemoryStore) CountUsers(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.users), nil
}
