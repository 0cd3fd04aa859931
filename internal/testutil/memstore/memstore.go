// Package memstore is an in-memory stand-in for the PostgreSQL repository.
// It reports the same sentinel errors so service and handler tests exercise
// the real error paths without a database.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tagonlink/tagonlink/internal/model"
	"github.com/tagonlink/tagonlink/internal/repository"
)

// Store holds users and links behind a single mutex.
type Store struct {
	mu    sync.Mutex
	users map[string]*model.User
	links map[string]*model.Link
	clock time.Time

	// Err, when set, is returned by every method.
	Err error
}

// New returns an empty store.
func New() *Store {
	return &Store{
		users: make(map[string]*model.User),
		links: make(map[string]*model.Link),
		clock: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// tick returns strictly increasing timestamps so created_at ordering is stable.
func (s *Store) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	for _, u := range s.users {
		if u.Email == user.Email {
			return repository.ErrEmailExists
		}
	}

	user.CreatedAt = s.tick()
	stored := *user
	s.users[user.ID] = &stored
	return nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	for _, u := range s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s *Store) UpdateUserPassword(ctx context.Context, id, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	u, ok := s.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

// DeleteUser removes a user and cascades to their links.
func (s *Store) DeleteUser(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.users, id)
	for linkID, l := range s.links {
		if l.UserID == id {
			delete(s.links, linkID)
		}
	}
}

func (s *Store) ListLinksByOwner(ctx context.Context, ownerID string) ([]*model.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	links := make([]*model.Link, 0)
	for _, l := range s.links {
		if l.UserID == ownerID {
			copied := *l
			links = append(links, &copied)
		}
	}
	sort.Slice(links, func(i, j int) bool {
		return links[i].CreatedAt.After(links[j].CreatedAt)
	})
	return links, nil
}

func (s *Store) CreateLink(ctx context.Context, link *model.Link) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	if _, ok := s.users[link.UserID]; !ok {
		return repository.ErrOwnerNotFound
	}
	if _, ok := s.links[link.ID]; ok {
		return repository.ErrDuplicateLink
	}

	link.CreatedAt = s.tick()
	stored := *link
	s.links[link.ID] = &stored
	return nil
}

func (s *Store) GetLinkByID(ctx context.Context, id string) (*model.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	l, ok := s.links[id]
	if !ok {
		return nil, repository.ErrLinkNotFound
	}
	copied := *l
	return &copied, nil
}

func (s *Store) UpdateOwnedLink(ctx context.Context, link *model.Link) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	l, ok := s.links[link.ID]
	if !ok || l.UserID != link.UserID {
		return repository.ErrLinkNotFound
	}

	l.Title = link.Title
	l.URL = link.URL
	l.Description = link.Description
	l.Tags = link.Tags
	*link = *l
	return nil
}

func (s *Store) DeleteOwnedLink(ctx context.Context, id, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	l, ok := s.links[id]
	if !ok || l.UserID != ownerID {
		return repository.ErrLinkNotFound
	}
	delete(s.links, id)
	return nil
}

// Ping reports Err, mirroring a reachable or unreachable database.
func (s *Store) Ping(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Err
}

// MissingTables always reports a complete schema unless Err is set.
func (s *Store) MissingTables(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return nil, nil
}
