// Package memrepo implements the repository contracts in memory.  It
// enforces the same unique keys and cascades as the MySQL schema and
// returns the same sentinel errors, so services behave identically on
// top of it.  It backs the test harness and local demos.
package memrepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/codewithtechno/techno-hub/internal/model"
	"github.com/codewithtechno/techno-hub/internal/repository"
)

type token struct {
	userID  string
	expires time.Time
	revoked bool
}

type row[T any] struct {
	seq int
	val T
}

// DB is one in-memory database.  Use its fields as the individual repositories.
type DB struct {
	mu  sync.RWMutex
	seq int

	accounts      map[string]row[model.Account]
	emails        map[string]string
	tokens        map[string]token
	profiles      map[string]row[model.Profile]
	sprints       map[string]row[model.Sprint]
	events        map[string]row[model.Event]
	applications  map[string]row[model.Application]
	registrations map[string]row[model.EventRegistration]

	Users         *UserRepo
	Tokens        *TokenRepo
	Profiles      *ProfileRepo
	Sprints       *SprintRepo
	Events        *EventRepo
	Applications  *ApplicationRepo
	Registrations *RegistrationRepo
}

// New returns an empty database.
func New() *DB {
	db := &DB{
		accounts:      map[string]row[model.Account]{},
		emails:        map[string]string{},
		tokens:        map[string]token{},
		profiles:      map[string]row[model.Profile]{},
		sprints:       map[string]row[model.Sprint]{},
		events:        map[string]row[model.Event]{},
		applications:  map[string]row[model.Application]{},
		registrations: map[string]row[model.EventRegistration]{},
	}
	db.Users = &UserRepo{db}
	db.Tokens = &TokenRepo{db}
	db.Profiles = &ProfileRepo{db}
	db.Sprints = &SprintRepo{db}
	db.Events = &EventRepo{db}
	db.Applications = &ApplicationRepo{db}
	db.Registrations = &RegistrationRepo{db}
	return db
}

func (db *DB) next() int {
	db.seq++
	return db.seq
}

func sortedRows[T any](m map[string]row[T], less func(a, b row[T]) bool) []T {
	rows := make([]row[T], 0, len(m))
	for _, r := range m {
		rows = append(rows, r)
	}
	sort.Slice(rows, func(i, j int) bool { return less(rows[i], rows[j]) })
	out := make([]T, len(rows))
	for i, r := range rows {
		out[i] = r.val
	}
	return out
}

// newestFirst orders by creation time descending, insertion order breaking ties.
func newestFirst[T any](created func(T) time.Time) func(a, b row[T]) bool {
	return func(a, b row[T]) bool {
		ca, cb := created(a.val), created(b.val)
		if !ca.Equal(cb) {
			return ca.After(cb)
		}
		return a.seq > b.seq
	}
}

// UserRepo stores accounts.
type UserRepo struct{ db *DB }

func (r *UserRepo) Create(_ context.Context, a *model.Account) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	a.Email = repository.NormalizeEmail(a.Email)
	if _, taken := r.db.emails[a.Email]; taken {
		return repository.ErrEmailExists
	}
	if _, taken := r.db.accounts[a.ID]; taken {
		return repository.ErrDuplicate
	}
	r.db.accounts[a.ID] = row[model.Account]{r.db.next(), *a}
	r.db.emails[a.Email] = a.ID
	return nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (model.Account, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	id, ok := r.db.emails[repository.NormalizeEmail(email)]
	if !ok {
		return model.Account{}, repository.ErrNotFound
	}
	return r.db.accounts[id].val, nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (model.Account, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	a, ok := r.db.accounts[id]
	if !ok {
		return model.Account{}, repository.ErrNotFound
	}
	return a.val, nil
}

// SetRole changes an account's role.  Roles are assigned outside the API,
// so this exists for seeding.
func (r *UserRepo) SetRole(id, role string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	a, ok := r.db.accounts[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.val.Role = role
	r.db.accounts[id] = a
	return nil
}

// TokenRepo stores refresh token hashes.
type TokenRepo struct{ db *DB }

func (r *TokenRepo) StoreRefresh(_ context.Context, userID, tokenHash string, exp time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.tokens[tokenHash]; ok {
		return repository.ErrDuplicate
	}
	r.db.tokens[tokenHash] = token{userID: userID, expires: exp}
	return nil
}

func (r *TokenRepo) ValidateRefresh(_ context.Context, tokenHash string) (string, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	t, ok := r.db.tokens[tokenHash]
	if !ok || t.revoked || time.Now().UTC().After(t.expires) {
		return "", repository.ErrNotFound
	}
	return t.userID, nil
}

func (r *TokenRepo) RevokeByHash(_ context.Context, tokenHash string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if t, ok := r.db.tokens[tokenHash]; ok {
		t.revoked = true
		r.db.tokens[tokenHash] = t
	}
	return nil
}

func (r *TokenRepo) RevokeAllForUser(_ context.Context, userID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for h, t := range r.db.tokens {
		if t.userID == userID {
			t.revoked = true
			r.db.tokens[h] = t
		}
	}
	return nil
}

// ProfileRepo stores profiles keyed by account.
type ProfileRepo struct{ db *DB }

func (r *ProfileRepo) Create(_ context.Context, p *model.Profile) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.profiles[p.UserID]; ok {
		return repository.ErrDuplicate
	}
	r.db.profiles[p.UserID] = row[model.Profile]{r.db.next(), *p}
	return nil
}

func (r *ProfileRepo) Get(_ context.Context, userID string) (model.Profile, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	p, ok := r.db.profiles[userID]
	if !ok {
		return model.Profile{}, repository.ErrNotFound
	}
	return p.val, nil
}

func (r *ProfileRepo) Update(_ context.Context, p *model.Profile) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cur, ok := r.db.profiles[p.UserID]
	if !ok {
		return repository.ErrNotFound
	}
	next := *p
	next.Email = cur.val.Email
	next.CreatedAt = cur.val.CreatedAt
	r.db.profiles[p.UserID] = row[model.Profile]{cur.seq, next}
	return nil
}

func (r *ProfileRepo) GetMany(_ context.Context, userIDs []string) (map[string]model.Profile, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make(map[string]model.Profile, len(userIDs))
	for _, id := range userIDs {
		if p, ok := r.db.profiles[id]; ok {
			out[id] = p.val
		}
	}
	return out, nil
}

func (r *ProfileRepo) Count(context.Context) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return len(r.db.profiles), nil
}

// Delete removes a profile.  The API never does this; tests use it to
// model accounts whose profile row is missing.
func (r *ProfileRepo) Delete(userID string) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.profiles, userID)
}
