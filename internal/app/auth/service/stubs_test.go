package service_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	customErrors "github.com/Miraines/hoops-auth/internal/domain/auth/errors"
	"github.com/Miraines/hoops-auth/internal/domain/auth/model"
)

/* ──────────────────────────────── user repo ──────────────────────────────── */

type userRepoStub struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]model.User

	failAll error
}

func newUserRepoStub() *userRepoStub {
	return &userRepoStub{users: make(map[int64]model.User)}
}

func (u *userRepoStub) CreateUser(_ context.Context, m *model.User) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.failAll != nil {
		return u.failAll
	}
	for _, v := range u.users {
		if v.Email == m.Email || v.Nickname == m.Nickname ||
			(m.GoogleID != nil && v.GoogleID != nil && *v.GoogleID == *m.GoogleID) {
			return customErrors.ErrAlreadyExists
		}
	}
	u.nextID++
	m.ID = u.nextID
	m.CreatedAt = time.Now()
	m.UpdatedAt = m.CreatedAt
	u.users[m.ID] = *m
	return nil
}

func (u *userRepoStub) find(match func(model.User) bool) (model.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.failAll != nil {
		return model.User{}, u.failAll
	}
	for _, v := range u.users {
		if match(v) {
			return v, nil
		}
	}
	return model.User{}, customErrors.ErrNotFound
}

func (u *userRepoStub) GetUserByID(_ context.Context, id int64) (model.User, error) {
	return u.find(func(v model.User) bool { return v.ID == id })
}

func (u *userRepoStub) GetUserByEmail(_ context.Context, email string) (model.User, error) {
	return u.find(func(v model.User) bool { return v.Email == email })
}

func (u *userRepoStub) GetUserByGoogleID(_ context.Context, gid string) (model.User, error) {
	return u.find(func(v model.User) bool { return v.GoogleID != nil && *v.GoogleID == gid })
}

func (u *userRepoStub) UpdateUser(_ context.Context, m *model.User) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.failAll != nil {
		return u.failAll
	}
	if _, ok := u.users[m.ID]; !ok {
		return customErrors.ErrNotFound
	}
	m.UpdatedAt = time.Now()
	u.users[m.ID] = *m
	return nil
}

func (u *userRepoStub) exists(match func(model.User) bool) (bool, error) {
	_, err := u.find(match)
	if customErrors.IsNotFound(err) {
		return false, nil
	}
	return err == nil, err
}

func (u *userRepoStub) ExistsByEmail(_ context.Context, email string) (bool, error) {
	return u.exists(func(v model.User) bool { return v.Email == email })
}

func (u *userRepoStub) ExistsByNickname(_ context.Context, nickname string) (bool, error) {
	return u.exists(func(v model.User) bool { return v.Nickname == nickname })
}

func (u *userRepoStub) ExistsByGoogleID(_ context.Context, gid string) (bool, error) {
	return u.exists(func(v model.User) bool { return v.GoogleID != nil && *v.GoogleID == gid })
}

func (u *userRepoStub) delete(id int64) {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.users, id)
}

/* ──────────────────────────────── token store ──────────────────────────────── */

type tokenRepoStub struct {
	mu     sync.Mutex
	tokens map[int64]string
	ttls   map[int64]time.Duration
	puts   int

	failGet error
}

func newTokenRepoStub() *tokenRepoStub {
	return &tokenRepoStub{tokens: map[int64]string{}, ttls: map[int64]time.Duration{}}
}

func (t *tokenRepoStub) Put(_ context.Context, uid int64, token string, ttl time.Duration) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tokens[uid] = token
	t.ttls[uid] = ttl
	t.puts++
	return nil
}

func (t *tokenRepoStub) Get(_ context.Context, uid int64) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.failGet != nil {
		return "", t.failGet
	}
	v, ok := t.tokens[uid]
	if !ok {
		return "", customErrors.ErrNotFound
	}
	return v, nil
}

func (t *tokenRepoStub) Delete(_ context.Context, uid int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.tokens, uid)
	return nil
}

func (t *tokenRepoStub) stored(uid int64) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.tokens[uid]
	return v, ok
}

/* ──────────────────────────────── hasher ──────────────────────────────── */

// plainHasher keeps tests fast; the argon2id hasher has its own tests.
type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "hashed:" + p, nil }

func (plainHasher) Verify(p, h string) (bool, error) {
	if !strings.HasPrefix(h, "hashed:") {
		return false, errors.New("malformed hash")
	}
	return h == "hashed:"+p, nil
}

/* ──────────────────────────────── google ──────────────────────────────── */

type verifierStub struct {
	identities map[string]model.GoogleIdentity
	err        error
}

func (v *verifierStub) Verify(_ context.Context, raw string) (model.GoogleIdentity, error) {
	if v.err != nil {
		return model.GoogleIdentity{}, v.err
	}
	id, ok := v.identities[raw]
	if !ok {
		return model.GoogleIdentity{}, customErrors.ErrGoogleTokenInvalid
	}
	return id, nil
}
