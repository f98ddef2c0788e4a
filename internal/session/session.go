package session

import (
	"errors"
	"sync"

	"github.com/appetiteclub/apt"

	"github.com/pickupclub/storefront/internal/snapshot"
)

const snapshotKey = "session"

type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleOwner    Role = "OWNER"
	RoleChef     Role = "CHEF"
	RoleManager  Role = "MANAGER"
	RoleMaster   Role = "MASTER"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleOwner, RoleChef, RoleManager, RoleMaster:
		return true
	}
	return false
}

type User struct {
	ID            int64  `json:"id"`
	Username      string `json:"username"`
	Nickname      string `json:"nickname"`
	Role          Role   `json:"role"`
	Email         string `json:"email"`
	RoadAddress   string `json:"roadAddress"`
	AddressDetail string `json:"addressDetail"`
	Age           int    `json:"age"`
	Male          bool   `json:"male"`
}

// persisted is the durable subset of the session: user and the auth flag,
// nothing else.
type persisted struct {
	User            *User `json:"user"`
	IsAuthenticated bool  `json:"isAuthenticated"`
}

// Store holds the current identity. Invariant: IsAuthenticated is true
// exactly when a user is present. Gating logic must wait for Hydrated before
// trusting either value.
type Store struct {
	mu        sync.RWMutex
	user      *User
	authed    bool
	hydrated  bool
	snapshots *snapshot.Store
	vault     *Vault
	logger    apt.Logger
}

func NewStore(snapshots *snapshot.Store, vault *Vault, logger apt.Logger) *Store {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Store{snapshots: snapshots, vault: vault, logger: logger}
}

// Hydrate reads the persisted record back. A missing record leaves the store
// signed out; an unreadable or version-mismatched record is purged and
// treated the same. Either way the store becomes hydrated.
func (s *Store) Hydrate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.hydrated = true }()

	var p persisted
	err := s.snapshots.Load(snapshotKey, &p)
	if errors.Is(err, snapshot.ErrNotFound) {
		return
	}
	if err != nil {
		s.logger.Error("discarding unreadable session snapshot", "error", err)
		_ = s.snapshots.Purge(snapshotKey)
		return
	}
	if p.User == nil {
		_ = s.snapshots.Purge(snapshotKey)
		return
	}
	s.user = p.User
	s.authed = true
}

func (s *Store) Hydrated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hydrated
}

// SetUser sets the user and the auth flag together and persists the durable
// subset. A nil user signs the session out in memory without touching tokens;
// use Logout for the full teardown.
func (s *Store) SetUser(u *User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = u
	s.authed = u != nil
	s.hydrated = true

	if u == nil {
		_ = s.snapshots.Purge(snapshotKey)
		return
	}
	if err := s.snapshots.Save(snapshotKey, persisted{User: u, IsAuthenticated: true}); err != nil {
		s.logger.Error("cannot persist session", "error", err)
	}
}

// SignIn installs the user and the credential pair together. Without the
// tokens the vault stays empty and every backend call goes out anonymous,
// so logins must come through here rather than SetUser.
func (s *Store) SignIn(u *User, accessToken, refreshToken string) {
	s.SetUser(u)
	if s.vault != nil {
		s.vault.SetTokens(accessToken, refreshToken)
	}
}

// Logout clears the user, the auth flag, the stored credential tokens and the
// persisted session record.
func (s *Store) Logout() {
	s.mu.Lock()
	s.user = nil
	s.authed = false
	s.mu.Unlock()

	if s.vault != nil {
		s.vault.Clear()
	}
	_ = s.snapshots.Purge(snapshotKey)
}

func (s *Store) CurrentUser() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	cp := *s.user
	return &cp
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authed
}

// HasRole reports whether the current user's role is one of the given roles.
// Always false without a user.
func (s *Store) HasRole(roles ...Role) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return false
	}
	for _, role := range roles {
		if s.user.Role == role {
			return true
		}
	}
	return false
}
