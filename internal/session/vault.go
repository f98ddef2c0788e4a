package session

import (
	"errors"
	"sync"

	"github.com/pickupclub/storefront/internal/snapshot"
)

const vaultKey = "tokens"

type tokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Vault keeps the access/refresh credential pair, in memory and in its own
// persisted record so a restart does not sign the user out.
type Vault struct {
	mu        sync.RWMutex
	access    string
	refresh   string
	snapshots *snapshot.Store
}

func NewVault(snapshots *snapshot.Store) *Vault {
	return &Vault{snapshots: snapshots}
}

func (v *Vault) Hydrate() {
	v.mu.Lock()
	defer v.mu.Unlock()

	var p tokenPair
	err := v.snapshots.Load(vaultKey, &p)
	if errors.Is(err, snapshot.ErrNotFound) {
		return
	}
	if err != nil {
		_ = v.snapshots.Purge(vaultKey)
		return
	}
	v.access = p.AccessToken
	v.refresh = p.RefreshToken
}

func (v *Vault) AccessToken() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.access
}

func (v *Vault) RefreshToken() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.refresh
}

func (v *Vault) SetTokens(access, refresh string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.access = access
	v.refresh = refresh
	_ = v.snapshots.Save(vaultKey, tokenPair{AccessToken: access, RefreshToken: refresh})
}

// Clear wipes the pair from memory and from durable storage.
func (v *Vault) Clear() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.access = ""
	v.refresh = ""
	_ = v.snapshots.Purge(vaultKey)
}
