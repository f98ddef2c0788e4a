package session

import (
	"context"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/golang-jwt/jwt/v5"
)

const (
	defaultCheckInterval   = 10 * time.Minute
	defaultExpiryThreshold = 5 * time.Minute
)

// Exchanger trades a refresh token for a new credential pair.
type Exchanger interface {
	ExchangeRefreshToken(ctx context.Context, refreshToken string) (access string, refresh string, err error)
}

// Refresher keeps the access credential fresh in the background. While a user
// is present it checks on a fixed interval whether the access token is within
// the expiry threshold and, if so, exchanges the refresh token transparently.
// A failed exchange forces a logout.
type Refresher struct {
	store     *Store
	vault     *Vault
	exchange  Exchanger
	interval  time.Duration
	threshold time.Duration
	logger    apt.Logger
	now       func() time.Time
	cancel    context.CancelFunc
}

func NewRefresher(store *Store, vault *Vault, exchange Exchanger, logger apt.Logger) *Refresher {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Refresher{
		store:     store,
		vault:     vault,
		exchange:  exchange,
		interval:  defaultCheckInterval,
		threshold: defaultExpiryThreshold,
		logger:    logger,
		now:       time.Now,
	}
}

// Start launches the background check loop. It checks once immediately and
// then on every interval tick; it never blocks the caller.
func (r *Refresher) Start(ctx context.Context) error {
	loopCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	go func() {
		r.CheckOnce(loopCtx)

		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-loopCtx.Done():
				return
			case <-ticker.C:
				r.CheckOnce(loopCtx)
			}
		}
	}()

	return nil
}

func (r *Refresher) Stop(context.Context) error {
	if r.cancel != nil {
		r.cancel()
	}
	return nil
}

// CheckOnce performs a single freshness check. Exported so the loop and tests
// share the same path.
func (r *Refresher) CheckOnce(ctx context.Context) {
	if r.store.CurrentUser() == nil {
		return
	}

	access := r.vault.AccessToken()
	refresh := r.vault.RefreshToken()
	if access == "" || refresh == "" {
		r.logger.Info("session has no credential pair, forcing logout")
		r.store.Logout()
		return
	}

	if !ExpiringSoon(access, r.threshold, r.now()) {
		return
	}

	newAccess, newRefresh, err := r.exchange.ExchangeRefreshToken(ctx, refresh)
	if err != nil {
		r.logger.Error("token refresh failed, forcing logout", "error", err)
		r.store.Logout()
		return
	}

	r.vault.SetTokens(newAccess, newRefresh)
	r.logger.Info("access token refreshed")
}

// ExpiringSoon reports whether the token's exp claim falls within the
// threshold. The token is backend-issued and the client holds no signing
// secret, so the claim is read without verification; an unreadable or
// missing claim counts as expiring.
func ExpiringSoon(token string, threshold time.Duration, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return exp.Time.Sub(now) <= threshold
}
