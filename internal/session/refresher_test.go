package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pickupclub/storefront/internal/snapshot"
)

type mockExchanger struct {
	ExchangeFunc func(ctx context.Context, refreshToken string) (string, string, error)
	calls        int
}

func (m *mockExchanger) ExchangeRefreshToken(ctx context.Context, refreshToken string) (string, string, error) {
	m.calls++
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, refreshToken)
	}
	return "new-access", "new-refresh", nil
}

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func TestExpiringSoon(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	threshold := 5 * time.Minute

	tests := []struct {
		name  string
		token func(t *testing.T) string
		want  bool
	}{
		{
			name: "farFromExpiry",
			token: func(t *testing.T) string {
				return signedToken(t, jwt.MapClaims{"exp": now.Add(time.Hour).Unix()})
			},
			want: false,
		},
		{
			name: "withinThreshold",
			token: func(t *testing.T) string {
				return signedToken(t, jwt.MapClaims{"exp": now.Add(2 * time.Minute).Unix()})
			},
			want: true,
		},
		{
			name: "alreadyExpired",
			token: func(t *testing.T) string {
				return signedToken(t, jwt.MapClaims{"exp": now.Add(-time.Minute).Unix()})
			},
			want: true,
		},
		{
			name: "missingExpClaim",
			token: func(t *testing.T) string {
				return signedToken(t, jwt.MapClaims{"sub": "7"})
			},
			want: true,
		},
		{
			name:  "malformedToken",
			token: func(t *testing.T) string { return "not-a-jwt" },
			want:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpiringSoon(tt.token(t), threshold, now); got != tt.want {
				t.Errorf("ExpiringSoon() = %v, want %v", got, tt.want)
			}
		})
	}
}

func newRefresherFixture(t *testing.T, exchange *mockExchanger) (*Refresher, *Store, *Vault) {
	t.Helper()
	snapshots := snapshot.NewStore(t.TempDir())
	vault := NewVault(snapshots)
	store := NewStore(snapshots, vault, nil)
	return NewRefresher(store, vault, exchange, nil), store, vault
}

func TestRefresherSkipsWithoutUser(t *testing.T) {
	exchange := &mockExchanger{}
	r, _, vault := newRefresherFixture(t, exchange)
	vault.SetTokens("access", "refresh")

	r.CheckOnce(context.Background())

	if exchange.calls != 0 {
		t.Errorf("exchange called %d times without a user", exchange.calls)
	}
}

func TestRefresherLogsOutWithoutTokens(t *testing.T) {
	exchange := &mockExchanger{}
	r, store, _ := newRefresherFixture(t, exchange)
	store.SetUser(customer())

	r.CheckOnce(context.Background())

	if store.IsAuthenticated() {
		t.Error("session survived a check with no credential pair")
	}
	if exchange.calls != 0 {
		t.Errorf("exchange called %d times with no refresh token", exchange.calls)
	}
}

func TestRefresherLeavesFreshTokenAlone(t *testing.T) {
	exchange := &mockExchanger{}
	r, store, vault := newRefresherFixture(t, exchange)
	store.SetUser(customer())
	vault.SetTokens(signedToken(t, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}), "refresh")

	r.CheckOnce(context.Background())

	if exchange.calls != 0 {
		t.Errorf("exchange called %d times for a fresh token", exchange.calls)
	}
	if !store.IsAuthenticated() {
		t.Error("session lost despite a fresh token")
	}
}

func TestRefresherRefreshesExpiringToken(t *testing.T) {
	exchange := &mockExchanger{}
	r, store, vault := newRefresherFixture(t, exchange)
	store.SetUser(customer())
	vault.SetTokens(signedToken(t, jwt.MapClaims{"exp": time.Now().Add(time.Minute).Unix()}), "old-refresh")

	r.CheckOnce(context.Background())

	if exchange.calls != 1 {
		t.Fatalf("exchange called %d times, want 1", exchange.calls)
	}
	if vault.AccessToken() != "new-access" || vault.RefreshToken() != "new-refresh" {
		t.Errorf("pair = (%q, %q), want the exchanged one", vault.AccessToken(), vault.RefreshToken())
	}
	if !store.IsAuthenticated() {
		t.Error("session lost after a successful refresh")
	}
}

func TestRefresherForcesLogoutOnFailure(t *testing.T) {
	exchange := &mockExchanger{
		ExchangeFunc: func(context.Context, string) (string, string, error) {
			return "", "", errors.New("refresh token revoked")
		},
	}
	r, store, vault := newRefresherFixture(t, exchange)
	store.SetUser(customer())
	vault.SetTokens(signedToken(t, jwt.MapClaims{"exp": time.Now().Add(time.Minute).Unix()}), "refresh")

	r.CheckOnce(context.Background())

	if store.IsAuthenticated() {
		t.Error("session survived a failed refresh")
	}
	if vault.AccessToken() != "" || vault.RefreshToken() != "" {
		t.Error("failed refresh must clear the credential pair")
	}
}

func TestRefresherStartStop(t *testing.T) {
	exchange := &mockExchanger{}
	r, _, _ := newRefresherFixture(t, exchange)

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := r.Stop(context.Background()); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
}
