package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	types "github.com/yungbote/adaptivequiz-backend/internal/domain"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/ctxutil"
)

func TestRegisterUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u, err := env.auth.RegisterUser(ctx, RegisterInput{Email: "  Alice@Example.com ", Password: "pw", Name: " Alice "})
	if err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	if u.ID == 0 || u.Email != "alice@example.com" || u.Name != "Alice" {
		t.Fatalf("unexpected user %+v", u)
	}
	if u.PreferredDifficulty != types.DifficultyMedium || u.IsAdmin {
		t.Fatalf("unexpected defaults %+v", u)
	}
	if u.Password == "pw" {
		t.Fatalf("password stored in clear")
	}

	_, err = env.auth.RegisterUser(ctx, RegisterInput{Email: "alice@example.com", Password: "other"})
	wantStatus(t, err, http.StatusBadRequest)
	wantMessage(t, err, "user already exists")

	_, err = env.auth.RegisterUser(ctx, RegisterInput{Email: "", Password: "pw"})
	wantMessage(t, err, "email and password required")

	_, err = env.auth.RegisterUser(ctx, RegisterInput{Email: "b@example.com", Password: "pw", PreferredDifficulty: "extreme"})
	wantStatus(t, err, http.StatusBadRequest)

	root, err := env.auth.RegisterUser(ctx, RegisterInput{Email: "root@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("RegisterUser(root): %v", err)
	}
	if !root.IsAdmin {
		t.Fatalf("expected ADMIN_EMAILS entry to be created as admin")
	}
}

func TestLoginAndVerifyToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u, _ := env.register(t, "bob@example.com")

	_, _, err := env.auth.LoginUser(ctx, "bob@example.com", "wrong")
	wantStatus(t, err, http.StatusUnauthorized)
	wantMessage(t, err, "invalid credentials")

	_, _, err = env.auth.LoginUser(ctx, "nobody@example.com", "secret")
	wantStatus(t, err, http.StatusUnauthorized)

	_, _, err = env.auth.LoginUser(ctx, "bob@example.com", "")
	wantStatus(t, err, http.StatusBadRequest)

	pair, got, err := env.auth.LoginUser(ctx, " BOB@example.com", "secret")
	if err != nil {
		t.Fatalf("LoginUser: %v", err)
	}
	if got.ID != u.ID || pair.AccessToken == "" || pair.RefreshToken == "" || pair.ExpiresIn != time.Hour {
		t.Fatalf("unexpected login result %+v %+v", pair, got)
	}

	// A second session gets its own distinct token row.
	pair2, _, err := env.auth.LoginUser(ctx, "bob@example.com", "secret")
	if err != nil {
		t.Fatalf("second LoginUser: %v", err)
	}
	if pair2.AccessToken == pair.AccessToken {
		t.Fatalf("expected distinct access tokens per login")
	}

	authed, err := env.auth.SetContextFromToken(ctx, pair.AccessToken)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	rd := ctxutil.GetRequestData(authed)
	if rd == nil || rd.UserID != u.ID || rd.TokenString != pair.AccessToken || rd.IsAdmin {
		t.Fatalf("unexpected request data %+v", rd)
	}

	_, err = env.auth.SetContextFromToken(ctx, "not-a-jwt")
	wantStatus(t, err, http.StatusUnauthorized)
}

func TestLogoutRevokesToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "carol@example.com")

	pair, _, err := env.auth.LoginUser(ctx, "carol@example.com", "secret")
	if err != nil {
		t.Fatalf("LoginUser: %v", err)
	}
	authed, err := env.auth.SetContextFromToken(ctx, pair.AccessToken)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	if err := env.auth.LogoutUser(authed); err != nil {
		t.Fatalf("LogoutUser: %v", err)
	}
	_, err = env.auth.SetContextFromToken(ctx, pair.AccessToken)
	wantStatus(t, err, http.StatusUnauthorized)
	wantMessage(t, err, "token revoked")
}

func TestRefreshUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "dave@example.com")

	pair, _, err := env.auth.LoginUser(ctx, "dave@example.com", "secret")
	if err != nil {
		t.Fatalf("LoginUser: %v", err)
	}
	next, u, err := env.auth.RefreshUser(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshUser: %v", err)
	}
	if u.Email != "dave@example.com" || next.RefreshToken == pair.RefreshToken {
		t.Fatalf("unexpected refresh result %+v", next)
	}
	if _, err := env.auth.SetContextFromToken(ctx, pair.AccessToken); err == nil {
		t.Fatalf("old access token should be revoked after refresh")
	}
	if _, err := env.auth.SetContextFromToken(ctx, next.AccessToken); err != nil {
		t.Fatalf("new access token rejected: %v", err)
	}
	_, _, err = env.auth.RefreshUser(ctx, pair.RefreshToken)
	wantStatus(t, err, http.StatusUnauthorized)

	// Expire the remaining session by moving the service clock forward.
	as := env.auth.(*authService)
	as.now = func() time.Time { return time.Now().Add(48 * time.Hour) }
	_, _, err = env.auth.RefreshUser(ctx, next.RefreshToken)
	wantStatus(t, err, http.StatusUnauthorized)
	wantMessage(t, err, "refresh token expired")
}

func TestPurgeExpiredTokens(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "erin@example.com")
	for i := 0; i < 2; i++ {
		if _, _, err := env.auth.LoginUser(ctx, "erin@example.com", "secret"); err != nil {
			t.Fatalf("LoginUser: %v", err)
		}
	}
	n, err := env.auth.PurgeExpiredTokens(ctx)
	if err != nil || n != 0 {
		t.Fatalf("PurgeExpiredTokens before expiry: n=%d err=%v", n, err)
	}
	env.auth.(*authService).now = func() time.Time { return time.Now().Add(25 * time.Hour) }
	n, err = env.auth.PurgeExpiredTokens(ctx)
	if err != nil || n != 2 {
		t.Fatalf("PurgeExpiredTokens after expiry: n=%d err=%v", n, err)
	}
}
