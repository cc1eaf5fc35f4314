package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"alcyxob/fitgen/internal/cache"
	"alcyxob/fitgen/internal/logger"
	"alcyxob/fitgen/internal/repository/memory"
)

const testSecret = "test-secret"

func newAuth(t *testing.T) (AuthService, *memory.Users, *cache.Memory) {
	t.Helper()
	users := memory.NewUsers()
	tokens := cache.NewMemory(100, time.Hour, time.Now)
	return NewAuthService(users, tokens, time.Minute, testSecret, time.Hour, logger.NewNop()), users, tokens
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, _ := newAuth(t)
	ctx := t.Context()

	user, err := svc.Register(ctx, "Ada", "Ada@Example.com", "hunter22")
	if err != nil {
		t.Fatal(err)
	}
	if user.ID.IsZero() || user.PasswordHash != "" {
		t.Errorf("registered user = %+v", user)
	}

	if _, err := svc.Register(ctx, "Ada again", "ada@example.com", "x"); !errors.Is(err, ErrUserAlreadyExists) {
		t.Errorf("duplicate register err = %v, want %v", err, ErrUserAlreadyExists)
	}

	if _, _, err := svc.Login(ctx, "ada@example.com", "wrong"); !errors.Is(err, ErrAuthenticationFailed) {
		t.Errorf("bad password err = %v, want %v", err, ErrAuthenticationFailed)
	}
	if _, _, err := svc.Login(ctx, "nobody@example.com", "hunter22"); !errors.Is(err, ErrAuthenticationFailed) {
		t.Errorf("unknown email err = %v, want %v", err, ErrAuthenticationFailed)
	}

	token, logged, err := svc.Login(ctx, "ADA@example.com", "hunter22")
	if err != nil {
		t.Fatal(err)
	}
	if logged.ID != user.ID {
		t.Errorf("login user = %s, want %s", logged.ID.Hex(), user.ID.Hex())
	}

	id, err := svc.VerifyToken(ctx, token)
	if err != nil {
		t.Fatal(err)
	}
	if id.UserID != user.ID.Hex() || id.Email != "ada@example.com" {
		t.Errorf("identity = %+v", id)
	}
}

func TestRegister_RequiresFields(t *testing.T) {
	svc, _, _ := newAuth(t)
	if _, err := svc.Register(t.Context(), " ", "a@b.c", "pw"); !errors.Is(err, ErrInvalidRegistration) {
		t.Errorf("err = %v, want %v", err, ErrInvalidRegistration)
	}
}

func TestVerifyToken_Rejects(t *testing.T) {
	svc, _, _ := newAuth(t)
	ctx := t.Context()
	user, err := svc.Register(ctx, "Ada", "ada@example.com", "pw")
	if err != nil {
		t.Fatal(err)
	}

	sign := func(secret string, claims jwtClaims, method jwt.SigningMethod) string {
		tok, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
		if err != nil {
			t.Fatal(err)
		}
		return tok
	}
	valid := jwtClaims{UserID: user.ID.Hex(), RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	expired := valid
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	unknown := valid
	unknown.UserID = "64b000000000000000000000"
	noUser := valid
	noUser.UserID = ""

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-jwt"},
		{"wrong secret", sign("other", valid, jwt.SigningMethodHS256)},
		{"expired", sign(testSecret, expired, jwt.SigningMethodHS256)},
		{"unknown user", sign(testSecret, unknown, jwt.SigningMethodHS256)},
		{"missing uid", sign(testSecret, noUser, jwt.SigningMethodHS256)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.VerifyToken(ctx, tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("err = %v, want %v", err, ErrInvalidToken)
			}
		})
	}
}

func TestVerifyToken_Caches(t *testing.T) {
	svc, _, tokens := newAuth(t)
	ctx := t.Context()
	if _, err := svc.Register(ctx, "Ada", "ada@example.com", "pw"); err != nil {
		t.Fatal(err)
	}
	token, _, err := svc.Login(ctx, "ada@example.com", "pw")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.VerifyToken(ctx, token); err != nil {
		t.Fatal(err)
	}
	if tokens.Len() != 1 {
		t.Fatalf("cached tokens = %d, want 1", tokens.Len())
	}
	raw, ok, _ := tokens.Get(ctx, tokenCacheKey(token))
	if !ok || len(raw) == 0 {
		t.Fatal("token not cached under its hash")
	}
	if _, err := svc.VerifyToken(ctx, token); err != nil {
		t.Errorf("cached verify: %v", err)
	}
}
