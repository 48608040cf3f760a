package token

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func testConfig() Config {
	return Config{
		Secret:     []byte("0123456789abcdef0123456789abcdef"),
		Issuer:     "droid-deploy",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 14 * 24 * time.Hour,
	}
}

func newTestEngine(t *testing.T, config Config) *Engine {
	t.Helper()

	engine, err := New(config)
	if err != nil {
		t.Fatal(err)
	}

	return engine
}

func TestConfig_Validate(t *testing.T) {
	valid := testConfig()
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := map[string]func(*Config){
		"short secret":       func(c *Config) { c.Secret = []byte("short") },
		"empty issuer":       func(c *Config) { c.Issuer = "" },
		"zero access ttl":    func(c *Config) { c.AccessTTL = 0 },
		"refresh equals ttl": func(c *Config) { c.RefreshTTL = c.AccessTTL },
		"refresh below ttl":  func(c *Config) { c.RefreshTTL = time.Minute },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			config := testConfig()
			mutate(&config)
			if err := config.Validate(); err == nil {
				t.Errorf("expected validation error")
			}
			if _, err := New(config); err == nil {
				t.Errorf("expected New to fail")
			}
		})
	}
}

func TestEngine_AccessTokenRoundTrip(t *testing.T) {
	engine := newTestEngine(t, testConfig())
	userID := uuid.New()

	issued, err := engine.IssueAccessToken(userID, "ADMIN", 3)
	if err != nil {
		t.Fatal(err)
	}

	claims, err := engine.Validate(issued.Token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	if id, ok := claims.SubjectUserID(); !ok || id != userID {
		t.Errorf("unexpected subject user id: %v %v", id, ok)
	}
	if _, ok := claims.SubjectApplicationID(); ok {
		t.Errorf("user token must not yield an application id")
	}
	if role, ok := claims.RoleName(); !ok || role != "ADMIN" {
		t.Errorf("unexpected role: %q", role)
	}
	if typ, ok := claims.Type(); !ok || typ != TypeAccess {
		t.Errorf("unexpected token type: %q", typ)
	}
	if version, ok := claims.Version(); !ok || version != 3 {
		t.Errorf("unexpected token version: %d %v", version, ok)
	}
	if claims.Issuer != "droid-deploy" {
		t.Errorf("unexpected issuer: %s", claims.Issuer)
	}
	if d := time.Until(issued.ExpiresAt); d <= 14*time.Minute || d > 15*time.Minute {
		t.Errorf("unexpected access expiry: %s", d)
	}
}

func TestEngine_RefreshTokenRoundTrip(t *testing.T) {
	engine := newTestEngine(t, testConfig())
	userID := uuid.New()

	access, err := engine.IssueAccessToken(userID, "ADMIN", 0)
	if err != nil {
		t.Fatal(err)
	}
	refresh, err := engine.IssueRefreshToken(userID, "ADMIN", 0)
	if err != nil {
		t.Fatal(err)
	}

	if !refresh.ExpiresAt.After(access.ExpiresAt) {
		t.Errorf("expected refresh token to outlive access token")
	}

	claims, err := engine.Validate(refresh.Token)
	if err != nil {
		t.Fatal(err)
	}
	if typ, _ := claims.Type(); typ != TypeRefresh {
		t.Errorf("unexpected token type: %q", typ)
	}
	if version, ok := claims.Version(); !ok || version != 0 {
		t.Errorf("expected explicit zero version, got %d %v", version, ok)
	}
}

func TestEngine_APIKeyAccessToken(t *testing.T) {
	engine := newTestEngine(t, testConfig())
	applicationID := uuid.New()

	issued, err := engine.IssueAPIKeyAccessToken(applicationID, "CI")
	if err != nil {
		t.Fatal(err)
	}

	claims, err := engine.Validate(issued.Token)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(claims.Subject, "apikey:") {
		t.Errorf("unexpected subject: %s", claims.Subject)
	}
	if id, ok := claims.SubjectApplicationID(); !ok || id != applicationID {
		t.Errorf("unexpected application id: %v %v", id, ok)
	}
	if _, ok := claims.SubjectUserID(); ok {
		t.Errorf("api key token must not yield a user id")
	}
	if _, ok := claims.Version(); ok {
		t.Errorf("api key token must not carry a token version")
	}
	if claims.ApplicationID != applicationID.String() {
		t.Errorf("missing applicationId claim")
	}
}

func TestEngine_ValidateRejects(t *testing.T) {
	config := testConfig()
	engine := newTestEngine(t, config)

	good, err := engine.IssueAccessToken(uuid.New(), "ADMIN", 0)
	if err != nil {
		t.Fatal(err)
	}

	otherIssuer := config
	otherIssuer.Issuer = "someone-else"
	foreign, err := newTestEngine(t, otherIssuer).IssueAccessToken(uuid.New(), "ADMIN", 0)
	if err != nil {
		t.Fatal(err)
	}

	otherSecret := config
	otherSecret.Secret = []byte("fedcba9876543210fedcba9876543210")
	forged, err := newTestEngine(t, otherSecret).IssueAccessToken(uuid.New(), "ADMIN", 0)
	if err != nil {
		t.Fatal(err)
	}

	past := newTestEngine(t, config)
	past.now = func() time.Time { return time.Now().Add(-time.Hour) }
	expired, err := past.IssueAccessToken(uuid.New(), "ADMIN", 0)
	if err != nil {
		t.Fatal(err)
	}

	parts := strings.Split(good.Token, ".")
	signature := []byte(parts[2])
	if signature[0] == 'A' {
		signature[0] = 'B'
	} else {
		signature[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(signature)

	noIssuer, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user:" + uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
		TokenType: string(TypeAccess),
	}).SignedString(config.Secret)
	if err != nil {
		t.Fatal(err)
	}

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    config.Issuer,
			Subject:   "user:" + uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatal(err)
	}

	tests := map[string]string{
		"wrong issuer":   foreign.Token,
		"wrong secret":   forged.Token,
		"expired":        expired.Token,
		"tampered":       tampered,
		"missing issuer": noIssuer,
		"none algorithm": noneAlg,
		"garbage":        "not-a-token",
		"empty":          "",
	}

	for name, tokenString := range tests {
		t.Run(name, func(t *testing.T) {
			claims, err := engine.Validate(tokenString)
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("expected ErrInvalidToken, got %v", err)
			}
			if err.Error() != ErrInvalidToken.Error() {
				t.Errorf("validation failure must not reveal its cause: %v", err)
			}
			if claims != nil {
				t.Errorf("expected no claims")
			}
		})
	}
}

func TestClaims_AccessorsOnMalformed(t *testing.T) {
	var nilClaims *Claims
	if _, ok := nilClaims.Type(); ok {
		t.Errorf("nil claims must yield no type")
	}
	if _, ok := nilClaims.SubjectUserID(); ok {
		t.Errorf("nil claims must yield no user id")
	}

	claims := &Claims{TokenType: "bogus"}
	claims.Subject = "user:not-a-uuid"
	if _, ok := claims.Type(); ok {
		t.Errorf("unknown token type must yield none")
	}
	if _, ok := claims.SubjectUserID(); ok {
		t.Errorf("malformed user id must yield none")
	}
	if _, ok := claims.RoleName(); ok {
		t.Errorf("absent role must yield none")
	}

	applicationID := uuid.New()
	fallback := &Claims{ApplicationID: applicationID.String()}
	fallback.Subject = "something-else"
	if id, ok := fallback.SubjectApplicationID(); !ok || id != applicationID {
		t.Errorf("expected applicationId claim fallback")
	}
}
