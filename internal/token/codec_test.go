package token

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"testing"
	"time"

	"github.com/heron-wellnest/auth-service/internal/config"
	"github.com/heron-wellnest/auth-service/pkg/util/errorutil"
)

func hs256Config() config.JWTConfig {
	return config.JWTConfig{
		Algorithm:       "HS256",
		Issuer:          "heron-wellnest-auth",
		Audience:        "heron-wellnest",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		Secret:          "test-secret",
	}
}

func mustCodec(t *testing.T, cfg config.JWTConfig) *Codec {
	t.Helper()
	codec, err := NewCodec(cfg)
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	return codec
}

func assertAppCode(t *testing.T, err error, want string) {
	t.Helper()
	var appErr *errorutil.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %v", err)
	}
	if appErr.Code != want {
		t.Fatalf("expected code %s, got %s", want, appErr.Code)
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	codec := mustCodec(t, hs256Config())

	onboarded := true
	program := "BS Computer Science"
	signed, err := codec.IssueAccess(AccessClaims{
		Role:           RoleStudent,
		Email:          "s@umak.edu.ph",
		Name:           "Student",
		IsOnboarded:    &onboarded,
		CollegeProgram: &program,
	})
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}

	claims, err := codec.VerifyAccess(signed)
	if err != nil {
		t.Fatalf("VerifyAccess: %v", err)
	}
	if claims.Role != RoleStudent {
		t.Errorf("role: got %s", claims.Role)
	}
	if claims.Email != "s@umak.edu.ph" {
		t.Errorf("email: got %s", claims.Email)
	}
	if claims.IsOnboarded == nil || !*claims.IsOnboarded {
		t.Error("is_onboarded: expected true")
	}
	if claims.CollegeProgram == nil || *claims.CollegeProgram != program {
		t.Error("college_program: expected set")
	}
	if claims.Issuer != "heron-wellnest-auth" {
		t.Errorf("issuer: got %s", claims.Issuer)
	}
	if claims.ID == "" {
		t.Error("jti: expected fresh ID")
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	codec := mustCodec(t, hs256Config())

	signed, err := codec.IssueRefresh("user-123")
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}

	claims, err := codec.VerifyRefresh(signed)
	if err != nil {
		t.Fatalf("VerifyRefresh: %v", err)
	}
	if claims.Subject != "user-123" {
		t.Errorf("subject: got %s", claims.Subject)
	}
	if claims.TokenType != TokenTypeRefresh {
		t.Errorf("typ: got %s", claims.TokenType)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	cfg := hs256Config()
	cfg.AccessTokenTTL = -time.Minute // outside the 2s leeway
	codec := mustCodec(t, cfg)

	signed, err := codec.IssueAccess(AccessClaims{Role: RoleAdmin})
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}

	_, err = codec.VerifyAccess(signed)
	assertAppCode(t, err, "TOKEN_EXPIRED")
}

func TestVerifyWrongSignature(t *testing.T) {
	signer := mustCodec(t, hs256Config())
	otherCfg := hs256Config()
	otherCfg.Secret = "a-different-secret"
	verifier := mustCodec(t, otherCfg)

	signed, err := signer.IssueAccess(AccessClaims{Role: RoleAdmin})
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}

	_, err = verifier.VerifyAccess(signed)
	assertAppCode(t, err, "TOKEN_SIGNATURE_INVALID")
}

func TestVerifyWrongIssuer(t *testing.T) {
	signer := mustCodec(t, hs256Config())
	otherCfg := hs256Config()
	otherCfg.Issuer = "someone-else"
	verifier := mustCodec(t, otherCfg)

	signed, err := signer.IssueAccess(AccessClaims{Role: RoleAdmin})
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}

	_, err = verifier.VerifyAccess(signed)
	assertAppCode(t, err, "TOKEN_CLAIM_INVALID")
}

func TestVerifyMalformedToken(t *testing.T) {
	codec := mustCodec(t, hs256Config())

	_, err := codec.VerifyAccess("not-a-token")
	assertAppCode(t, err, "TOKEN_MALFORMED")
}

func TestVerifyRefreshRejectsAccessToken(t *testing.T) {
	codec := mustCodec(t, hs256Config())

	signed, err := codec.IssueAccess(AccessClaims{Role: RoleStudent})
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}

	_, err = codec.VerifyRefresh(signed)
	assertAppCode(t, err, "TOKEN_TYPE_MISMATCH")
}

func TestVerifyAlgorithmMismatch(t *testing.T) {
	privPEM, pubPEM := generateRSAKeyPair(t)
	rsaCfg := hs256Config()
	rsaCfg.Algorithm = "RS256"
	rsaCfg.Secret = ""
	rsaCfg.PrivateKey = privPEM
	rsaCfg.PublicKey = pubPEM
	signer := mustCodec(t, rsaCfg)

	verifier := mustCodec(t, hs256Config())

	signed, err := signer.IssueAccess(AccessClaims{Role: RoleAdmin})
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}

	_, err = verifier.VerifyAccess(signed)
	assertAppCode(t, err, "TOKEN_ALGORITHM_MISMATCH")
}

func TestRS256RoundTrip(t *testing.T) {
	privPEM, pubPEM := generateRSAKeyPair(t)
	cfg := hs256Config()
	cfg.Algorithm = "RS256"
	cfg.Secret = ""
	cfg.PrivateKey = privPEM
	cfg.PublicKey = pubPEM
	codec := mustCodec(t, cfg)

	signed, err := codec.IssueRefresh("user-123")
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}
	claims, err := codec.VerifyRefresh(signed)
	if err != nil {
		t.Fatalf("VerifyRefresh: %v", err)
	}
	if claims.Subject != "user-123" {
		t.Errorf("subject: got %s", claims.Subject)
	}
}

func TestNewCodecFailsFast(t *testing.T) {
	missingSecret := hs256Config()
	missingSecret.Secret = ""
	if _, err := NewCodec(missingSecret); err == nil {
		t.Error("expected error for HS256 without secret")
	}

	missingKeys := hs256Config()
	missingKeys.Algorithm = "RS256"
	missingKeys.Secret = ""
	if _, err := NewCodec(missingKeys); err == nil {
		t.Error("expected error for RS256 without keys")
	}

	badAlg := hs256Config()
	badAlg.Algorithm = "ES512"
	if _, err := NewCodec(badAlg); err == nil {
		t.Error("expected error for unsupported algorithm")
	}
}

func TestDecodeUnsafeIgnoresSignature(t *testing.T) {
	signer := mustCodec(t, hs256Config())
	otherCfg := hs256Config()
	otherCfg.Secret = "a-different-secret"
	decoder := mustCodec(t, otherCfg)

	signed, err := signer.IssueAccess(AccessClaims{Role: RoleAdmin, Email: "a@umak.edu.ph"})
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}

	claims, err := decoder.DecodeUnsafe(signed)
	if err != nil {
		t.Fatalf("DecodeUnsafe: %v", err)
	}
	if claims["role"] != RoleAdmin {
		t.Errorf("role: got %v", claims["role"])
	}
	if claims["email"] != "a@umak.edu.ph" {
		t.Errorf("email: got %v", claims["email"])
	}
}

func generateRSAKeyPair(t *testing.T) (privPEM, pubPEM string) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate RSA key: %v", err)
	}

	privPEM = string(pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	}))

	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatalf("marshal public key: %v", err)
	}
	pubPEM = string(pem.EncodeToMemory(&pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: pubDER,
	}))
	return privPEM, pubPEM
}
