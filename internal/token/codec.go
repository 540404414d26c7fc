package token

import (
	"crypto/rsa"
	"errors"
	"os"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/heron-wellnest/auth-service/internal/config"
	"github.com/heron-wellnest/auth-service/pkg/util/errorutil"
)

// TokenTypeRefresh is the typ claim carried by refresh tokens.
const TokenTypeRefresh = "refresh"

// Refresh tokens stay minimal so the long-lived credential leaks no PII.
type RefreshClaims struct {
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// errAlgorithmMismatch marks tokens signed with a different algorithm than
// the codec is configured for.
var errAlgorithmMismatch = errors.New("token algorithm mismatch")

// Codec signs and verifies access and refresh tokens. Key material is loaded
// once at construction and is read-only afterwards, so a single Codec is safe
// for concurrent use.
type Codec struct {
	method       jwt.SigningMethod
	signingKey   any
	verifyingKey any
	issuer       string
	audience     string
	accessTTL    time.Duration
	refreshTTL   time.Duration
}

// NewCodec builds a codec for the configured algorithm. Missing key material
// is a fatal configuration error, not a runtime one.
func NewCodec(cfg config.JWTConfig) (*Codec, error) {
	c := &Codec{
		issuer:     cfg.Issuer,
		audience:   cfg.Audience,
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
	}

	switch cfg.Algorithm {
	case "HS256":
		if cfg.Secret == "" {
			return nil, errorutil.NewInternal("JWT_SECRET_MISSING", errors.New("JWT_SECRET is required for HS256"))
		}
		c.method = jwt.SigningMethodHS256
		secret := []byte(cfg.Secret)
		c.signingKey = secret
		c.verifyingKey = secret
	case "RS256":
		if cfg.PrivateKey == "" || cfg.PublicKey == "" {
			return nil, errorutil.NewInternal("JWT_KEYS_MISSING", errors.New("RS256 keys are required"))
		}
		privateKey, err := loadRSAPrivateKey(cfg.PrivateKey)
		if err != nil {
			return nil, errorutil.NewInternal("JWT_KEYS_MISSING", err)
		}
		publicKey, err := loadRSAPublicKey(cfg.PublicKey)
		if err != nil {
			return nil, errorutil.NewInternal("JWT_KEYS_MISSING", err)
		}
		c.method = jwt.SigningMethodRS256
		c.signingKey = privateKey
		c.verifyingKey = publicKey
	default:
		return nil, errorutil.NewInternal("JWT_ALGORITHM_INVALID", errors.New("unsupported JWT_ALGORITHM: "+cfg.Algorithm))
	}

	return c, nil
}

// IssueAccess signs the claim set with issuer, audience, issued-at, expiry
// and a fresh jti.
func (c *Codec) IssueAccess(claims AccessClaims) (string, error) {
	now := time.Now()
	claims.RegisteredClaims.Issuer = c.issuer
	claims.RegisteredClaims.Audience = jwt.ClaimStrings{c.audience}
	claims.RegisteredClaims.IssuedAt = jwt.NewNumericDate(now)
	claims.RegisteredClaims.ExpiresAt = jwt.NewNumericDate(now.Add(c.accessTTL))
	claims.RegisteredClaims.ID = uuid.NewString()

	return jwt.NewWithClaims(c.method, claims).SignedString(c.signingKey)
}

// IssueRefresh signs a refresh token for the subject with the same
// issuer/audience discipline and the refresh TTL.
func (c *Codec) IssueRefresh(subject string) (string, error) {
	now := time.Now()
	claims := RefreshClaims{
		TokenType: TokenTypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    c.issuer,
			Audience:  jwt.ClaimStrings{c.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.refreshTTL)),
			ID:        uuid.NewString(),
		},
	}

	return jwt.NewWithClaims(c.method, claims).SignedString(c.signingKey)
}

// RefreshTTL exposes the configured refresh token lifetime.
func (c *Codec) RefreshTTL() time.Duration {
	return c.refreshTTL
}

// VerifyAccess validates signature, issuer, audience and expiry of an access
// token and returns its claims.
func (c *Codec) VerifyAccess(tokenStr string) (*AccessClaims, error) {
	var claims AccessClaims
	if err := c.verify(tokenStr, &claims); err != nil {
		return nil, err
	}
	return &claims, nil
}

// VerifyRefresh validates a refresh token and checks its typ claim.
func (c *Codec) VerifyRefresh(tokenStr string) (*RefreshClaims, error) {
	var claims RefreshClaims
	if err := c.verify(tokenStr, &claims); err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeRefresh {
		return nil, errorutil.NewUnauthorized("TOKEN_TYPE_MISMATCH", "token is not a refresh token")
	}
	return &claims, nil
}

func (c *Codec) verify(tokenStr string, claims jwt.Claims) error {
	parsed, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != c.method.Alg() {
			return nil, errAlgorithmMismatch
		}
		return c.verifyingKey, nil
	},
		jwt.WithIssuer(c.issuer),
		jwt.WithAudience(c.audience),
		jwt.WithLeeway(2*time.Second),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		return classifyVerifyError(err)
	}
	if !parsed.Valid {
		return errorutil.NewUnauthorized("TOKEN_CLAIM_INVALID", "token claims failed validation")
	}
	return nil
}

// classifyVerifyError maps jwt/v5 failures onto the stable error taxonomy.
// Expired must stay distinguishable from invalid: expired refresh tokens
// trigger store cleanup while invalid ones do not.
func classifyVerifyError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return errorutil.NewUnauthorized("TOKEN_EXPIRED", "token expired")
	case errors.Is(err, errAlgorithmMismatch):
		return errorutil.NewUnauthorized("TOKEN_ALGORITHM_MISMATCH", "token signed with unexpected algorithm")
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return errorutil.NewUnauthorized("TOKEN_SIGNATURE_INVALID", "token signature invalid")
	case errors.Is(err, jwt.ErrTokenMalformed):
		return errorutil.NewUnauthorized("TOKEN_MALFORMED", "token malformed")
	case errors.Is(err, jwt.ErrTokenInvalidIssuer),
		errors.Is(err, jwt.ErrTokenInvalidAudience),
		errors.Is(err, jwt.ErrTokenUsedBeforeIssued),
		errors.Is(err, jwt.ErrTokenNotValidYet),
		errors.Is(err, jwt.ErrTokenInvalidClaims):
		return errorutil.NewUnauthorized("TOKEN_CLAIM_INVALID", "token claims failed validation")
	default:
		return errorutil.NewInternal("TOKEN_VERIFICATION_FAILED", err)
	}
}

// DecodeUnsafe decodes a token without any verification. Diagnostics only;
// the result must never feed an authorization decision.
func (c *Codec) DecodeUnsafe(tokenStr string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, claims); err != nil {
		return nil, errorutil.NewUnauthorized("TOKEN_MALFORMED", "token malformed")
	}
	return claims, nil
}

func loadRSAPrivateKey(pemOrPath string) (*rsa.PrivateKey, error) {
	return jwt.ParseRSAPrivateKeyFromPEM(readPEM(pemOrPath))
}

func loadRSAPublicKey(pemOrPath string) (*rsa.PublicKey, error) {
	return jwt.ParseRSAPublicKeyFromPEM(readPEM(pemOrPath))
}

// readPEM accepts either PEM content or a path to a PEM file.
func readPEM(pemOrPath string) []byte {
	if content, err := os.ReadFile(pemOrPath); err == nil {
		return content
	}
	return []byte(pemOrPath)
}
