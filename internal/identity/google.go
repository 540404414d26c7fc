package identity

import (
	"context"
	"strings"

	"google.golang.org/api/idtoken"
	"google.golang.org/api/option"

	"github.com/heron-wellnest/auth-service/internal/config"
	"github.com/heron-wellnest/auth-service/pkg/util/errorutil"
)

// GoogleUser is the verified identity handed to the rotation engine.
type GoogleUser struct {
	Email string
	Name  string
}

// Verifier verifies an external identity assertion.
type Verifier interface {
	Verify(ctx context.Context, rawToken string) (*GoogleUser, error)
}

// GoogleVerifier validates Google ID tokens against the configured client ID
// and, when set, restricts logins to a hosted email domain.
type GoogleVerifier struct {
	clientID  string
	domain    string
	validator *idtoken.Validator
}

// NewGoogleVerifier builds the verifier. The validator caches Google's
// signing certificates internally.
func NewGoogleVerifier(ctx context.Context, cfg config.GoogleConfig) (*GoogleVerifier, error) {
	validator, err := idtoken.NewValidator(ctx, option.WithoutAuthentication())
	if err != nil {
		return nil, err
	}
	return &GoogleVerifier{
		clientID:  cfg.ClientID,
		domain:    cfg.AllowedEmailDomain,
		validator: validator,
	}, nil
}

// Verify checks signature, audience, email verification and hosted domain,
// returning the asserted email and name.
func (v *GoogleVerifier) Verify(ctx context.Context, rawToken string) (*GoogleUser, error) {
	if rawToken == "" {
		return nil, errorutil.NewUnauthorized("AUTH_NO_TOKEN", "No token provided")
	}

	payload, err := v.validator.Validate(ctx, rawToken, v.clientID)
	if err != nil {
		return nil, classifyGoogleError(err)
	}

	if verified, _ := payload.Claims["email_verified"].(bool); !verified {
		return nil, errorutil.NewForbidden("AUTH_EMAIL_NOT_VERIFIED", "Email not verified")
	}

	if v.domain != "" {
		hd, _ := payload.Claims["hd"].(string)
		if hd != v.domain {
			return nil, errorutil.NewForbidden("AUTH_UNAUTHORIZED_DOMAIN", "Unauthorized email domain: "+hd)
		}
	}

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	if email == "" {
		return nil, errorutil.NewUnauthorized("AUTH_INVALID_TOKEN", "Invalid Google token payload")
	}

	return &GoogleUser{Email: email, Name: name}, nil
}

func classifyGoogleError(err error) error {
	msg := err.Error()
	if strings.Contains(msg, "expired") ||
		strings.Contains(msg, "used too late") ||
		strings.Contains(msg, "used too early") {
		return errorutil.NewUnauthorized("AUTH_TOKEN_TIME_ERROR",
			"Google token rejected due to time mismatch. Please check your device or server clock.")
	}
	return errorutil.NewInternal("AUTH_TOKEN_VERIFICATION_FAILED", err)
}
