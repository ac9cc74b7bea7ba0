package google

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/idtoken"
	"google.golang.org/api/option"

	customErrors "github.com/Miraines/hoops-auth/internal/domain/auth/errors"
	"github.com/Miraines/hoops-auth/internal/domain/auth/model"
)

var errNoEmail = errors.New("google payload has no email")

// Verifier checks Google ID tokens against Google's published keys for a
// single expected audience (the OAuth client id).
type Verifier struct {
	audience  string
	timeout   time.Duration
	validator *idtoken.Validator
	log       *zap.Logger
}

func NewVerifier(ctx context.Context, clientID string, timeout time.Duration, log *zap.Logger) (*Verifier, error) {
	v, err := idtoken.NewValidator(ctx, option.WithHTTPClient(&http.Client{Timeout: timeout}))
	if err != nil {
		return nil, err
	}
	return &Verifier{audience: clientID, timeout: timeout, validator: v, log: log}, nil
}

// Verify returns ErrGoogleTokenInvalid for every verification failure,
// including an unconfigured audience and key fetch errors. A verified
// payload without an email is reported as a plain error.
func (v *Verifier) Verify(ctx context.Context, raw string) (model.GoogleIdentity, error) {
	if v.audience == "" {
		v.log.Warn("google client id is not configured")
		return model.GoogleIdentity{}, customErrors.ErrGoogleTokenInvalid
	}

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	payload, err := v.validator.Validate(ctx, raw, v.audience)
	if err != nil {
		v.log.Info("google token rejected", zap.Error(err))
		return model.GoogleIdentity{}, customErrors.ErrGoogleTokenInvalid
	}
	return identityFromPayload(payload)
}

func identityFromPayload(p *idtoken.Payload) (model.GoogleIdentity, error) {
	email, _ := p.Claims["email"].(string)
	if email == "" {
		return model.GoogleIdentity{}, errNoEmail
	}
	name, _ := p.Claims["name"].(string)
	picture, _ := p.Claims["picture"].(string)
	return model.GoogleIdentity{
		Subject: p.Subject,
		Email:   email,
		Name:    name,
		Picture: picture,
	}, nil
}
