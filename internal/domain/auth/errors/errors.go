package errors

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Error is a domain failure with a stable machine-readable code and the
// HTTP status class it maps to.
type Error struct {
	Code    string
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

var (
	ErrInvalidArgument    = &Error{"INVALID_INPUT", http.StatusBadRequest, "invalid argument"}
	ErrInvalidToken       = &Error{"INVALID_TOKEN", http.StatusBadRequest, "invalid token"}
	ErrUnauthorized       = &Error{"UNAUTHORIZED", http.StatusUnauthorized, "authentication required"}
	ErrInvalidCredentials = &Error{"INVALID_CREDENTIALS", http.StatusUnauthorized, "email or password does not match"}
	ErrTokenExpired       = &Error{"TOKEN_EXPIRED", http.StatusUnauthorized, "token expired"}
	ErrGoogleTokenInvalid = &Error{"GOOGLE_TOKEN_INVALID", http.StatusUnauthorized, "google token verification failed"}
	ErrUserNotFound       = &Error{"USER_NOT_FOUND", http.StatusNotFound, "user not found"}
	ErrEmailExists        = &Error{"EMAIL_ALREADY_EXISTS", http.StatusConflict, "email already exists"}
	ErrNicknameExists     = &Error{"NICKNAME_ALREADY_EXISTS", http.StatusConflict, "nickname already exists"}
	ErrAlreadyExists      = &Error{"ALREADY_EXISTS", http.StatusConflict, "already exists"}
	ErrInternal           = &Error{"INTERNAL_SERVER_ERROR", http.StatusInternalServerError, "internal error"}
	ErrGoogleAPI          = &Error{"GOOGLE_API_ERROR", http.StatusInternalServerError, "google api communication failed"}

	// ErrNotFound is what repositories return on a lookup miss.
	ErrNotFound = ErrUserNotFound
)

func NewInvalidArgument(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, msg)
}

func WrapInternal(err error, context string) error {
	return fmt.Errorf("%w: %s: %v", ErrInternal, context, err)
}

// From resolves err to the domain error it carries. Anything that is not a
// domain error is reported as ErrInternal.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return ErrInternal
}

// IsDomain reports whether err carries one of the domain kinds other than
// ErrInternal.
func IsDomain(err error) bool {
	var e *Error
	return errors.As(err, &e) && e != ErrInternal
}

func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

func IsInternal(err error) bool {
	return errors.Is(err, ErrInternal)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsInvalidCredentials(err error) bool {
	return errors.Is(err, ErrInvalidCredentials)
}

func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

func IsInvalidToken(err error) bool {
	return errors.Is(err, ErrInvalidToken)
}

func IsTokenExpired(err error) bool {
	return errors.Is(err, ErrTokenExpired)
}

func IsEmailExists(err error) bool {
	return errors.Is(err, ErrEmailExists)
}

func IsNicknameExists(err error) bool {
	return errors.Is(err, ErrNicknameExists)
}

func IsGoogleTokenInvalid(err error) bool {
	return errors.Is(err, ErrGoogleTokenInvalid)
}

func IsGoogleAPI(err error) bool {
	return errors.Is(err, ErrGoogleAPI)
}

func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// ValidationError carries per-field messages for a rejected request. It
// unwraps to ErrInvalidArgument.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return ErrInvalidArgument.Message + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidArgument
}
