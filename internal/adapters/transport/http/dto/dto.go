package dto

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	customErrors "github.com/Miraines/hoops-auth/internal/domain/auth/errors"
)

type SignupDTO struct {
	Email       string `json:"email"       validate:"required,email"`
	Password    string `json:"password"    validate:"required,min=8,strongpwd"`
	Nickname    string `json:"nickname"    validate:"required,min=2,max=20"`
	PhoneNumber string `json:"phoneNumber" validate:"omitempty,phone"`
}

type LoginDTO struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type GoogleLoginDTO struct {
	IDToken string `json:"idToken" validate:"required"`
}

type RefreshDTO struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type LogoutDTO struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

var (
	phonePattern = regexp.MustCompile(`^010-\d{4}-\d{4}$`)
	// letters, digits and @$!%*#?& only
	passwordAlphabet = regexp.MustCompile(`^[A-Za-z\d@$!%*#?&]+$`)
)

const passwordSpecials = "@$!%*#?&"

// NewValidator returns a validator with the service's custom rules
// registered and JSON field names used in error reports.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("strongpwd", func(fl validator.FieldLevel) bool {
		return StrongPassword(fl.Field().String())
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	return v
}

// StrongPassword requires at least one letter, one digit and one of
// @$!%*#?&, and nothing outside those classes.
func StrongPassword(pwd string) bool {
	if !passwordAlphabet.MatchString(pwd) {
		return false
	}
	var hasLetter, hasDigit, hasSpecial bool
	for _, r := range pwd {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune(passwordSpecials, r):
			hasSpecial = true
		default:
			hasLetter = true
		}
	}
	return hasLetter && hasDigit && hasSpecial
}

// Validate runs v over s and turns field failures into a
// *customErrors.ValidationError.
func Validate(v *validator.Validate, s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return customErrors.NewInvalidArgument(err.Error())
	}
	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields[fe.Field()] = message(fe)
	}
	return &customErrors.ValidationError{Fields: fields}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "strongpwd":
		return "must contain a letter, a digit and one of " + passwordSpecials
	case "phone":
		return "must match 010-XXXX-XXXX"
	default:
		return "is invalid"
	}
}
