package service

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/vaultpass/passgen-go/internal/crypto"
)

var (
	ErrLengthOutOfRange      = fmt.Errorf("password length must be between %d and %d", crypto.MinLength, crypto.MaxLength)
	ErrNoCharacterClasses    = errors.New("at least one character class must be selected")
	ErrUnknownCharacterClass = crypto.ErrUnknownCharacterClass
)

// configRules mirrors crypto.Config with the bounds enforced before generation.
type configRules struct {
	Length  int             `validate:"min=1,max=32"`
	Classes crypto.ClassSet `validate:"required,classset"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	err := v.RegisterValidation("classset", func(fl validator.FieldLevel) bool {
		return crypto.ClassSet(fl.Field().Uint()).Valid()
	})
	if err != nil {
		panic(fmt.Sprintf("registering classset validation: %v", err))
	}
	return v
}

// ValidateConfig checks cfg against the length bounds and requires at least
// one known character class. It returns one of the package's sentinel errors.
func ValidateConfig(cfg crypto.Config) error {
	err := validate.Struct(configRules{Length: cfg.Length, Classes: cfg.Classes})
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	switch {
	case fe.Field() == "Length":
		return ErrLengthOutOfRange
	case fe.Tag() == "classset":
		return ErrUnknownCharacterClass
	default:
		return ErrNoCharacterClasses
	}
}

// IsValidationError reports whether err came from the validating boundary.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrLengthOutOfRange) ||
		errors.Is(err, ErrNoCharacterClasses) ||
		errors.Is(err, ErrUnknownCharacterClass)
}

// parseChange turns an optional length and class list into a config mutation.
// A nil field leaves the corresponding setting as it is.
func parseChange(length *int, classes []string) (func(*crypto.Config), error) {
	var set *crypto.ClassSet
	if classes != nil {
		parsed, err := crypto.ParseClassSet(classes)
		if err != nil {
			return nil, err
		}
		set = &parsed
	}

	return func(cfg *crypto.Config) {
		if length != nil {
			cfg.Length = *length
		}
		if set != nil {
			cfg.Classes = *set
		}
	}, nil
}
