package auth

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrWeakPassword is returned when a first-use password breaks the policy.
var ErrWeakPassword = errors.New("weak password")

// PasswordSpecials are the symbols accepted as the special character class.
const PasswordSpecials = "@$!%*?&"

// PasswordPolicy constrains passwords chosen at first login.
type PasswordPolicy struct {
	MinLength int
	MaxLength int
	// RequireMixedClasses demands lower, upper, digit and one of PasswordSpecials,
	// and rejects any other character.
	RequireMixedClasses bool
}

// DefaultPasswordPolicy matches the front desk's first-use rule: 8-20 characters.
func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{MinLength: 8, MaxLength: 20}
}

// Validate returns an ErrWeakPassword-wrapping error describing the first broken rule.
func (p PasswordPolicy) Validate(password string) error {
	n := utf8.RuneCountInString(password)
	if n < p.MinLength || (p.MaxLength > 0 && n > p.MaxLength) {
		return fmt.Errorf("%w: password must be %d-%d characters", ErrWeakPassword, p.MinLength, p.MaxLength)
	}
	if !p.RequireMixedClasses {
		return nil
	}

	var lower, upper, digit, special bool
	for _, r := range password {
		switch {
		case r > unicode.MaxASCII:
			return fmt.Errorf("%w: password contains an unsupported character", ErrWeakPassword)
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(PasswordSpecials, r):
			special = true
		default:
			return fmt.Errorf("%w: password contains an unsupported character", ErrWeakPassword)
		}
	}
	if !lower || !upper || !digit || !special {
		return fmt.Errorf("%w: password needs upper and lower case letters, a number and one of %s",
			ErrWeakPassword, PasswordSpecials)
	}
	return nil
}
