package auth

import (
	"errors"
	"regexp"

	"opaemu-backend/internal/model"
)

// Signup validation. The rules mirror the signup screens: the password
// needs a letter, a digit and 8-20 characters with a matching
// confirmation, and the age/terms/privacy consents are required while
// marketing stays optional.

var (
	ErrInvalidEmail      = errors.New("invalid email address")
	ErrWeakPassword      = errors.New("password does not meet the policy")
	ErrPasswordMismatch  = errors.New("passwords do not match")
	ErrMissingAgreements = errors.New("required agreements not accepted")
)

var (
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	letterPattern = regexp.MustCompile(`[a-zA-Z]`)
	digitPattern  = regexp.MustCompile(`[0-9]`)
)

// PasswordChecks reports each policy rule separately so the client can
// light up its checklist rows one by one.
type PasswordChecks struct {
	HasLetter bool `json:"has_letter"`
	HasDigit  bool `json:"has_digit"`
	LengthOK  bool `json:"length_ok"`
	Match     bool `json:"match"`
}

func CheckPassword(password, confirm string) PasswordChecks {
	return PasswordChecks{
		HasLetter: letterPattern.MatchString(password),
		HasDigit:  digitPattern.MatchString(password),
		LengthOK:  len(password) >= 8 && len(password) <= 20,
		Match:     password != "" && password == confirm,
	}
}

func (c PasswordChecks) Valid() bool {
	return c.HasLetter && c.HasDigit && c.LengthOK && c.Match
}

func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// RequiredAgreed reports whether all required consents are checked.
func RequiredAgreed(a model.Agreements) bool {
	return a.Age && a.Terms && a.Privacy
}

// AllAgreed matches the client's "agree to everything" checkbox state,
// which includes the optional marketing consent.
func AllAgreed(a model.Agreements) bool {
	return a.Age && a.Terms && a.Privacy && a.Marketing
}

// AgreeAll returns the agreement set after the "agree to everything"
// toggle: everything on, or everything off when it was already all on.
func AgreeAll(a model.Agreements) model.Agreements {
	next := !AllAgreed(a)
	return model.Agreements{Age: next, Terms: next, Privacy: next, Marketing: next}
}

// ValidateSignup runs every signup rule and returns the first failure.
func ValidateSignup(req *model.SignupRequest) error {
	if !ValidEmail(req.Email) {
		return ErrInvalidEmail
	}

	checks := CheckPassword(req.Password, req.ConfirmPassword)
	if !checks.Match {
		return ErrPasswordMismatch
	}
	if !checks.Valid() {
		return ErrWeakPassword
	}

	if !RequiredAgreed(req.Agreements) {
		return ErrMissingAgreements
	}
	return nil
}
