// Package core holds the account ledger: the data model, the account and log
// stores, and the Ledger service that enforces authentication and business
// rules before mutating state and persisting it through a Repository.
package core

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Currency is the label used when amounts are rendered into log entries.
const Currency = "RM"

// Gender of the account holder.
type Gender byte

const (
	Male   Gender = 'M'
	Female Gender = 'F'
)

func (g Gender) String() string {
	switch g {
	case Male:
		return "Male"
	case Female:
		return "Female"
	}
	return "Unknown"
}

// MarshalText renders the single-letter code.
func (g Gender) MarshalText() ([]byte, error) {
	return []byte{byte(g)}, nil
}

// Valid reports whether g is one of the known genders.
func (g Gender) Valid() bool {
	return g == Male || g == Female
}

// AccountType distinguishes current and savings accounts. Both follow the
// same balance rules.
type AccountType string

const (
	Current AccountType = "Current"
	Savings AccountType = "Savings"
)

// Valid reports whether t is one of the known account types.
func (t AccountType) Valid() bool {
	return t == Current || t == Savings
}

var identityPattern = regexp.MustCompile(`^[A-Z0-9]{6,9}$`)

// Profile is the set of holder fields an administrator can edit.
type Profile struct {
	Name     string      `json:"name"`
	Identity string      `json:"identity"` // passport or ID number
	Gender   Gender      `json:"gender"`
	Type     AccountType `json:"type"`
}

// NormalizeIdentity uppercases id and strips every whitespace rune.
func NormalizeIdentity(id string) string {
	var b strings.Builder
	b.Grow(len(id))
	for _, r := range id {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// ValidIdentity reports whether a normalized identity number has the
// accepted shape: 6 to 9 uppercase letters or digits.
func ValidIdentity(id string) bool {
	return identityPattern.MatchString(id)
}

// Normalize returns a copy with a trimmed name and a normalized identity.
func (p Profile) Normalize() Profile {
	p.Name = strings.TrimSpace(p.Name)
	p.Identity = NormalizeIdentity(p.Identity)
	return p
}

// Validate checks a normalized profile.
func (p Profile) Validate() error {
	letters := 0
	for _, r := range p.Name {
		switch {
		case unicode.IsLetter(r):
			letters++
		case r == ' ':
		default:
			return fmt.Errorf("%w: name may contain only letters and spaces", ErrInvalidProfile)
		}
	}
	if letters < 4 {
		return fmt.Errorf("%w: name needs at least 4 letters", ErrInvalidProfile)
	}
	if !ValidIdentity(p.Identity) {
		return fmt.Errorf("%w: identity number must be 6-9 letters or digits", ErrInvalidProfile)
	}
	if !p.Gender.Valid() {
		return fmt.Errorf("%w: unknown gender %q", ErrInvalidProfile, string(p.Gender))
	}
	if !p.Type.Valid() {
		return fmt.Errorf("%w: unknown account type %q", ErrInvalidProfile, p.Type)
	}
	return nil
}

// ValidPIN reports whether pin is a 4-digit credential (0000-9999).
func ValidPIN(pin int) bool {
	return pin >= 0 && pin <= 9999
}

// FormatAccountID renders an account number zero-padded to four digits.
func FormatAccountID(id int) string {
	return fmt.Sprintf("%04d", id)
}

// FormatPIN renders a PIN zero-padded to four digits.
func FormatPIN(pin int) string {
	return fmt.Sprintf("%04d", pin)
}

// Account is an active account record. Values handed out by the Ledger are
// copies and carry no log; history is read through Ledger.History.
type Account struct {
	ID int `json:"id"`
	Profile
	PIN     int   `json:"-"`
	Balance int64 `json:"balance"`

	log *Log
}

func (a *Account) view() Account {
	cp := *a
	cp.log = nil
	return cp
}
