package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dropDatabas3/gamelobby/internal/domain/repository"
)

// User name rules:
// - 3 or more word characters ([A-Za-z0-9_]), nothing else.
// - Compared case-insensitively for uniqueness (enforced by the store).
// - Must never look like an email address, so a login string is either a name or an email.
var userNameRe = regexp.MustCompile(`^\w{3,}$`)

// Email rules: ASCII only (the engines agree on ASCII case folding and on
// nothing else), a single '@', a dotted domain with a letters-only TLD.
var emailRe = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// ValidUserName returns true if name is an acceptable display name.
func ValidUserName(name string) bool {
	return userNameRe.MatchString(name) && !emailRe.MatchString(name)
}

// ValidEmail returns true if email has valid email syntax.
func ValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// User checks every write-time format rule of a new user.
func User(in repository.CreateUserInput) error {
	if err := ID("user id", in.ID); err != nil {
		return err
	}
	if !ValidUserName(in.Name) {
		return fmt.Errorf("%w: user name %q must be 3+ word characters and not an email", repository.ErrInvalidInput, in.Name)
	}
	if !ValidEmail(in.Email) {
		return fmt.Errorf("%w: email %q is not a valid address", repository.ErrInvalidInput, in.Email)
	}
	if len(in.Password) == 0 {
		return fmt.Errorf("%w: credential is required", repository.ErrInvalidInput)
	}
	return nil
}

// Game checks the format rules of a new game.
func Game(in repository.CreateGameInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: game name is required", repository.ErrInvalidInput)
	}
	if err := ID("owner id", in.OwnerID); err != nil {
		return err
	}
	return Capacity(in.Capacity)
}

// Capacity requires a positive integer.
func Capacity(c int) error {
	if c <= 0 {
		return fmt.Errorf("%w: capacity must be a positive integer, got %d", repository.ErrInvalidInput, c)
	}
	return nil
}

// ID rejects blank identifiers and identifiers with surrounding whitespace.
func ID(what, id string) error {
	if id == "" || strings.TrimSpace(id) != id {
		return fmt.Errorf("%w: %s %q is blank or padded", repository.ErrInvalidInput, what, id)
	}
	return nil
}

// Members validates the user list of a new party: valid ids, no repeats.
// A repeated id would be a second membership of the same user.
func Members(userIDs []string) error {
	seen := make(map[string]struct{}, len(userIDs))
	for _, id := range userIDs {
		if err := ID("user id", id); err != nil {
			return err
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: user %q listed twice", repository.ErrConflict, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}
