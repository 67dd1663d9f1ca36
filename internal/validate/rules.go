// ABOUTME: Input validation rules shared by the CLI commands
// ABOUTME: Mirrors the backend's field constraints so bad input fails before the network

package validate

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	hasLetter       = regexp.MustCompile(`[a-zA-Z]`)
	hasDigit        = regexp.MustCompile(`[0-9]`)
)

// Username enforces 3-20 characters of letters, digits, and underscores.
func Username(username string) error {
	if username == "" {
		return fmt.Errorf("username is required")
	}
	if len(username) < 3 || len(username) > 20 {
		return fmt.Errorf("username must be 3-20 characters")
	}
	if !usernamePattern.MatchString(username) {
		return fmt.Errorf("username may only contain letters, digits, and underscores")
	}
	return nil
}

// Password enforces 6-32 characters containing at least one letter and one
// digit.
func Password(password string) error {
	if password == "" {
		return fmt.Errorf("password is required")
	}
	if len(password) < 6 || len(password) > 32 {
		return fmt.Errorf("password must be 6-32 characters")
	}
	if !hasLetter.MatchString(password) || !hasDigit.MatchString(password) {
		return fmt.Errorf("password must contain at least one letter and one digit")
	}
	return nil
}

// Email checks basic address shape. Empty is allowed; email is optional
// on the backend.
func Email(email string) error {
	if email == "" {
		return nil
	}
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("invalid email address: %s", email)
	}
	return nil
}

// Role restricts to the closed role set.
func Role(role string, valid ...string) error {
	if role == "" {
		return nil
	}
	for _, v := range valid {
		if role == v {
			return nil
		}
	}
	return fmt.Errorf("invalid role %q (must be one of %s)", role, strings.Join(valid, ", "))
}

// Port checks a TCP port number.
func Port(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", port)
	}
	return nil
}

// Required rejects an empty string with the field name in the message.
func Required(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", name)
	}
	return nil
}
