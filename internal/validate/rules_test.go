// ABOUTME: Tests for the input validation rules
// ABOUTME: Checks accepted and rejected values per field

package validate

import (
	"strings"
	"testing"
)

func TestUsername(t *testing.T) {
	valid := []string{"abc", "admin", "user_01", strings.Repeat("a", 20)}
	for _, u := range valid {
		if err := Username(u); err != nil {
			t.Errorf("Username(%q) unexpected error: %v", u, err)
		}
	}

	invalid := []string{"", "ab", strings.Repeat("a", 21), "bad name", "bad-name", "名前"}
	for _, u := range invalid {
		if err := Username(u); err == nil {
			t.Errorf("Username(%q) expected error", u)
		}
	}
}

func TestPassword(t *testing.T) {
	valid := []string{"secret1", "a1b2c3", "longpassword9"}
	for _, p := range valid {
		if err := Password(p); err != nil {
			t.Errorf("Password(%q) unexpected error: %v", p, err)
		}
	}

	invalid := []string{"", "abc1", strings.Repeat("a1", 17), "letters", "123456"}
	for _, p := range invalid {
		if err := Password(p); err == nil {
			t.Errorf("Password(%q) expected error", p)
		}
	}
}

func TestEmail(t *testing.T) {
	if err := Email(""); err != nil {
		t.Errorf("empty email should be allowed, got %v", err)
	}
	if err := Email("user@example.com"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	for _, e := range []string{"plain", "a@b", "a b@c.d", "@example.com"} {
		if err := Email(e); err == nil {
			t.Errorf("Email(%q) expected error", e)
		}
	}
}

func TestRole(t *testing.T) {
	if err := Role("ADMIN", "ADMIN", "USER"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := Role("", "ADMIN", "USER"); err != nil {
		t.Errorf("empty role should be allowed, got %v", err)
	}
	if err := Role("ROOT", "ADMIN", "USER"); err == nil {
		t.Error("expected error for role outside the set")
	}
}

func TestPort(t *testing.T) {
	for _, p := range []int{1, 3306, 65535} {
		if err := Port(p); err != nil {
			t.Errorf("Port(%d) unexpected error: %v", p, err)
		}
	}
	for _, p := range []int{0, -1, 65536} {
		if err := Port(p); err == nil {
			t.Errorf("Port(%d) expected error", p)
		}
	}
}

func TestRequired(t *testing.T) {
	if err := Required("name", "value"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	for _, v := range []string{"", "   ", "\t"} {
		if err := Required("name", v); err == nil {
			t.Errorf("Required(%q) expected error", v)
		}
	}
}
