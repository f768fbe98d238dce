// Package policy holds the key-acceptance rules that distinguish the three
// dictionary variants. Policies are stateless; everything they need to know
// about the dictionary is passed in.
package policy

import (
	"fmt"
	"iter"
	"strings"

	"github.com/heysubinoy/pyazdict/pkg/kv"
)

// Policy decides whether a proposed key may be inserted.
type Policy interface {
	// Name is the dictionary name the policy belongs to.
	Name() string

	// Admit returns nil if key may be stored alongside the existing keys,
	// or an error matching kv.ErrInvalidArgument otherwise.
	Admit(key string, existing iter.Seq[string]) error
}

const (
	First  = "first"
	Second = "second"
	Third  = "third"
)

// Names lists the dictionary names in menu order.
var Names = []string{First, Second, Third}

// ForName resolves a dictionary name (or its letter/number alias) to its policy.
func ForName(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case First, "a", "1":
		return FourLetter{}, nil
	case Second, "b", "2":
		return FiveDigit{}, nil
	case Third, "c", "3":
		return HashCollapsing{}, nil
	}
	return nil, kv.InvalidArgument("select", fmt.Sprintf("unknown dictionary %q", name))
}

// FourLetter admits keys of exactly four ASCII letters.
type FourLetter struct{}

func (FourLetter) Name() string { return First }

func (FourLetter) Admit(key string, _ iter.Seq[string]) error {
	if len(key) != 4 || !all(key, isLetter) {
		return kv.InvalidArgument("add", "key must be exactly 4 latin letters")
	}
	return nil
}

// FiveDigit admits keys of exactly five ASCII digits.
type FiveDigit struct{}

func (FiveDigit) Name() string { return Second }

func (FiveDigit) Admit(key string, _ iter.Seq[string]) error {
	if len(key) != 5 || !all(key, isDigit) {
		return kv.InvalidArgument("add", "key must be exactly 5 digits")
	}
	return nil
}

// HashCollapsing admits non-empty keys over [a-z#] whose canonical form is
// not already taken by a stored key.
type HashCollapsing struct{}

func (HashCollapsing) Name() string { return Third }

func (HashCollapsing) Admit(key string, existing iter.Seq[string]) error {
	if key == "" || !all(key, isHashAlphabet) {
		return kv.InvalidArgument("add", "key must contain only lowercase latin letters and #")
	}

	canon := Canonical(key)
	for k := range existing {
		if Canonical(k) == canon {
			return kv.InvalidArgument("add", "key already exists considering #")
		}
	}
	return nil
}

// Canonical collapses a key by treating each '#' as a backspace over the
// previous surviving character. A '#' with nothing to erase is dropped.
func Canonical(key string) string {
	buf := make([]rune, 0, len(key))
	for _, c := range key {
		if c == '#' {
			if len(buf) > 0 {
				buf = buf[:len(buf)-1]
			}
			continue
		}
		buf = append(buf, c)
	}
	return string(buf)
}

func all(s string, ok func(byte) bool) bool {
	for i := 0; i < len(s); i++ {
		if !ok(s[i]) {
			return false
		}
	}
	return true
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHashAlphabet(c byte) bool {
	return (c >= 'a' && c <= 'z') || c == '#'
}
