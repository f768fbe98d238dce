package policy

import (
	"maps"
	"slices"
	"testing"

	"github.com/heysubinoy/pyazdict/pkg/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keys(ks ...string) func(func(string) bool) {
	return slices.Values(ks)
}

func TestFourLetter(t *testing.T) {
	p := FourLetter{}
	for _, k := range []string{"abcd", "ABCD", "aBcD", "zzzz"} {
		assert.NoError(t, p.Admit(k, keys()), k)
	}
	for _, k := range []string{"", "abc", "abcde", "ab1d", "ab d", "абвг", "ab#d"} {
		err := p.Admit(k, keys())
		assert.ErrorIs(t, err, kv.ErrInvalidArgument, k)
	}
}

func TestFourLetterAllowsOverwrite(t *testing.T) {
	assert.NoError(t, FourLetter{}.Admit("abcd", keys("abcd")))
}

func TestFiveDigit(t *testing.T) {
	p := FiveDigit{}
	for _, k := range []string{"00000", "12345", "99999"} {
		assert.NoError(t, p.Admit(k, keys()), k)
	}
	for _, k := range []string{"", "1234", "123456", "1234a", "-1234", "１２３４５"} {
		assert.ErrorIs(t, p.Admit(k, keys()), kv.ErrInvalidArgument, k)
	}
	assert.NoError(t, p.Admit("12345", keys("12345")))
}

func TestCanonical(t *testing.T) {
	cases := map[string]string{
		"a#":    "",
		"##":    "",
		"abc#":  "ab",
		"ab":    "ab",
		"#ab":   "ab",
		"ab##":  "",
		"a##b":  "b",
		"ab#c#": "a",
		"":      "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Canonical(in), in)
	}
}

func TestCanonicalIdempotent(t *testing.T) {
	for _, k := range []string{"a#", "##", "abc#", "ab", "x#y#z", "hello##p"} {
		c := Canonical(k)
		assert.Equal(t, c, Canonical(c), k)
	}
}

func TestHashCollapsingAlphabet(t *testing.T) {
	p := HashCollapsing{}
	for _, k := range []string{"", "Ab", "a1", "a b", "a=b"} {
		assert.ErrorIs(t, p.Admit(k, keys()), kv.ErrInvalidArgument, k)
	}
	assert.NoError(t, p.Admit("a#b", keys()))
}

func TestHashCollapsingCollision(t *testing.T) {
	p := HashCollapsing{}

	err := p.Admit("abc#", keys("ab"))
	require.Error(t, err)
	assert.ErrorIs(t, err, kv.ErrInvalidArgument)
	assert.Equal(t, "key already exists considering #", kv.Message(err))

	assert.NoError(t, p.Admit("ac", keys("ab")))
	assert.ErrorIs(t, p.Admit("b#", keys("a#")), kv.ErrInvalidArgument)
	assert.ErrorIs(t, p.Admit("##", keys("a#")), kv.ErrInvalidArgument)
	assert.ErrorIs(t, p.Admit("ab", keys("ab")), kv.ErrInvalidArgument)
}

func TestHashCollapsingScansExisting(t *testing.T) {
	existing := map[string]string{"xy": "1", "zz#q": "2"}
	err := HashCollapsing{}.Admit("zq", maps.Keys(existing))
	assert.ErrorIs(t, err, kv.ErrInvalidArgument)
}

func TestForName(t *testing.T) {
	for name, want := range map[string]string{
		"first": First, "A": First, "1": First,
		"second": Second, "b": Second, "2": Second,
		" third ": Third, "c": Third, "3": Third,
	} {
		p, err := ForName(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, p.Name())
	}

	_, err := ForName("fourth")
	assert.ErrorIs(t, err, kv.ErrInvalidArgument)
}
