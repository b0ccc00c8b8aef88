package grammar_test

import (
	"testing"

	"github.com/sipward/siproute/internal/grammar"
)

func TestIsToken(t *testing.T) {
	t.Parallel()

	cases := []struct {
		src  string
		want bool
	}{
		{"", false},
		{"abc", true},
		{"a1-b.c!%*_+`'~", true},
		{"a b", false},
		{"a;b", false},
		{"a=b", false},
		{`"ab"`, false},
	}

	for _, c := range cases {
		if got := grammar.IsToken(c.src); got != c.want {
			t.Errorf("IsToken(%q) = %v, want %v", c.src, got, c.want)
		}
	}
}

func TestIsHost(t *testing.T) {
	t.Parallel()

	cases := []struct {
		src  string
		want bool
	}{
		{"", false},
		{"example.com", true},
		{"EXAMPLE-1.com", true},
		{"192.0.2.1", true},
		{"[2001:db8::1]", true},
		{"2001:db8::1", true},
		{"[2001:db8::1", false},
		{"[192.0.2.1]", false},
		{"exa mple.com", false},
		{".example.com", false},
		{"example.com-", false},
	}

	for _, c := range cases {
		if got := grammar.IsHost(c.src); got != c.want {
			t.Errorf("IsHost(%q) = %v, want %v", c.src, got, c.want)
		}
	}
}

func TestIsQuoted(t *testing.T) {
	t.Parallel()

	cases := []struct {
		src  string
		want bool
	}{
		{"", false},
		{`""`, true},
		{`"abc"`, true},
		{`"a\"b"`, true},
		{`"a"b"`, false},
		{`"abc`, false},
		{`"a\"`, false},
		{"abc", false},
	}

	for _, c := range cases {
		if got := grammar.IsQuoted(c.src); got != c.want {
			t.Errorf("IsQuoted(%q) = %v, want %v", c.src, got, c.want)
		}
	}
}

func TestQuoteUnquote(t *testing.T) {
	t.Parallel()

	cases := []struct {
		src, quoted string
	}{
		{"", `""`},
		{"abc", `"abc"`},
		{`a"b`, `"a\"b"`},
		{"a b, c", `"a b, c"`},
	}

	for _, c := range cases {
		if got := grammar.Quote(c.src); got != c.quoted {
			t.Errorf("Quote(%q) = %q, want %q", c.src, got, c.quoted)
		}
		if got := grammar.Unquote(c.quoted); got != c.src {
			t.Errorf("Unquote(%q) = %q, want %q", c.quoted, got, c.src)
		}
	}

	// malformed input passes through unchanged
	if got := grammar.Unquote(`"abc`); got != `"abc` {
		t.Errorf(`Unquote("abc) = %q, want the input back`, got)
	}
}
