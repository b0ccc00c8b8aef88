// Package grammar implements the lexical layer of the SIP header syntax:
// byte-class predicates, quoting, percent-escaping and the parameter
// section scanner used by the header and uri packages.
package grammar

//go:generate go tool errtrace -w .

import (
	"net"
	"strconv"
	"strings"

	"github.com/sipward/siproute/internal/errorutil"
)

type Error string

func (e Error) Error() string { return string(e) }

func (Error) Grammar() bool { return true }

const (
	ErrEmptyInput     Error = "empty input"
	ErrMalformedInput Error = "malformed input"
)

func newMalformedInputErr(args ...any) error {
	return errorutil.NewWrapperError(ErrMalformedInput, args...) //errtrace:skip
}

var tokenChars = map[byte]bool{
	'-':  true,
	'.':  true,
	'!':  true,
	'%':  true,
	'*':  true,
	'_':  true,
	'+':  true,
	'`':  true,
	'\'': true,
	'~':  true,
}

// IsTokenChar checks a single byte against the token rule alphabet.
func IsTokenChar(c byte) bool {
	return tokenChars[c] || IsAlphanumChar(c)
}

// IsToken checks s against the token rule (RFC 3261 S.25).
func IsToken[T ~string | ~[]byte](s T) bool {
	if len(s) == 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !IsTokenChar(s[i]) {
			return false
		}
	}
	return true
}

// IsHost checks s against the host rule: a hostname, an IPv4 address or
// a bracketed IPv6 reference.
func IsHost[T ~string | ~[]byte](s T) bool {
	if len(s) == 0 {
		return false
	}

	str := string(s)
	if str[0] == '[' {
		if str[len(str)-1] != ']' {
			return false
		}
		ip := net.ParseIP(str[1 : len(str)-1])
		return ip != nil && ip.To4() == nil
	}
	if strings.Contains(str, ":") {
		return net.ParseIP(str) != nil && !strings.Contains(str, ".")
	}
	for i := 0; i < len(str); i++ {
		c := str[i]
		if !IsAlphanumChar(c) && c != '-' && c != '.' {
			return false
		}
	}
	return str[0] != '.' && str[len(str)-1] != '-'
}

// IsQuoted checks s against the quoted-string rule: a double-quoted string
// with backslash escapes and no unescaped interior quotes.
func IsQuoted[T ~string | ~[]byte](s T) bool {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return false
	}
	for i := 1; i < len(s)-1; i++ {
		switch s[i] {
		case '\\':
			i++
			if i >= len(s)-1 {
				return false
			}
		case '"':
			return false
		}
	}
	return true
}

// Quote returns s as a quoted-string.
func Quote(s string) string {
	return strconv.Quote(s)
}

// Unquote strips quoted-string quoting from s.
// Malformed input is returned unchanged.
func Unquote(s string) string {
	qs, err := strconv.Unquote(s)
	if err != nil {
		qs = s
	}
	return qs
}
