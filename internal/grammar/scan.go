package grammar

import (
	"strings"

	"braces.dev/errtrace"
)

// LWSChars is the linear whitespace alphabet of the SIP ABNF (RFC 3261 S.25).
const LWSChars = " \t"

// TrimLWS trims leading and trailing linear whitespace from s.
func TrimLWS[T ~string](s T) T { return T(strings.Trim(string(s), LWSChars)) }

// TrimLeftLWS trims leading linear whitespace from s.
func TrimLeftLWS[T ~string](s T) T { return T(strings.TrimLeft(string(s), LWSChars)) }

// Delim is a pair of bytes enclosing text that separator scans must not
// look into, e.g. a quoted string or an angle-bracketed URI.
type Delim struct {
	Start byte
	End   byte
}

var (
	QuotesDelim = Delim{'"', '"'}
	AnglesDelim = Delim{'<', '>'}
)

// IndexUnquoted returns the index of the first occurrence of target in s
// that is not enclosed in any of the given delimiter pairs, or -1.
func IndexUnquoted(s string, target byte, delims ...Delim) int {
	return IndexAnyUnquoted(s, string(target), delims...)
}

// IndexAnyUnquoted returns the index of the first occurrence of any byte
// from targets in s that is not enclosed in any of the given delimiter
// pairs, or -1.
func IndexAnyUnquoted(s string, targets string, delims ...Delim) int {
	var (
		enclosed bool
		endByte  byte
	)
	endBytes := make(map[byte]byte, len(delims))
	for _, d := range delims {
		endBytes[d.Start] = d.End
	}

	for i := 0; i < len(s); i++ {
		if !enclosed && strings.IndexByte(targets, s[i]) >= 0 {
			return i
		}
		if enclosed {
			enclosed = s[i] != endByte
			continue
		}
		endByte, enclosed = endBytes[s[i]]
	}
	return -1
}

// RawParam is a single tokenized key/value pair.
// Valued is false for singleton parameters that carry no "=value" part.
type RawParam struct {
	Key    string
	Value  string
	Valued bool
}

// ScanConfig controls a ScanParams run.
type ScanConfig struct {
	// Start is the required first byte of the section, 0 for none.
	Start byte
	// Sep separates the key/value pairs.
	Sep byte
	// End stops the scan and is left unconsumed, 0 to scan to the end of input.
	End byte
	// QuoteValues allows double-quoted values; quotes are kept verbatim.
	QuoteValues bool
	// AllowFlags allows keys without a "=value" part.
	AllowFlags bool
}

// ScanParams tokenizes a parameter section of src into raw key/value pairs,
// preserving source order. It returns the pairs and the number of bytes
// consumed; the End byte, when configured, is not consumed. Unquoted linear
// whitespace inside the section is not significant and is dropped.
func ScanParams(src string, cfg ScanConfig) (params []RawParam, consumed int, err error) {
	if len(src) == 0 {
		return nil, 0, nil
	}

	if cfg.Start != 0 {
		if src[0] != cfg.Start {
			return nil, 0, errtrace.Wrap(newMalformedInputErr(
				"expected %q at start of parameter section %q", string(cfg.Start), src))
		}
		consumed++
	}

	var (
		buf        strings.Builder
		key        string
		parsingKey = true
		inQuotes   bool
	)
	flush := func() error {
		if !parsingKey {
			params = append(params, RawParam{Key: key, Value: buf.String(), Valued: true})
		} else {
			if buf.Len() == 0 {
				return newMalformedInputErr("empty parameter name in %q", src)
			}
			if !cfg.AllowFlags {
				return newMalformedInputErr("parameter %q without a value in %q", buf.String(), src)
			}
			params = append(params, RawParam{Key: buf.String()})
		}
		buf.Reset()
		parsingKey = true
		return nil
	}

scan:
	for ; consumed < len(src); consumed++ {
		c := src[consumed]
		switch {
		case cfg.End != 0 && c == cfg.End && !inQuotes:
			break scan
		case c == cfg.Sep && !inQuotes:
			if err := flush(); err != nil {
				return nil, 0, errtrace.Wrap(err)
			}
		case c == '"' && cfg.QuoteValues:
			if parsingKey {
				return nil, 0, errtrace.Wrap(newMalformedInputErr(
					"unexpected '\"' in parameter name in %q", src))
			}
			buf.WriteByte(c)
			inQuotes = !inQuotes
		case c == '=' && !inQuotes:
			if !parsingKey {
				return nil, 0, errtrace.Wrap(newMalformedInputErr(
					"unexpected '=' in parameter value in %q", src))
			}
			if buf.Len() == 0 {
				return nil, 0, errtrace.Wrap(newMalformedInputErr("empty parameter name in %q", src))
			}
			key = buf.String()
			buf.Reset()
			parsingKey = false
		default:
			if !inQuotes && (c == ' ' || c == '\t') {
				continue
			}
			buf.WriteByte(c)
		}
	}

	if inQuotes {
		return nil, 0, errtrace.Wrap(newMalformedInputErr("unclosed quotes in parameter section %q", src))
	}
	if err := flush(); err != nil {
		return nil, 0, errtrace.Wrap(err)
	}
	return params, consumed, nil
}
