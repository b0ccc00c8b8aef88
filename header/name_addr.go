package header

import (
	"fmt"
	"strconv"
	"strings"

	"braces.dev/errtrace"

	"github.com/sipward/siproute/internal/errorutil"
	"github.com/sipward/siproute/internal/grammar"
	"github.com/sipward/siproute/internal/types"
	"github.com/sipward/siproute/internal/util"
	"github.com/sipward/siproute/uri"
)

// NameAddr is a single name-addr header value: an optional display name,
// a URI and header parameters in wire order.
type NameAddr struct {
	DisplayName string
	URI         uri.URI
	Params      Params
}

// RouteHop is a single Route or Record-Route header entry.
type RouteHop = NameAddr

// NewRouteHop returns a [RouteHop] for the given URI with no display
// name and no parameters.
func NewRouteHop(u uri.URI) RouteHop {
	return RouteHop{URI: u}
}

// ParseRouteHop parses a single route entry from the given input s
// (string or []byte). The whole input must be consumed, anything left
// after the entry and its parameters fails with [ErrGarbageAtEnd].
func ParseRouteHop[T ~string | ~[]byte](s T) (RouteHop, error) {
	hop, rest, err := parseRouteHop(string(s))
	if err != nil {
		return RouteHop{}, errtrace.Wrap(err)
	}
	if rest != "" {
		return RouteHop{}, errtrace.Wrap(errorutil.NewWrapperError(ErrGarbageAtEnd, "%q", rest))
	}
	return hop, nil
}

// MustParseRouteHop is like [ParseRouteHop] but panics on error.
func MustParseRouteHop[T ~string | ~[]byte](s T) RouteHop {
	return util.Must2(ParseRouteHop(s))
}

// parseRouteHop parses one route entry off the front of src and returns
// the unconsumed remainder. The remainder is either empty or starts at
// the "," separating the next entry.
func parseRouteHop(src string) (RouteHop, string, error) {
	hop, rest, err := parseNameAddr(src)
	if err != nil {
		return RouteHop{}, "", errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidRoute, err))
	}
	rest = grammar.TrimLeftLWS(rest)
	if rest != "" && rest[0] == ';' {
		raw, consumed, err := grammar.ScanParams(rest, grammar.ScanConfig{
			Start:       ';',
			Sep:         ';',
			End:         ',',
			QuoteValues: true,
			AllowFlags:  true,
		})
		if err != nil {
			return RouteHop{}, "", errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidParams, err))
		}
		hop.Params = make(Params, 0, len(raw))
		for _, p := range raw {
			var val ParamValue
			// An empty "=value" part collapses to the no-value form.
			if p.Valued && p.Value != "" {
				val = NewParamValue(p.Value)
			}
			hop.Params = append(hop.Params, Param{Key: p.Key, Value: val})
		}
		rest = grammar.TrimLeftLWS(rest[consumed:])
	}
	return hop, rest, nil
}

// parseNameAddr parses the name-addr part of a route entry: an optional
// quoted or token display name followed by "<uri>", or a bare addr-spec
// running to the first separator (RFC 8217 leniency).
func parseNameAddr(src string) (addr NameAddr, rest string, err error) {
	s := grammar.TrimLeftLWS(src)
	if s == "" {
		return addr, "", errtrace.Wrap(grammar.ErrEmptyInput)
	}

	if idx := grammar.IndexUnquoted(s, '<', grammar.QuotesDelim); idx >= 0 {
		if dname := grammar.TrimLWS(s[:idx]); dname != "" {
			if dname[0] == '"' {
				if !grammar.IsQuoted(dname) {
					return addr, "", errtrace.Wrap(errorutil.NewWrapperError(grammar.ErrMalformedInput,
						"malformed quoted display name %q", dname))
				}
				addr.DisplayName = grammar.Unquote(dname)
			} else {
				addr.DisplayName = dname
			}
		}
		s = s[idx+1:]
		end := strings.IndexByte(s, '>')
		if end < 0 {
			return addr, "", errtrace.Wrap(errorutil.NewWrapperError(grammar.ErrMalformedInput,
				"missing '>' in %q", src))
		}
		addr.URI, err = uri.Parse(s[:end])
		if err != nil {
			return NameAddr{}, "", errtrace.Wrap(err)
		}
		return addr, s[end+1:], nil
	}

	uriStr := s
	if end := strings.IndexAny(s, ";,"+grammar.LWSChars); end >= 0 {
		uriStr, rest = s[:end], s[end:]
	}
	addr.URI, err = uri.Parse(uriStr)
	if err != nil {
		return NameAddr{}, "", errtrace.Wrap(err)
	}
	return addr, rest, nil
}

// LooseRoute reports whether the entry URI itself carries the lr
// uri-parameter. Header parameters of the entry do not count.
func (addr NameAddr) LooseRoute() bool {
	if u, ok := addr.URI.(*uri.SIP); ok {
		return u.LR()
	}
	return false
}

// WithParam returns a copy of the entry with the parameter prepended to
// the parameter list. The receiver is left unmodified.
func (addr NameAddr) WithParam(key string, val ParamValue) NameAddr {
	addr.Params = addr.Params.Prepend(key, val)
	return addr
}

// String returns the string representation of the NameAddr.
func (addr NameAddr) String() string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)

	if addr.DisplayName != "" {
		fmt.Fprint(sb, grammar.Quote(addr.DisplayName), " ")
	}

	fmt.Fprint(sb, "<")
	if addr.URI != nil {
		addr.URI.RenderTo(sb, nil) //nolint:errcheck
	}
	fmt.Fprint(sb, ">")

	renderHdrParams(sb, addr.Params) //nolint:errcheck

	return sb.String()
}

// Format implements fmt.Formatter for custom formatting of the NameAddr.
func (addr NameAddr) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		fmt.Fprint(f, addr.String())
		return
	case 'q':
		fmt.Fprint(f, strconv.Quote(addr.String()))
		return
	default:
		if !f.Flag('+') && !f.Flag('#') {
			fmt.Fprint(f, addr.String())
			return
		}

		type hideMethods NameAddr
		type NameAddr hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), NameAddr(addr))
		return
	}
}

// Equal compares this NameAddr with another for equality.
// The display name is presentation only and does not take part in the
// comparison, the URI and the parameter list do.
func (addr NameAddr) Equal(val any) bool {
	var other NameAddr
	switch v := val.(type) {
	case NameAddr:
		other = v
	case *NameAddr:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return types.IsEqual(addr.URI, other.URI) && addr.Params.Equal(other.Params)
}

func (addr NameAddr) IsValid() bool {
	return types.IsValid(addr.URI) && validateHdrParams(addr.Params)
}

func (addr NameAddr) IsZero() bool {
	return addr.DisplayName == "" && addr.URI == nil && len(addr.Params) == 0
}

func (addr NameAddr) Clone() NameAddr {
	addr.URI = types.Clone[uri.URI](addr.URI)
	addr.Params = addr.Params.Clone()
	return addr
}

// MarshalText implements encoding.TextMarshaler.
func (addr NameAddr) MarshalText() (text []byte, err error) {
	return []byte(addr.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (addr *NameAddr) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*addr = NameAddr{}
		return nil
	}
	v, err := ParseRouteHop(text)
	if err != nil {
		return errtrace.Wrap(err)
	}
	*addr = v
	return nil
}
