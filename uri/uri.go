// Package uri implements SIP and SIPS URIs plus an opaque fallback for
// any other scheme found in routing headers.
package uri

//go:generate go tool errtrace -w .

import (
	"net/url"

	"braces.dev/errtrace"

	"github.com/sipward/siproute/internal/errorutil"
	"github.com/sipward/siproute/internal/types"
	"github.com/sipward/siproute/internal/util"
)

// Addr represents a network address consisting of a host and optional port.
type Addr = types.Addr

// Host creates an Addr from a hostname without a port.
func Host(host string) Addr { return types.Host(host) }

// HostPort creates an Addr from a hostname and port.
func HostPort(host string, port uint16) Addr { return types.HostPort(host, port) }

// ParseAddr parses a network address from the given input s (string or []byte).
func ParseAddr[T ~string | ~[]byte](s T) (Addr, error) { return errtrace.Wrap2(types.ParseAddr(s)) }

// Params represents URI parameters or headers as an ordered list.
type Params = types.Params

// Param is a single URI parameter or header.
type Param = types.Param

// ParamValue is an optional parameter value.
type ParamValue = types.ParamValue

// NewParamValue returns a [ParamValue] holding the provided string.
func NewParamValue(val string) ParamValue { return types.NewParamValue(val) }

// RenderOptions contains options for rendering URIs and headers.
type RenderOptions = types.RenderOptions

// URI represents generic URI (SIP, SIPS, ...etc).
type URI interface {
	types.Renderer
	types.Cloneable[URI]
	types.ValidFlag
	types.Equalable
}

// Parse parses any URI (sip, sips, ...etc.) from a given input s (string or []byte).
//
// Parsing of:
//   - sip/sips returns [SIP];
//   - any other URI returns [Any].
//
// See [ParseSIP], [ParseAny].
func Parse[T ~string | ~[]byte](s T) (URI, error) {
	if len(s) >= 3 && util.LCase(string(s[:3])) == "sip" {
		return errtrace.Wrap2[URI](ParseSIP(s))
	}
	return errtrace.Wrap2[URI](ParseAny(s))
}

// MustParse is like [Parse] but panics on error.
func MustParse[T ~string | ~[]byte](s T) URI {
	return util.Must2(Parse(s))
}

// GetScheme returns the scheme of the URI.
//
// SIP and SIPS URIs return "sip" or "sips" respectively,
// Any URI returns the value of the [net/url.URL.Scheme] field.
// If the URI is nil, an empty string is returned.
// If the URI is of unknown type, a panic is raised.
func GetScheme(u URI) string {
	if u == nil {
		return ""
	}

	switch u := u.(type) {
	case *SIP:
		return u.scheme()
	case *Any:
		return u.URL.Scheme
	default:
		panic(newUnexpectURITypeErr(u))
	}
}

// GetAddr returns the address of the URI.
//
// SIP and SIPS URIs return the value of the [SIP.Addr] field,
// Any URI returns the value of concatenated [net/url.URL.Host] and [net/url.URL.Path] fields.
// If the URI is nil, an empty string is returned.
// If the URI is of unknown type, a panic is raised.
func GetAddr(u URI) string {
	if u == nil {
		return ""
	}

	switch u := u.(type) {
	case *SIP:
		return u.Addr.String()
	case *Any:
		return u.Host + u.Path
	default:
		panic(newUnexpectURITypeErr(u))
	}
}

// GetParams returns the parameters of the URI.
//
// SIP and SIPS URIs return the value of the [SIP.Params] field,
// Any URI returns the value of the [net/url.URL.RawQuery] field parsed into [Params].
// If the URI is nil, nil is returned.
// If the URI is of unknown type, a panic is raised.
func GetParams(u URI) Params {
	if u == nil {
		return nil
	}

	switch u := u.(type) {
	case *SIP:
		return u.Params
	case *Any:
		vals, _ := url.ParseQuery(u.RawQuery)
		prms := make(Params, 0, len(vals))
		for k, vs := range vals {
			for _, v := range vs {
				prms = append(prms, Param{Key: k, Value: NewParamValue(v)})
			}
		}
		return prms
	default:
		panic(newUnexpectURITypeErr(u))
	}
}

func newUnexpectURITypeErr(u URI) error {
	return errorutil.Errorf("unexpected URI type %T", u) //errtrace:skip
}
