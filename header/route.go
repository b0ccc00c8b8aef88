package header

import (
	"fmt"
	"io"
	"slices"
	"strconv"

	"braces.dev/errtrace"

	"github.com/sipward/siproute/internal/errorutil"
	"github.com/sipward/siproute/internal/grammar"
	"github.com/sipward/siproute/internal/ioutil"
	"github.com/sipward/siproute/internal/util"
)

// Route represents the Route header: the remaining route set of a
// request, one hop per entry, in traversal order.
type Route []RouteHop

// ParseRoute parses Route header values into a single hop list. Each
// value is one header field instance and may itself hold several
// comma-separated entries; entries are accumulated in the order they
// appear across all values.
func ParseRoute(vals ...string) (Route, error) {
	return errtrace.Wrap2(parseRouteVals(vals))
}

// MustParseRoute is like [ParseRoute] but panics on error.
func MustParseRoute(vals ...string) Route {
	return util.Must2(ParseRoute(vals...))
}

// ParseRouteRaw parses a raw Route header field. The field name is
// matched case-insensitively.
func ParseRouteRaw(raw Raw) (Route, error) {
	if !raw.Name.Equal(Route(nil).CanonicName()) {
		return nil, errtrace.Wrap(errorutil.NewInvalidArgumentError(
			"unexpected header name %q", raw.Name))
	}
	return errtrace.Wrap2(parseRouteVals(raw.Values))
}

func parseRouteVals(vals []string) (Route, error) {
	var hdr Route
	for _, val := range vals {
		s := grammar.TrimLWS(val)
		for {
			hop, rest, err := parseRouteHop(s)
			if err != nil {
				return nil, errtrace.Wrap(err)
			}
			hdr = append(hdr, hop)
			if rest == "" {
				break
			}
			if rest[0] != ',' {
				return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrGarbageAtEnd, "%q", rest))
			}
			s = grammar.TrimLeftLWS(rest[1:])
		}
	}
	return hdr, nil
}

// CanonicName returns the canonical name of the header.
func (Route) CanonicName() Name { return "Route" }

// CompactName returns the compact name of the header (Route has no compact form).
func (Route) CompactName() Name { return "Route" }

// RenderTo writes the header to the provided writer.
func (hdr Route) RenderTo(w io.Writer, _ *RenderOptions) (num int, err error) {
	if hdr == nil {
		return 0, nil
	}

	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	cw.Fprint(hdr.CanonicName(), ": ")
	cw.Call(hdr.renderValueTo)
	return errtrace.Wrap2(cw.Result())
}

func (hdr Route) renderValueTo(w io.Writer) (num int, err error) {
	return errtrace.Wrap2(renderHdrEntries(w, hdr))
}

// Render returns the string representation of the header.
func (hdr Route) Render(opts *RenderOptions) string {
	if hdr == nil {
		return ""
	}

	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	hdr.RenderTo(sb, opts) //nolint:errcheck
	return sb.String()
}

// RenderValue returns the header value without the name prefix.
func (hdr Route) RenderValue() string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	hdr.renderValueTo(sb) //nolint:errcheck
	return sb.String()
}

// Build assembles a raw header field with one value per hop, in hop
// list order.
func (hdr Route) Build() Raw {
	raw := Raw{Name: hdr.CanonicName()}
	if len(hdr) == 0 {
		return raw
	}
	raw.Values = make([]string, 0, len(hdr))
	for i := range hdr {
		raw.Values = append(raw.Values, hdr[i].String())
	}
	return raw
}

// String returns the string representation of the header value.
func (hdr Route) String() string { return hdr.RenderValue() }

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr Route) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		if f.Flag('+') {
			hdr.RenderTo(f, nil) //nolint:errcheck
			return
		}
		fmt.Fprint(f, hdr.String())
		return
	case 'q':
		if f.Flag('+') {
			fmt.Fprint(f, strconv.Quote(hdr.Render(nil)))
			return
		}
		fmt.Fprint(f, strconv.Quote(hdr.String()))
		return
	default:
		type hideMethods Route
		type Route hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), Route(hdr))
		return
	}
}

// Clone returns a copy of the header.
func (hdr Route) Clone() Header { return cloneHdrEntries(hdr) }

// Equal compares this header with another for equality.
func (hdr Route) Equal(val any) bool {
	var other Route
	switch v := val.(type) {
	case Route:
		other = v
	case *Route:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return slices.EqualFunc(hdr, other, func(hop1, hop2 RouteHop) bool { return hop1.Equal(hop2) })
}

func (hdr Route) IsValid() bool {
	return len(hdr) > 0 && !slices.ContainsFunc(hdr, func(hop RouteHop) bool { return !hop.IsValid() })
}
