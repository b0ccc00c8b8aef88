package header

import (
	"fmt"
	"io"
	"slices"
	"strconv"

	"braces.dev/errtrace"

	"github.com/sipward/siproute/internal/errorutil"
	"github.com/sipward/siproute/internal/ioutil"
	"github.com/sipward/siproute/internal/util"
)

// RecordRoute represents the Record-Route header: the route set
// recorded by proxies on the dialog-forming request.
type RecordRoute []RouteHop

// ParseRecordRoute parses Record-Route header values into a single hop
// list, same rules as [ParseRoute].
func ParseRecordRoute(vals ...string) (RecordRoute, error) {
	hdr, err := parseRouteVals(vals)
	return RecordRoute(hdr), errtrace.Wrap(err)
}

// MustParseRecordRoute is like [ParseRecordRoute] but panics on error.
func MustParseRecordRoute(vals ...string) RecordRoute {
	return util.Must2(ParseRecordRoute(vals...))
}

// ParseRecordRouteRaw parses a raw Record-Route header field. The field
// name is matched case-insensitively.
func ParseRecordRouteRaw(raw Raw) (RecordRoute, error) {
	if !raw.Name.Equal(RecordRoute(nil).CanonicName()) {
		return nil, errtrace.Wrap(errorutil.NewInvalidArgumentError(
			"unexpected header name %q", raw.Name))
	}
	hdr, err := parseRouteVals(raw.Values)
	return RecordRoute(hdr), errtrace.Wrap(err)
}

// CanonicName returns the canonical name of the header.
func (RecordRoute) CanonicName() Name { return "Record-Route" }

// CompactName returns the compact name of the header (Record-Route has no compact form).
func (RecordRoute) CompactName() Name { return "Record-Route" }

// RenderTo writes the header to the provided writer.
func (hdr RecordRoute) RenderTo(w io.Writer, _ *RenderOptions) (num int, err error) {
	if hdr == nil {
		return 0, nil
	}

	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	cw.Fprint(hdr.CanonicName(), ": ")
	cw.Call(Route(hdr).renderValueTo)
	return errtrace.Wrap2(cw.Result())
}

// Render returns the string representation of the header.
func (hdr RecordRoute) Render(opts *RenderOptions) string {
	if hdr == nil {
		return ""
	}

	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	hdr.RenderTo(sb, opts) //nolint:errcheck
	return sb.String()
}

// RenderValue renders the hop list as a single comma-separated header
// value, without the header name.
func (hdr RecordRoute) RenderValue() string { return Route(hdr).RenderValue() }

// Build assembles a raw header field with one value per hop, in hop
// list order.
func (hdr RecordRoute) Build() Raw {
	raw := Route(hdr).Build()
	raw.Name = hdr.CanonicName()
	return raw
}

// String returns the string representation of the header value.
func (hdr RecordRoute) String() string { return hdr.RenderValue() }

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr RecordRoute) Format(f fmt.State, verb rune) {
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
		type hideMethods RecordRoute
		type RecordRoute hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), RecordRoute(hdr))
		return
	}
}

// Clone returns a copy of the header.
func (hdr RecordRoute) Clone() Header { return cloneHdrEntries(hdr) }

// Equal compares this header with another for equality.
func (hdr RecordRoute) Equal(val any) bool {
	var other RecordRoute
	switch v := val.(type) {
	case RecordRoute:
		other = v
	case *RecordRoute:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return slices.EqualFunc(hdr, other, func(hop1, hop2 RouteHop) bool { return hop1.Equal(hop2) })
}

func (hdr RecordRoute) IsValid() bool {
	return len(hdr) > 0 && !slices.ContainsFunc(hdr, func(hop RouteHop) bool { return !hop.IsValid() })
}
