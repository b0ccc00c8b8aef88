// Package header implements the SIP routing headers defined in the
// RFC 3261: Route and Record-Route.
package header

//go:generate go tool errtrace -w .

import (
	"io"
	"net/textproto"

	"braces.dev/errtrace"

	"github.com/sipward/siproute/internal/grammar"
	"github.com/sipward/siproute/internal/ioutil"
	"github.com/sipward/siproute/internal/types"
	"github.com/sipward/siproute/internal/util"
)

// Addr represents a network address consisting of a host and optional port.
type Addr = types.Addr

// Host creates an Addr from a hostname without a port.
func Host(host string) Addr { return types.Host(host) }

// HostPort creates an Addr from a hostname and port.
func HostPort(host string, port uint16) Addr { return types.HostPort(host, port) }

// RenderOptions contains options for rendering headers and URIs.
type RenderOptions = types.RenderOptions

// Header represents a generic SIP header.
type Header interface {
	types.Renderer
	types.Cloneable[Header]
	types.ValidFlag
	types.Equalable
	CanonicName() Name
	CompactName() Name
	RenderValue() string
}

// Name represents a SIP header name.
type Name string

// ToCanonic converts the Name to its canonical form.
func (n Name) ToCanonic() Name { return CanonicName(n) }

// IsValid checks whether the Name is syntactically valid.
func (n Name) IsValid() bool { return grammar.IsToken(n) }

// Equal compares this Name with another for equality.
func (n Name) Equal(val any) bool {
	var other Name
	switch v := val.(type) {
	case Name:
		other = v
	case *Name:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return CanonicName(n) == CanonicName(other)
}

// CanonicName converts name to the canonical form.
// The canonicalization converts the first letter and any letter following
// a hyphen to upper case; the rest are converted to lowercase. For example,
// the canonical name for "record-route" is "Record-Route".
func CanonicName[T ~string](name T) Name {
	return Name(textproto.CanonicalMIMEHeaderKey(string(util.TrimSP(name))))
}

// Raw is a raw header field: a name and one value per header field
// instance, in message order.
type Raw struct {
	Name   Name
	Values []string
}

func renderHdrEntries[H ~[]E, E any](w io.Writer, hdr H) (num int, err error) {
	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	for i := range hdr {
		if i > 0 {
			cw.Fprint(", ")
		}
		cw.Fprint(hdr[i])
	}
	return errtrace.Wrap2(cw.Result())
}

// renderHdrParams dumps params in stored order, no sorting, folding or
// deduplication.
func renderHdrParams(w io.Writer, prms Params) (num int, err error) {
	if len(prms) == 0 {
		return 0, nil
	}

	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	for _, p := range prms {
		cw.Fprint(";", p.Key)
		if val, ok := p.Value.Get(); ok {
			cw.Fprint("=", val)
		}
	}
	return errtrace.Wrap2(cw.Result())
}

func validateHdrParams(prms Params) bool {
	for _, p := range prms {
		if !grammar.IsToken(p.Key) {
			return false
		}
		val, _ := p.Value.Get()
		if val != "" && !(grammar.IsToken(val) || grammar.IsHost(val) || grammar.IsQuoted(val)) {
			return false
		}
	}
	return true
}

func cloneHdrEntries[H ~[]E, E interface{ Clone() E }](hdr H) H {
	var hdr2 H
	if hdr == nil {
		return hdr2
	}
	hdr2 = make(H, len(hdr))
	for i := range hdr {
		hdr2[i] = hdr[i].Clone()
	}
	return hdr2
}
