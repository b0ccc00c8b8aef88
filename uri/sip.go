package uri

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"braces.dev/errtrace"

	"github.com/sipward/siproute/internal/errorutil"
	"github.com/sipward/siproute/internal/grammar"
	"github.com/sipward/siproute/internal/ioutil"
	"github.com/sipward/siproute/internal/types"
	"github.com/sipward/siproute/internal/util"
)

// SIP represents a SIP or SIPS URI.
type SIP struct {
	User    UserInfo // username and passwd
	Addr    Addr     // host and port
	Params  Params   // uri-parameters in wire order
	Headers Params   // headers in wire order
	Secured bool
}

// ParseSIP parses a sip/sips URI from a given input src (string or []byte).
func ParseSIP[T ~string | ~[]byte](src T) (*SIP, error) {
	if len(src) == 0 {
		return nil, errtrace.Wrap(grammar.ErrEmptyInput)
	}

	s := string(src)
	var u SIP
	idx := strings.IndexByte(s, ':')
	if idx < 0 {
		return nil, errtrace.Wrap(errorutil.NewWrapperError(grammar.ErrMalformedInput,
			"no scheme in URI %q", s))
	}
	switch util.LCase(s[:idx]) {
	case "sip":
	case "sips":
		u.Secured = true
	default:
		return nil, errtrace.Wrap(errorutil.NewWrapperError(grammar.ErrMalformedInput,
			"unsupported scheme %q in URI %q", s[:idx], s))
	}
	s = s[idx+1:]

	if idx = strings.IndexByte(s, '@'); idx >= 0 {
		ui := s[:idx]
		if sep := strings.IndexByte(ui, ':'); sep >= 0 {
			u.User = UserPassword(grammar.Unescape(ui[:sep]), grammar.Unescape(ui[sep+1:]))
		} else {
			u.User = User(grammar.Unescape(ui))
		}
		if !u.User.IsValid() {
			return nil, errtrace.Wrap(errorutil.NewWrapperError(grammar.ErrMalformedInput,
				"invalid userinfo %q in URI %q", ui, s))
		}
		s = s[idx+1:]
	}

	hostport := s
	if idx = strings.IndexAny(s, ";?"); idx >= 0 {
		hostport, s = s[:idx], s[idx:]
	} else {
		s = ""
	}
	addr, err := types.ParseAddr(hostport)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	u.Addr = addr

	if s != "" && s[0] == ';' {
		raw, consumed, err := grammar.ScanParams(s, grammar.ScanConfig{
			Start:      ';',
			Sep:        ';',
			End:        '?',
			AllowFlags: true,
		})
		if err != nil {
			return nil, errtrace.Wrap(err)
		}
		u.Params = make(Params, 0, len(raw))
		for _, p := range raw {
			var val ParamValue
			if p.Valued {
				val = NewParamValue(grammar.Unescape(p.Value))
			}
			u.Params = append(u.Params, Param{Key: grammar.Unescape(p.Key), Value: val})
		}
		s = s[consumed:]
	}

	if s != "" {
		if s[0] != '?' {
			return nil, errtrace.Wrap(errorutil.NewWrapperError(grammar.ErrMalformedInput,
				"unexpected %q after uri-parameters", s))
		}
		raw, _, err := grammar.ScanParams(s, grammar.ScanConfig{
			Start: '?',
			Sep:   '&',
		})
		if err != nil {
			return nil, errtrace.Wrap(err)
		}
		u.Headers = make(Params, 0, len(raw))
		for _, p := range raw {
			u.Headers = append(u.Headers, Param{
				Key:   grammar.Unescape(p.Key),
				Value: NewParamValue(grammar.Unescape(p.Value)),
			})
		}
	}
	return &u, nil
}

// MustParseSIP is like [ParseSIP] but panics on error.
func MustParseSIP[T ~string | ~[]byte](src T) *SIP {
	return util.Must2(ParseSIP(src))
}

// Clone returns a deep copy of the SIP URI.
func (u *SIP) Clone() URI {
	if u == nil {
		return nil
	}
	u2 := *u
	u2.Addr = u.Addr.Clone()
	u2.Params = u.Params.Clone()
	u2.Headers = u.Headers.Clone()
	return &u2
}

// Scheme returns the URI scheme.
func (u *SIP) Scheme() string {
	if u == nil {
		return ""
	}
	return u.scheme()
}

func (u *SIP) scheme() string {
	if u.Secured {
		return "sips"
	}
	return "sip"
}

// RenderTo writes the SIP URI to the provided writer.
func (u *SIP) RenderTo(w io.Writer, _ *RenderOptions) (num int, err error) {
	if u == nil {
		return 0, nil
	}

	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	cw.Fprint(u.scheme(), ":")
	if !u.User.IsZero() {
		cw.Fprint(u.User, "@")
	}
	cw.Fprint(u.Addr)
	cw.Call(u.renderParams)
	cw.Call(u.renderHeaders)
	return errtrace.Wrap2(cw.Result())
}

// renderParams dumps uri-parameters in stored order, no sorting or folding.
func (u *SIP) renderParams(w io.Writer) (num int, err error) {
	if len(u.Params) == 0 {
		return 0, nil
	}

	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	for _, p := range u.Params {
		cw.Fprint(";", grammar.Escape(p.Key, shouldEscapeURIParamChar))
		if val, ok := p.Value.Get(); ok {
			cw.Fprint("=", grammar.Escape(val, shouldEscapeURIParamChar))
		}
	}
	return errtrace.Wrap2(cw.Result())
}

func (u *SIP) renderHeaders(w io.Writer) (num int, err error) {
	if len(u.Headers) == 0 {
		return 0, nil
	}

	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	for i, p := range u.Headers {
		if i == 0 {
			cw.Fprint("?")
		} else {
			cw.Fprint("&")
		}
		cw.Fprint(grammar.Escape(p.Key, shouldEscapeURIHeaderChar),
			"=", grammar.Escape(p.Value.String(), shouldEscapeURIHeaderChar))
	}
	return errtrace.Wrap2(cw.Result())
}

// Render returns the string representation of the SIP URI.
func (u *SIP) Render(opts *RenderOptions) string {
	if u == nil {
		return ""
	}
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	u.RenderTo(sb, opts) //nolint:errcheck
	return sb.String()
}

// String returns the string representation of the SIP URI.
func (u *SIP) String() string {
	if u == nil {
		return ""
	}
	return u.Render(nil)
}

// Format implements fmt.Formatter for custom formatting of the SIP URI.
func (u *SIP) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		if f.Flag('+') {
			u.RenderTo(f, nil) //nolint:errcheck
			return
		}
		fmt.Fprint(f, u.String())
		return
	case 'q':
		fmt.Fprint(f, strconv.Quote(u.String()))
		return
	default:
		type hideMethods SIP
		type SIP hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), (*SIP)(u))
		return
	}
}

// Equal compares URIs following the RFC 3261 19.1.4 rules: userinfo
// and special parameters must match, other parameters appearing in
// only one URI are ignored, headers must match exactly.
func (u *SIP) Equal(val any) bool {
	var other *SIP
	switch v := val.(type) {
	case SIP:
		other = &v
	case *SIP:
		other = v
	default:
		return false
	}

	if u == other {
		return true
	} else if u == nil || other == nil {
		return false
	}

	return u.Secured == other.Secured &&
		u.User.Equal(other.User) &&
		u.Addr.Equal(other.Addr) &&
		u.compareParams(other.Params) &&
		u.compareHeaders(other.Headers)
}

var sipURISpecParams = map[string]bool{
	"transport": true,
	"user":      true,
	"method":    true,
	"maddr":     true,
	"ttl":       true,
	"lr":        true,
}

func hasSIPURISpecParam(prms Params) bool {
	for k := range sipURISpecParams {
		if prms.Has(k) {
			return true
		}
	}
	return false
}

func (u *SIP) compareParams(prms Params) bool {
	if len(u.Params) == 0 && len(prms) == 0 {
		return true
	} else if len(u.Params) == 0 {
		return !hasSIPURISpecParam(prms)
	} else if len(prms) == 0 {
		return !hasSIPURISpecParam(u.Params)
	}

	checked := map[string]bool{}
	// Parameters appearing in both URIs must match. A special parameter
	// appearing in one URI must appear in the other, any other parameter
	// appearing in only one list is ignored.
	for _, p := range u.Params {
		if v2, ok := prms.Last(p.Key); ok {
			v1, _ := u.Params.Last(p.Key)
			if !util.EqFold(v1.String(), v2.String()) || v1.IsZero() != v2.IsZero() {
				return false
			}
		} else if sipURISpecParams[util.LCase(p.Key)] {
			return false
		}
		checked[util.LCase(p.Key)] = true
	}
	for k := range sipURISpecParams {
		if checked[k] {
			continue
		}
		if prms.Has(k) {
			return false
		}
	}
	return true
}

func (u *SIP) compareHeaders(hdrs Params) bool {
	// Header components are never ignored, any present header must be
	// present in both URIs and match.
	if len(u.Headers) != len(hdrs) {
		return false
	}
	for _, p := range u.Headers {
		v1, _ := u.Headers.Last(p.Key)
		v2, ok := hdrs.Last(p.Key)
		if !ok || !util.EqFold(v1.String(), v2.String()) {
			return false
		}
	}
	return true
}

func (u *SIP) IsValid() bool {
	return u != nil && u.Addr.IsValid() && (u.User.IsZero() || u.User.IsValid())
}

// LR reports whether the URI carries the lr uri-parameter, i.e. points
// at a loose routing element.
func (u *SIP) LR() bool {
	return u != nil && u.Params.Has("lr")
}

// Transport returns the transport uri-parameter value.
func (u *SIP) Transport() (string, bool) {
	return u.lastParam("transport")
}

// MAddr returns the maddr uri-parameter value.
func (u *SIP) MAddr() (string, bool) {
	return u.lastParam("maddr")
}

// TTL returns the ttl uri-parameter value.
func (u *SIP) TTL() (uint8, bool) {
	val, ok := u.lastParam("ttl")
	if !ok {
		return 0, false
	}
	ttl, err := strconv.ParseUint(val, 10, 8)
	if err != nil {
		return 0, false
	}
	return uint8(ttl), true
}

// UserType returns the user uri-parameter value.
func (u *SIP) UserType() (string, bool) {
	return u.lastParam("user")
}

// Method returns the method uri-parameter value.
func (u *SIP) Method() (string, bool) {
	return u.lastParam("method")
}

func (u *SIP) lastParam(key string) (string, bool) {
	if u == nil {
		return "", false
	}
	val, ok := u.Params.Last(key)
	if !ok || val.IsZero() {
		return "", false
	}
	return val.String(), true
}

// MarshalText implements [encoding.TextMarshaler].
func (u *SIP) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (u *SIP) UnmarshalText(text []byte) error {
	u1, err := ParseSIP(string(text))
	if err != nil {
		*u = SIP{}
		return errtrace.Wrap(err)
	}
	*u = *u1
	return nil
}

// UserInfo is a container for user credentials.
// It is typically used in [SIP] to store the userinfo part.
type UserInfo struct {
	usrname, passwd string
	hasPasswd       bool
}

// User returns a [UserInfo] containing the provided username and no password.
func User(usrname string) UserInfo {
	return UserInfo{usrname: usrname}
}

// UserPassword returns a [UserInfo] containing the provided username and password.
func UserPassword(usrname, passwd string) UserInfo {
	return UserInfo{usrname: usrname, passwd: passwd, hasPasswd: true}
}

func (ui UserInfo) Username() string { return ui.usrname }

// Password returns the password, in case it is set, and bool flag indicating whether it is set.
func (ui UserInfo) Password() (string, bool) { return ui.passwd, ui.hasPasswd }

func shouldEscapeUserChar(c byte) bool { return !grammar.IsURIUserCharUnreserved(c) }

func shouldEscapePasswdChar(c byte) bool { return !grammar.IsURIPasswdCharUnreserved(c) }

func shouldEscapeURIParamChar(c byte) bool { return !grammar.IsURIParamCharUnreserved(c) }

func shouldEscapeURIHeaderChar(c byte) bool { return !grammar.IsURIHeaderCharUnreserved(c) }

func (ui UserInfo) String() string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	if ui.usrname != "" {
		sb.WriteString(grammar.Escape(ui.usrname, shouldEscapeUserChar))
	}
	if ui.hasPasswd {
		sb.WriteString(":")
		sb.WriteString(grammar.Escape(ui.passwd, shouldEscapePasswdChar))
	}
	return sb.String()
}

func (ui UserInfo) Equal(val any) bool {
	var other UserInfo
	switch v := val.(type) {
	case UserInfo:
		other = v
	case *UserInfo:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return ui.usrname == other.usrname && ui.passwd == other.passwd && ui.hasPasswd == other.hasPasswd
}

func (ui UserInfo) IsValid() bool { return ui.usrname != "" }

func (ui UserInfo) IsZero() bool { return ui.usrname == "" && ui.passwd == "" && !ui.hasPasswd }
