package uri_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sipward/siproute/uri"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		src        string
		wantScheme string
		wantSIP    bool
	}{
		{"sip", "sip:example.com", "sip", true},
		{"sips", "sips:example.com", "sips", true},
		{"sip upper", "SIP:example.com", "sip", true},
		{"tel", "tel:+12015550123", "tel", false},
		{"http", "http://example.com/path", "http", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			u, err := uri.Parse(tt.src)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.src, err)
			}
			if _, ok := u.(*uri.SIP); ok != tt.wantSIP {
				t.Errorf("Parse(%q) returned %T, want SIP=%v", tt.src, u, tt.wantSIP)
			}
			if got := uri.GetScheme(u); got != tt.wantScheme {
				t.Errorf("GetScheme() = %q, want %q", got, tt.wantScheme)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	srcs := []string{
		"",
		// the sip prefix commits the parse to the sip grammar
		"sipx:example.com",
		"sip:",
	}
	for _, src := range srcs {
		t.Run(src, func(t *testing.T) {
			t.Parallel()

			if _, err := uri.Parse(src); err == nil {
				t.Errorf("Parse(%q) expected an error", src)
			}
		})
	}
}

func TestGetAddr(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		u    uri.URI
		want string
	}{
		{"nil", nil, ""},
		{"sip", uri.MustParse("sip:example.com:5060"), "example.com:5060"},
		{"http", uri.MustParse("http://example.com/path"), "example.com/path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := uri.GetAddr(tt.u); got != tt.want {
				t.Errorf("GetAddr() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetParams(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		u    uri.URI
		want uri.Params
	}{
		{"nil", nil, nil},
		{
			"sip",
			uri.MustParse("sip:example.com;lr;transport=tcp"),
			uri.Params{
				{Key: "lr"},
				{Key: "transport", Value: uri.NewParamValue("tcp")},
			},
		},
		{
			"http query",
			uri.MustParse("http://example.com/path?a=1"),
			uri.Params{{Key: "a", Value: uri.NewParamValue("1")}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if diff := cmp.Diff(tt.want, uri.GetParams(tt.u)); diff != "" {
				t.Errorf("GetParams() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAny(t *testing.T) {
	t.Parallel()

	u, err := uri.ParseAny("tel:+12015550123")
	if err != nil {
		t.Fatalf("ParseAny() error: %v", err)
	}
	if got := u.Scheme(); got != "tel" {
		t.Errorf("Scheme() = %q, want \"tel\"", got)
	}
	if got := u.String(); got != "tel:+12015550123" {
		t.Errorf("String() = %q, want original form", got)
	}
	if !u.IsValid() {
		t.Error("IsValid() = false, want true")
	}
	if !u.Equal(uri.MustParse("TEL:+12015550123")) {
		t.Error("Equal() must fold the rendered forms")
	}

	u2, ok := u.Clone().(*uri.Any)
	if !ok {
		t.Fatal("Clone() did not return an Any URI")
	}
	if !u.Equal(u2) {
		t.Error("Clone() must render identically")
	}
}
