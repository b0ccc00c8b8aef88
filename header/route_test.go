package header_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/sipward/siproute/header"
	"github.com/sipward/siproute/uri"
)

func TestParseRoute(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		vals    []string
		want    header.Route
		wantErr error
	}{
		{"no values", nil, nil, nil},
		{
			"single entry",
			[]string{"<sip:p1.example.com;lr>"},
			header.Route{header.MustParseRouteHop("<sip:p1.example.com;lr>")},
			nil,
		},
		{
			"comma separated entries",
			[]string{"<sip:p1.example.com;lr>, <sip:p2.example.com;lr>"},
			header.Route{
				header.MustParseRouteHop("<sip:p1.example.com;lr>"),
				header.MustParseRouteHop("<sip:p2.example.com;lr>"),
			},
			nil,
		},
		{
			"entries keep order across values",
			[]string{"<sip:a.example.com>,<sip:b.example.com>", "<sip:c.example.com>"},
			header.Route{
				header.MustParseRouteHop("<sip:a.example.com>"),
				header.MustParseRouteHop("<sip:b.example.com>"),
				header.MustParseRouteHop("<sip:c.example.com>"),
			},
			nil,
		},
		{
			"entry params before the comma",
			[]string{"<sip:p1.example.com>;ord=1,<sip:p2.example.com>"},
			header.Route{
				header.MustParseRouteHop("<sip:p1.example.com>;ord=1"),
				header.MustParseRouteHop("<sip:p2.example.com>"),
			},
			nil,
		},
		{
			"quoted comma does not split",
			[]string{`"Smith, John" <sip:p1.example.com>`},
			header.Route{header.MustParseRouteHop(`"Smith, John" <sip:p1.example.com>`)},
			nil,
		},
		{
			"quoted param comma does not split",
			[]string{`<sip:p1.example.com>;reason="a, b"`},
			header.Route{header.MustParseRouteHop(`<sip:p1.example.com>;reason="a, b"`)},
			nil,
		},
		{"invalid entry", []string{"<sip:>"}, nil, header.ErrInvalidRoute},
		{"invalid entry in tail", []string{"<sip:a.example.com>,<sip:>"}, nil, header.ErrInvalidRoute},
		{"invalid params", []string{"<sip:a.example.com>;"}, nil, header.ErrInvalidParams},
		{"garbage between entries", []string{"<sip:a.example.com> junk,<sip:b.example.com>"}, nil, header.ErrGarbageAtEnd},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hdr, err := header.ParseRoute(tt.vals...)
			if diff := cmp.Diff(tt.wantErr, err, cmpopts.EquateErrors()); diff != "" {
				t.Fatalf("ParseRoute(%q) error mismatch (-want +got):\n%s", tt.vals, diff)
			}
			if tt.wantErr != nil {
				return
			}
			if diff := cmp.Diff(tt.want, hdr); diff != "" {
				t.Errorf("ParseRoute(%q) mismatch (-want +got):\n%s", tt.vals, diff)
			}
		})
	}
}

func TestParseRouteRaw(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     header.Raw
		want    header.Route
		wantErr error
	}{
		{
			"canonical name",
			header.Raw{Name: "Route", Values: []string{"<sip:p1.example.com;lr>"}},
			header.Route{header.MustParseRouteHop("<sip:p1.example.com;lr>")},
			nil,
		},
		{
			"name is case-insensitive",
			header.Raw{Name: "ROUTE", Values: []string{"<sip:p1.example.com;lr>"}},
			header.Route{header.MustParseRouteHop("<sip:p1.example.com;lr>")},
			nil,
		},
		{
			"wrong name",
			header.Raw{Name: "Record-Route", Values: []string{"<sip:p1.example.com;lr>"}},
			nil,
			cmpopts.AnyError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hdr, err := header.ParseRouteRaw(tt.raw)
			if diff := cmp.Diff(tt.wantErr, err, cmpopts.EquateErrors()); diff != "" {
				t.Fatalf("ParseRouteRaw() error mismatch (-want +got):\n%s", diff)
			}
			if tt.wantErr != nil {
				return
			}
			if diff := cmp.Diff(tt.want, hdr); diff != "" {
				t.Errorf("ParseRouteRaw() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRoute_Render(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		hdr  header.Route
		want string
	}{
		{"nil", nil, ""},
		{"empty", header.Route{}, "Route: "},
		{"empty elem", header.Route{{}}, "Route: <>"},
		{
			"single",
			header.MustParseRoute("<sip:p1.example.com;lr>"),
			"Route: <sip:p1.example.com;lr>",
		},
		{
			"several",
			header.MustParseRoute("<sip:p1.example.com;lr>,<sip:p2.example.com;lr>;ord=2"),
			"Route: <sip:p1.example.com;lr>, <sip:p2.example.com;lr>;ord=2",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.hdr.Render(nil); got != tt.want {
				t.Errorf("Render(nil) = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRoute_RenderTo(t *testing.T) {
	t.Parallel()

	hdr := header.MustParseRoute("<sip:p1.example.com;lr>,<sip:p2.example.com;lr>")

	var sb strings.Builder
	num, err := hdr.RenderTo(&sb, nil)
	if err != nil {
		t.Fatalf("RenderTo() error: %v", err)
	}

	want := "Route: <sip:p1.example.com;lr>, <sip:p2.example.com;lr>"
	if got := sb.String(); got != want {
		t.Errorf("RenderTo() wrote %q, want %q", got, want)
	}
	if num != len(want) {
		t.Errorf("RenderTo() num = %d, want %d", num, len(want))
	}
}

func TestRoute_RenderValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		hdr  header.Route
		want string
	}{
		{"nil", nil, ""},
		{"empty elem", header.Route{{}}, "<>"},
		{
			"several",
			header.MustParseRoute("<sip:p1.example.com;lr>", "<sip:p2.example.com;lr>"),
			"<sip:p1.example.com;lr>, <sip:p2.example.com;lr>",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.hdr.RenderValue(); got != tt.want {
				t.Errorf("RenderValue() = %q, want %q", got, tt.want)
			}
			if got := tt.hdr.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRoute_Build(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		hdr  header.Route
		want header.Raw
	}{
		{"nil", nil, header.Raw{Name: "Route"}},
		{"empty", header.Route{}, header.Raw{Name: "Route"}},
		{
			"one value per hop",
			header.MustParseRoute("<sip:p1.example.com;lr>,<sip:p2.example.com>;ord=2"),
			header.Raw{Name: "Route", Values: []string{
				"<sip:p1.example.com;lr>",
				"<sip:p2.example.com>;ord=2",
			}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if diff := cmp.Diff(tt.want, tt.hdr.Build()); diff != "" {
				t.Errorf("Build() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRoute_RoundTrip(t *testing.T) {
	t.Parallel()

	hdr := header.MustParseRoute(
		"<sip:p1.example.com;lr>;ord=1",
		`"Smith, John" <sips:p2.example.com:5061;transport=tls>,<sip:p3.example.com>;lr`,
	)

	t.Run("value", func(t *testing.T) {
		t.Parallel()

		hdr2 := header.MustParseRoute(hdr.RenderValue())
		if diff := cmp.Diff(hdr, hdr2); diff != "" {
			t.Errorf("round trip mismatch (-first +second):\n%s", diff)
		}
	})

	t.Run("raw", func(t *testing.T) {
		t.Parallel()

		hdr2, err := header.ParseRouteRaw(hdr.Build())
		if err != nil {
			t.Fatalf("ParseRouteRaw() error: %v", err)
		}
		if diff := cmp.Diff(hdr, hdr2); diff != "" {
			t.Errorf("round trip mismatch (-first +second):\n%s", diff)
		}
	})
}

func TestRoute_Equal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		hdr1 header.Route
		hdr2 any
		want bool
	}{
		{"nil vs nil", nil, header.Route(nil), true},
		{"nil vs empty", nil, header.Route{}, true},
		{
			"same",
			header.MustParseRoute("<sip:p1.example.com;lr>"),
			header.MustParseRoute("<sip:p1.example.com;lr>"),
			true,
		},
		{
			"pointer",
			header.MustParseRoute("<sip:p1.example.com;lr>"),
			func() *header.Route { h := header.MustParseRoute("<sip:p1.example.com;lr>"); return &h }(),
			true,
		},
		{
			"hop order matters",
			header.MustParseRoute("<sip:a.example.com>,<sip:b.example.com>"),
			header.MustParseRoute("<sip:b.example.com>,<sip:a.example.com>"),
			false,
		},
		{
			"different length",
			header.MustParseRoute("<sip:a.example.com>"),
			header.MustParseRoute("<sip:a.example.com>,<sip:b.example.com>"),
			false,
		},
		{
			"other header kind",
			header.MustParseRoute("<sip:a.example.com>"),
			header.MustParseRecordRoute("<sip:a.example.com>"),
			false,
		},
		{"nil pointer", header.MustParseRoute("<sip:a.example.com>"), (*header.Route)(nil), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.hdr1.Equal(tt.hdr2); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRoute_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		hdr  header.Route
		want bool
	}{
		{"nil", nil, false},
		{"empty", header.Route{}, false},
		{"empty elem", header.Route{{}}, false},
		{"valid", header.MustParseRoute("<sip:p1.example.com;lr>,<sip:p2.example.com>"), true},
		{
			"invalid elem",
			header.Route{
				header.MustParseRouteHop("<sip:p1.example.com;lr>"),
				{URI: uri.MustParse("sip:p2.example.com"), Params: header.Params{{Key: "a b"}}},
			},
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.hdr.IsValid(); got != tt.want {
				t.Errorf("IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRoute_Clone(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		hdr  header.Route
	}{
		{"nil", nil},
		{"empty", header.Route{}},
		{"several", header.MustParseRoute("<sip:p1.example.com;lr>;ord=1,<sip:p2.example.com>")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hdr2 := tt.hdr.Clone()
			if diff := cmp.Diff(header.Header(tt.hdr), hdr2); diff != "" {
				t.Errorf("Clone() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
