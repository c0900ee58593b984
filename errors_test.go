package sightline

import (
	"errors"
	"testing"
)

func TestNameFormatError_Error(t *testing.T) {
	_, err := ParseName("server..port", Strict)

	var nfe *NameFormatError
	if !errors.As(err, &nfe) {
		t.Fatalf("ParseName error = %v, want *NameFormatError", err)
	}
	if nfe.Raw != "server..port" {
		t.Errorf("Raw = %q, want %q", nfe.Raw, "server..port")
	}

	got := nfe.Error()
	want := `invalid property name "server..port" at offset 7: empty element`
	if got != want {
		t.Errorf("Error()\ngot:  %q\nwant: %q", got, want)
	}
}

func TestSourceFault_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	fault := &SourceFault{Source: "vault", Name: MustParseName("db.password"), Err: cause}

	if !errors.Is(fault, cause) {
		t.Error("errors.Is(fault, cause) = false, want true")
	}
	want := "source vault: lookup db.password: connection refused"
	if got := fault.Error(); got != want {
		t.Errorf("Error()\ngot:  %q\nwant: %q", got, want)
	}
}

func TestUnresolvedPlaceholderError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *UnresolvedPlaceholderError
		want string
	}{
		{
			name: "direct",
			err:  &UnresolvedPlaceholderError{Name: "missing"},
			want: "could not resolve placeholder ${missing}",
		},
		{
			name: "through chain",
			err:  &UnresolvedPlaceholderError{Name: "c", Chain: []string{"a", "b"}},
			want: "could not resolve placeholder ${c} (via a -> b)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}
