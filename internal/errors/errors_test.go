package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "render error",
			code:    "E100",
			wantMsg: "Render failed",
			wantCat: CategoryRender,
		},
		{
			name:    "not found",
			code:    "E201",
			wantMsg: "NotFound",
			wantCat: CategoryLookup,
		},
		{
			name:    "subscription error",
			code:    "E300",
			wantMsg: "Subscriber failed",
			wantCat: CategorySubscription,
		},
		{
			name:    "unknown error code",
			code:    "E999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
		})
	}
}

func TestErrorString(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := New("E100").WithComponent("tool-tip#1").Wrap(cause)

	want := "E100: Render failed [tool-tip#1]: boom"
	if got := err.Error(); got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}

func TestUnwrapAndIs(t *testing.T) {
	sentinel := stderrors.New("sentinel")
	err := fmt.Errorf("outer: %w", New("E201").Wrap(sentinel))

	if !stderrors.Is(err, sentinel) {
		t.Error("expected errors.Is to reach the wrapped sentinel")
	}
	if !stderrors.Is(err, New("E201")) {
		t.Error("expected errors.Is to match by code")
	}
	if stderrors.Is(err, New("E200")) {
		t.Error("expected different codes not to match")
	}
	if got := CategoryOf(err); got != CategoryLookup {
		t.Errorf("CategoryOf = %q, want %q", got, CategoryLookup)
	}
	if got := CodeOf(err); got != "E201" {
		t.Errorf("CodeOf = %q, want E201", got)
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "E100") != nil {
		t.Fatal("FromError(nil) should be nil")
	}

	existing := New("E300")
	if got := FromError(fmt.Errorf("ctx: %w", existing), "E100"); got != existing {
		t.Errorf("FromError should return the existing *Error, got %v", got)
	}

	plain := stderrors.New("plain")
	got := FromError(plain, "E200")
	if got.Code != "E200" || got.Wrapped != plain {
		t.Errorf("FromError wrapped incorrectly: %+v", got)
	}
}

func TestPretty(t *testing.T) {
	err := New("E401").WithDetail("tag \"tool-tip\" registered twice")

	out := err.Pretty(false)
	for _, want := range []string{"E401", "Duplicate component tag", "(config)", "registered twice"} {
		if !strings.Contains(out, want) {
			t.Errorf("Pretty() missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\033[") {
		t.Error("Pretty(false) should not contain ANSI codes")
	}
	if !strings.Contains(err.Pretty(true), "\033[") {
		t.Error("Pretty(true) should contain ANSI codes")
	}
}

func TestAllCodesHaveCategory(t *testing.T) {
	for _, code := range GetAllCodes() {
		tmpl, ok := GetTemplate(code)
		if !ok {
			t.Fatalf("GetTemplate(%q) not found", code)
		}
		if tmpl.Category == "" {
			t.Errorf("code %s has no category", code)
		}
		if tmpl.Message == "" {
			t.Errorf("code %s has no message", code)
		}
	}
}
