package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestNewAndAsReport(t *testing.T) {
	err := New(ELB001, nil, "unbound variable `x`", map[string]any{"name": "x"})
	rep, ok := AsReport(err)
	if !ok {
		t.Fatal("expected AsReport to find a Report")
	}
	if rep.Code != ELB001 || rep.Phase != "elaborate" {
		t.Fatalf("unexpected report: %+v", rep)
	}
	if !strings.Contains(err.Error(), ELB001) {
		t.Fatalf("Error() should mention the code: %s", err.Error())
	}
}

func TestAsReportMissOnPlainError(t *testing.T) {
	if _, ok := AsReport(errors.New("plain")); ok {
		t.Fatal("AsReport should not find a Report in a plain error")
	}
}

func TestNewPanicsOnUnregisteredCode(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for unregistered code")
		}
	}()
	New("NOPE000", nil, "x", nil)
}

func TestToJSONRoundTrips(t *testing.T) {
	err := New(UNI004, nil, "occurs check failed", nil)
	rep, _ := AsReport(err)
	js, jsErr := rep.ToJSON()
	if jsErr != nil {
		t.Fatalf("ToJSON: %v", jsErr)
	}
	if !strings.Contains(js, UNI004) {
		t.Fatalf("expected JSON to contain code: %s", js)
	}
}
