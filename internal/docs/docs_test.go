package docs

import (
	"testing"

	"github.com/example/mltt-elab/internal/errors"
)

func TestConcatStripsPrefixes(t *testing.T) {
	got := Concat([]string{"||| first line\n", "|||second line\n", "no prefix\n"})
	want := "first line\nsecond line\nno prefix\n"
	if got != want {
		t.Fatalf("concat = %q, want %q", got, want)
	}
}

func TestMergePrefersWhicheverSideIsDocumented(t *testing.T) {
	got, err := Merge("foo", []string{"||| decl\n"}, nil)
	if err != nil {
		t.Fatalf("merge(decl only): %v", err)
	}
	if got != "decl\n" {
		t.Fatalf("merge(decl only) = %q, want %q", got, "decl\n")
	}

	got, err = Merge("foo", nil, []string{"||| defn\n"})
	if err != nil {
		t.Fatalf("merge(defn only): %v", err)
	}
	if got != "defn\n" {
		t.Fatalf("merge(defn only) = %q, want %q", got, "defn\n")
	}

	got, err = Merge("foo", nil, nil)
	if err != nil {
		t.Fatalf("merge(neither): %v", err)
	}
	if got != "" {
		t.Fatalf("merge(neither) = %q, want empty", got)
	}
}

func TestMergeBothDocumentedFails(t *testing.T) {
	_, err := Merge("foo", []string{"||| decl\n"}, []string{"||| defn\n"})
	if err == nil {
		t.Fatal("expected an AlreadyDocumented error")
	}
	rep, ok := errors.AsReport(err)
	if !ok || rep.Code != errors.ELB900 {
		t.Fatalf("expected ELB900, got %v", err)
	}
}
