// Package docs implements doc-comment handling (spec.md section 6.3):
// concatenating tokenized doc-comment lines into a single string, and
// choosing between a declaration's and a definition's doc comments
// when both exist for the same name.
package docs

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/example/mltt-elab/internal/errors"
)

// Concat joins a sequence of tokenized doc-comment lines into a single
// string, stripping the "||| " or "|||" prefix tokenization leaves on
// each line. Lines are assumed to already carry their trailing
// newline, same as the tokenizer produces them.
func Concat(docLines []string) string {
	var doc strings.Builder
	for _, line := range docLines {
		switch {
		case strings.HasPrefix(line, "||| "):
			doc.WriteString(line[len("||| "):])
		case strings.HasPrefix(line, "|||"):
			doc.WriteString(line[len("|||"):])
		default:
			doc.WriteString(line)
		}
	}
	return doc.String()
}

// Merge selects the documentation for name from whichever of a
// declaration and its definition carries doc comments, failing if
// both do: a binding documented in two places is ambiguous about
// which doc string is authoritative.
func Merge(name string, declDocs, defnDocs []string) (string, error) {
	switch {
	case len(declDocs) == 0 && len(defnDocs) == 0:
		return "", nil
	case len(defnDocs) == 0:
		return Concat(declDocs), nil
	case len(declDocs) == 0:
		return Concat(defnDocs), nil
	default:
		return "", errors.New(errors.ELB900, nil, "already documented: "+name, map[string]any{"name": name})
	}
}

// ExplainConflict renders a human-readable, colorized explanation of
// an ELB900 conflict for interactive use, showing both candidate doc
// strings side by side. It is a debug/example aid only - Merge itself
// never needs to colorize anything, since its error is meant to be
// handled programmatically via internal/errors.
func ExplainConflict(name string, declDocs, defnDocs []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s has documentation on both its declaration and its definition:\n", color.New(color.Bold).Sprint(name))
	fmt.Fprintf(&b, "  %s %s", color.RedString("declaration:"), Concat(declDocs))
	fmt.Fprintf(&b, "  %s %s", color.RedString("definition: "), Concat(defnDocs))
	return b.String()
}
