// Package prim holds the primitive environment: the fixed table of
// named built-ins (String, Char, Bool, true, false, and the sized
// numeric types) that every elaboration context starts out with. The
// default table is data, not code - it is described by a YAML
// manifest and decoded with gopkg.in/yaml.v3, the same loader shape
// the teacher's eval_harness.LoadSpec uses for benchmark specs.
package prim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/example/mltt-elab/internal/domain"
	"github.com/example/mltt-elab/internal/literal"
)

// Entry is one primitive binding: its universe-typed or literal-typed
// value, and the type that value inhabits.
type Entry struct {
	Name string
	Type domain.Value
	Value domain.Value
}

// Env is the primitive environment: an ordered table of entries,
// ordered so that Default() can be replayed deterministically into an
// elaboration context.
type Env struct {
	entries []Entry
}

// Entries returns the entries in declaration order.
func (e Env) Entries() []Entry { return e.entries }

// manifestEntry is the YAML-decoded shape of one primitive.
type manifestEntry struct {
	Name    string      `yaml:"name"`
	Kind    string      `yaml:"kind"`    // "type" or "value"
	Literal string      `yaml:"literal"` // the literal.Type name this entry is/has
	Value   interface{} `yaml:"value"`   // only for kind: value
}

type manifest struct {
	Universe uint32          `yaml:"universe"`
	Entries  []manifestEntry `yaml:"entries"`
}

var literalTypeByName = map[string]literal.Type{
	"String": literal.String,
	"Char":   literal.Char,
	"Bool":   literal.Bool,
	"U8":     literal.U8,
	"U16":    literal.U16,
	"U32":    literal.U32,
	"U64":    literal.U64,
	"S8":     literal.S8,
	"S16":    literal.S16,
	"S32":    literal.S32,
	"S64":    literal.S64,
	"F32":    literal.F32,
	"F64":    literal.F64,
}

// Default is the built-in primitive environment described in
// spec.md section 6.1: String, Char, Bool, true, false, U8..U64,
// S8..S64, F32, F64, all bound at universe 0. It is produced by
// decoding the default manifest rather than constructed by hand, so
// that a caller who wants an extended or reduced literal table can
// load their own manifest with the same decoder (see Load).
func Default() Env {
	env, err := decode([]byte(defaultManifestYAML))
	if err != nil {
		// The default manifest is compiled into the binary and
		// covered by TestDefaultManifestDecodes; a decode failure
		// here means the manifest itself is malformed, a bug.
		panic(fmt.Sprintf("prim: default manifest failed to decode: %v", err))
	}
	return env
}

// Load reads a primitive-environment manifest from a YAML file.
func Load(path string) (Env, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Env{}, fmt.Errorf("prim: reading manifest: %w", err)
	}
	return decode(data)
}

func decode(data []byte) (Env, error) {
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Env{}, fmt.Errorf("prim: parsing manifest: %w", err)
	}

	universeTy := domain.Universe{Level: m.Universe}
	env := Env{}
	for _, me := range m.Entries {
		litTy, ok := literalTypeByName[me.Literal]
		if !ok {
			return Env{}, fmt.Errorf("prim: entry %q names unknown literal type %q", me.Name, me.Literal)
		}
		switch me.Kind {
		case "type":
			env.entries = append(env.entries, Entry{
				Name:  me.Name,
				Type:  universeTy,
				Value: domain.LiteralType{Type: litTy},
			})
		case "value":
			env.entries = append(env.entries, Entry{
				Name:  me.Name,
				Type:  domain.LiteralType{Type: litTy},
				Value: domain.LiteralIntro{Value: literal.Intro{Kind: litTy, Value: me.Value}},
			})
		default:
			return Env{}, fmt.Errorf("prim: entry %q has unknown kind %q", me.Name, me.Kind)
		}
	}
	return env, nil
}

const defaultManifestYAML = `
universe: 0
entries:
  - {name: String, kind: type, literal: String}
  - {name: Char, kind: type, literal: Char}
  - {name: Bool, kind: type, literal: Bool}
  - {name: "true", kind: value, literal: Bool, value: true}
  - {name: "false", kind: value, literal: Bool, value: false}
  - {name: U8, kind: type, literal: U8}
  - {name: U16, kind: type, literal: U16}
  - {name: U32, kind: type, literal: U32}
  - {name: U64, kind: type, literal: U64}
  - {name: S8, kind: type, literal: S8}
  - {name: S16, kind: type, literal: S16}
  - {name: S32, kind: type, literal: S32}
  - {name: S64, kind: type, literal: S64}
  - {name: F32, kind: type, literal: F32}
  - {name: F64, kind: type, literal: F64}
`
