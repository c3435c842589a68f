package elabctx

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/example/mltt-elab/internal/core"
	"github.com/example/mltt-elab/internal/domain"
	"github.com/example/mltt-elab/internal/meta"
)

func u(level uint32) domain.Value { return domain.Universe{Level: level} }

func TestAddParams(t *testing.T) {
	ctx := Empty(meta.New())

	ty1, ty2, ty3 := u(0), u(1), u(2)

	param1 := ctx.AddParam("x", ty1)
	param2 := ctx.AddParam("y", ty2)
	param3 := ctx.AddParam("z", ty3)

	require.Equal(t, domain.Var(0), param1)
	require.Equal(t, domain.Var(1), param2)
	require.Equal(t, domain.Var(2), param3)

	for name, want := range map[string]domain.Value{"x": ty1, "y": ty2, "z": ty3} {
		_, ty, ok := ctx.LookupBinder(name)
		require.True(t, ok, "lookup_binder(%q) missing", name)
		require.Equal(t, want, ty)
	}
}

func TestAddParamsShadow(t *testing.T) {
	ctx := Empty(meta.New())

	ty1, ty2, ty3 := u(0), u(1), u(2)

	param1 := ctx.AddParam("x", ty1)
	param2 := ctx.AddParam("x", ty2)
	param3 := ctx.AddParam("x", ty3)

	require.Equal(t, domain.Var(0), param1)
	require.Equal(t, domain.Var(1), param2)
	require.Equal(t, domain.Var(2), param3)

	_, ty, ok := ctx.LookupBinder("x")
	require.True(t, ok, "lookup_binder(x) missing")
	require.Equal(t, ty3, ty, "shadowed lookup_binder(x) should see the last binding")
}

func TestAddParamsFresh(t *testing.T) {
	ctx := Empty(meta.New())

	ty1, ty2, ty3 := u(0), u(1), u(2)

	param1 := ctx.AddParam("x", ty1)
	param2 := ctx.AddFreshParam(ty2)
	param3 := ctx.AddFreshParam(ty3)

	require.Equal(t, domain.Var(0), param1)
	require.Equal(t, domain.Var(1), param2)
	require.Equal(t, domain.Var(2), param3)

	_, ty, ok := ctx.LookupBinder("x")
	require.True(t, ok, "lookup_binder(x) missing")
	require.Equal(t, ty1, ty)
}

// A default-constructed context exposes the built-in primitive
// bindings as ordinary names (spec.md section 6.1).
func TestDefaultContextHasPrimitives(t *testing.T) {
	ctx := New()
	for _, name := range []string{"String", "Char", "Bool", "true", "false", "U8", "F64"} {
		_, _, ok := ctx.LookupBinder(name)
		require.True(t, ok, "default context missing binding for %q", name)
	}
}

// NewMeta returns the meta applied to every currently bound
// parameter, in order, but not to let-bound definitions.
func TestNewMetaSpineSkipsLetBindings(t *testing.T) {
	ctx := Empty(meta.New())
	ctx.AddDefn("letBound", domain.Var(0), u(0)) // a let-binding: must not enter the spine
	ctx.AddParam("x", u(0))
	ctx.AddParam("y", u(0))

	term := ctx.NewMeta(nil, u(0))

	spineLen := 0
	cur := term
	for {
		fe, ok := cur.(core.FunElim)
		if !ok {
			break
		}
		spineLen++
		cur = fe.Fun
	}
	_, ok := cur.(core.Meta)
	require.True(t, ok, "expected spine to bottom out at a bare meta, got %T", cur)
	require.Equal(t, 2, spineLen, "expected a 2-entry spine (x, y only)")
}
