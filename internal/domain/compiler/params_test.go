package compiler

import (
	"testing"

	"github.com/felixgeelhaar/ogbon/internal/domain/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileContext_String(t *testing.T) {
	t.Parallel()

	ctx := NewCompileContext(map[string]interface{}{
		"s":     "1.17.0",
		"i":     17,
		"i64":   int64(12),
		"f":     3.29,
		"b":     true,
		"list":  []interface{}{"a"},
		"empty": nil,
	})

	assert.Equal(t, "1.17.0", ctx.String("s", ""))
	assert.Equal(t, "17", ctx.String("i", ""))
	assert.Equal(t, "12", ctx.String("i64", ""))
	assert.Equal(t, "3.29", ctx.String("f", ""))
	assert.Equal(t, "true", ctx.String("b", ""))
	assert.Equal(t, "def", ctx.String("missing", "def"))
	assert.Equal(t, "def", ctx.String("empty", "def"))
	assert.Equal(t, "def", ctx.String("list", "def"))

	err := ctx.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `parameter "list": expected a string`)
}

func TestCompileContext_BoolAndInt(t *testing.T) {
	t.Parallel()

	ctx := NewCompileContext(map[string]interface{}{
		"yes":    true,
		"str":    "false",
		"n":      8,
		"fl":     float64(4),
		"ns":     "16",
		"bad":    "maybe",
		"badint": 1.5,
	})

	assert.True(t, ctx.Bool("yes", false))
	assert.False(t, ctx.Bool("str", true))
	assert.True(t, ctx.Bool("missing", true))
	assert.Equal(t, 8, ctx.Int("n", 0))
	assert.Equal(t, 4, ctx.Int("fl", 0))
	assert.Equal(t, 16, ctx.Int("ns", 0))
	assert.Equal(t, 2, ctx.Int("missing", 2))
	assert.True(t, ctx.Bool("bad", true))
	assert.Equal(t, 1, ctx.Int("badint", 1))

	err := ctx.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `parameter "bad": expected a boolean`)
	assert.Contains(t, err.Error(), `parameter "badint": expected an integer`)
}

func TestCompileContext_Strings(t *testing.T) {
	t.Parallel()

	ctx := NewCompileContext(map[string]interface{}{
		"list":   []interface{}{"git", "wget", "git", 3},
		"single": "make",
		"typed":  []string{"a", "b"},
		"nested": []interface{}{map[string]interface{}{}},
	})

	assert.Equal(t, []string{"git", "wget", "git", "3"}, ctx.Strings("list"))
	assert.Equal(t, []string{"make"}, ctx.Strings("single"))
	assert.Equal(t, []string{"a", "b"}, ctx.Strings("typed"))
	assert.Nil(t, ctx.Strings("missing"))
	assert.Nil(t, ctx.Strings("nested"))

	require.Error(t, ctx.Err())
}

func TestCompileContext_StringMap(t *testing.T) {
	t.Parallel()

	ctx := NewCompileContext(map[string]interface{}{
		"vars":  map[string]interface{}{"CC": "clang", "JOBS": 8},
		"typed": map[string]string{"A": "1"},
		"bad":   "x",
	})

	assert.Equal(t, map[string]string{"CC": "clang", "JOBS": "8"}, ctx.StringMap("vars"))
	assert.Equal(t, map[string]string{"A": "1"}, ctx.StringMap("typed"))
	assert.Nil(t, ctx.StringMap("bad"))
	assert.Nil(t, ctx.StringMap("missing"))

	err := ctx.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `parameter "bad": expected a map`)
}

func TestCompileContext_BoolOrString(t *testing.T) {
	t.Parallel()

	ctx := NewCompileContext(map[string]interface{}{
		"on":   true,
		"off":  "false",
		"path": "/usr/local/cuda",
		"num":  3,
	})

	on, v := ctx.BoolOrString("on")
	assert.True(t, on)
	assert.Empty(t, v)

	on, _ = ctx.BoolOrString("off")
	assert.False(t, on)

	on, v = ctx.BoolOrString("path")
	assert.True(t, on)
	assert.Equal(t, "/usr/local/cuda", v)

	on, _ = ctx.BoolOrString("missing")
	assert.False(t, on)

	on, _ = ctx.BoolOrString("num")
	assert.False(t, on)
	require.Error(t, ctx.Err())
}

func TestCompileContext_PathAndHas(t *testing.T) {
	t.Parallel()

	ctx := NewCompileContext(map[string]interface{}{
		"prefix": "/usr/local/ucx/",
		"root":   "/",
	})

	assert.Equal(t, "/usr/local/ucx", ctx.Path("prefix", ""))
	assert.Equal(t, "/", ctx.Path("root", ""))
	assert.Equal(t, "/opt", ctx.Path("missing", "/opt"))
	assert.True(t, ctx.Has("prefix"))
	assert.False(t, ctx.Has("other"))
	require.NoError(t, ctx.Err())
}

func TestCompileContext_UnknownParameters(t *testing.T) {
	t.Parallel()

	ctx := NewCompileContext(map[string]interface{}{
		"version": "1.0",
		"verison": "2.0",
		"prefx":   "/x",
	})
	_ = ctx.String("version", "")

	err := ctx.Err()
	require.Error(t, err)
	assert.Equal(t, "unknown parameter(s): prefx, verison", err.Error())
}

func TestCompileContext_ShorthandSharedAcrossCopies(t *testing.T) {
	t.Parallel()

	ctx := NewCompileContext(map[string]interface{}{config.ShorthandKey: []interface{}{"a", "b"}})
	ctx = ctx.WithShorthand("commands").WithID("x").WithTarget("gpu")

	assert.Equal(t, []string{"a", "b"}, ctx.Strings("commands"))
	assert.Equal(t, "x", ctx.ID())
	assert.Equal(t, "gpu", ctx.Target())
	require.NoError(t, ctx.Err())
}

func TestCompileContext_Fail(t *testing.T) {
	t.Parallel()

	ctx := NewCompileContext(nil)
	ctx.Fail("version", "unsupported on %s", "centos7")

	assert.EqualError(t, ctx.Err(), `parameter "version": unsupported on centos7`)
}

func TestCompileContext_Variables(t *testing.T) {
	t.Parallel()

	ctx := NewCompileContext(nil).WithVariables(map[string]string{"llvm": "17"})

	v, ok := ctx.Variable("llvm")
	assert.True(t, ok)
	assert.Equal(t, "17", v)

	_, ok = ctx.Variable("gcc")
	assert.False(t, ok)
	assert.Equal(t, "ubuntu", ctx.Distro().Name)
}
