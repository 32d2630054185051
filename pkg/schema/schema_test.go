package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/modelguard/pkg/schema"
)

func TestNew(t *testing.T) {
	t.Parallel()

	for _, typ := range schema.Types() {
		s, err := schema.New(string(typ))
		require.NoError(t, err)
		assert.Equal(t, typ, s.Type())
	}

	_, err := schema.New("binary")
	require.ErrorIs(t, err, schema.ErrUnknownType)

	assert.Panics(t, func() { schema.MustNew("binary") })
}

func TestSchema_Apply(t *testing.T) {
	t.Parallel()

	t.Run("returns a new node and keeps the receiver", func(t *testing.T) {
		base := schema.String()
		withMin := base.MustApply("min", 3)
		withMax := withMin.MustApply("max", 10)

		assert.Empty(t, base.Rules())
		assert.Equal(t, []string{"min"}, withMin.Rules())
		assert.Equal(t, []string{"min", "max"}, withMax.Rules())
	})

	t.Run("branches do not share rules", func(t *testing.T) {
		base := schema.String().MustApply("min", 1)
		a := base.MustApply("max", 5)
		b := base.MustApply("email")

		assert.Equal(t, []string{"min", "max"}, a.Rules())
		assert.Equal(t, []string{"min", "email"}, b.Rules())
	})

	t.Run("unknown operation", func(t *testing.T) {
		_, err := schema.String().Apply("integer")
		require.ErrorIs(t, err, schema.ErrUnknownOperation)
		assert.Contains(t, err.Error(), `"integer"`)
		assert.Contains(t, err.Error(), `"string"`)
	})

	t.Run("wrong argument count", func(t *testing.T) {
		_, err := schema.String().Apply("min")
		require.ErrorIs(t, err, schema.ErrInvalidArgument)

		_, err = schema.Number().Apply("integer", true)
		require.ErrorIs(t, err, schema.ErrInvalidArgument)
	})

	t.Run("wrong argument shape", func(t *testing.T) {
		_, err := schema.String().Apply("min", "three")
		require.ErrorIs(t, err, schema.ErrInvalidArgument)

		_, err = schema.String().Apply("min", -1)
		require.ErrorIs(t, err, schema.ErrInvalidArgument)

		_, err = schema.String().Apply("min", 2.5)
		require.ErrorIs(t, err, schema.ErrInvalidArgument)

		_, err = schema.String().Apply("pattern", "[a-")
		require.ErrorIs(t, err, schema.ErrInvalidArgument)

		_, err = schema.Number().Apply("multiple", 0)
		require.ErrorIs(t, err, schema.ErrInvalidArgument)
	})

	t.Run("presence flags", func(t *testing.T) {
		assert.True(t, schema.String().MustApply("required").Required())
		assert.False(t, schema.String().MustApply("required").MustApply("optional").Required())
	})

	t.Run("with message tags the node", func(t *testing.T) {
		s := schema.String().MustApply("min", 3).WithMessage("min", "too short")
		msg, ok := s.Override()
		assert.True(t, ok)
		assert.Equal(t, "too short", msg)

		_, ok = schema.String().Override()
		assert.False(t, ok)
	})
}

func TestArityOf(t *testing.T) {
	t.Parallel()

	cases := []struct {
		typ   schema.Type
		op    string
		arity schema.Arity
	}{
		{schema.TypeString, "min", schema.Arity{Min: 1, Max: 1}},
		{schema.TypeString, "required", schema.Arity{Min: 0, Max: 0}},
		{schema.TypeString, "alphanum", schema.Arity{Min: 0, Max: 0}},
		{schema.TypeString, "pattern", schema.Arity{Min: 1, Max: 2}},
		{schema.TypeNumber, "integer", schema.Arity{Min: 0, Max: 0}},
		{schema.TypeNumber, "max", schema.Arity{Min: 1, Max: 1}},
		{schema.TypeBoolean, "valid", schema.Arity{Min: 1, Max: -1}},
		{schema.TypeArray, "unique", schema.Arity{Min: 0, Max: 0}},
	}
	for _, tc := range cases {
		t.Run(string(tc.typ)+"."+tc.op, func(t *testing.T) {
			got, ok := schema.ArityOf(tc.typ, tc.op)
			require.True(t, ok)
			assert.Equal(t, tc.arity, got)
		})
	}

	_, ok := schema.ArityOf(schema.TypeBoolean, "min")
	assert.False(t, ok)
	_, ok = schema.ArityOf(schema.Type("nope"), "min")
	assert.False(t, ok)
}

func TestArity(t *testing.T) {
	t.Parallel()

	assert.False(t, schema.Arity{}.TakesArgs())
	assert.True(t, schema.Arity{Min: 1, Max: 1}.TakesArgs())
	assert.True(t, schema.Arity{Min: 1, Max: -1}.Accepts(5))
	assert.False(t, schema.Arity{Min: 1, Max: -1}.Accepts(0))
	assert.False(t, schema.Arity{Min: 1, Max: 2}.Accepts(3))
}

func TestOperations(t *testing.T) {
	t.Parallel()

	ops := schema.Operations(schema.TypeNumber)
	assert.Contains(t, ops, "integer")
	assert.Contains(t, ops, "required")
	assert.NotContains(t, ops, "email")
	assert.Nil(t, schema.Operations(schema.Type("nope")))
}
