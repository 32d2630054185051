package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/modelguard/pkg/schema"
	"github.com/dmitrymomot/modelguard/pkg/validator"
)

func TestCompileProperty(t *testing.T) {
	t.Parallel()

	t.Run("folds constraints in order", func(t *testing.T) {
		t.Parallel()
		node, err := validator.CompileProperty(validator.PropertyConfig{
			Name: "name",
			Type: "string",
			Constraints: []validator.ConstraintConfig{
				{Name: "required", Value: validator.ConstraintValue{Value: true}},
				{Name: "min", Value: validator.ConstraintValue{Value: 3}},
				{Name: "max", Value: validator.ConstraintValue{Value: 10}},
			},
		})
		require.NoError(t, err)
		assert.True(t, node.Required())
		assert.Equal(t, []string{"min", "max"}, node.Rules())
		_, overridden := node.Override()
		assert.False(t, overridden)
	})

	t.Run("message becomes override", func(t *testing.T) {
		t.Parallel()
		node, err := validator.CompileProperty(validator.PropertyConfig{
			Name: "name",
			Type: "string",
			Constraints: []validator.ConstraintConfig{
				{Name: "min", Value: validator.ConstraintValue{Kind: validator.ValueRecord, Value: 3, Message: "short", HasMessage: true}},
			},
		})
		require.NoError(t, err)
		msg, ok := node.Override()
		require.True(t, ok)
		assert.Equal(t, "short", msg)
	})

	t.Run("unknown type", func(t *testing.T) {
		t.Parallel()
		_, err := validator.CompileProperty(validator.PropertyConfig{Name: "name", Type: "text"})

		var ce *validator.CompileError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "name", ce.Field)
		assert.ErrorIs(t, err, schema.ErrUnknownType)
		assert.ErrorIs(t, err, validator.ErrCompile)
	})

	t.Run("wrong argument count", func(t *testing.T) {
		t.Parallel()
		_, err := validator.CompileProperty(validator.PropertyConfig{
			Name: "name",
			Type: "string",
			Constraints: []validator.ConstraintConfig{
				{Name: "min", Value: validator.ConstraintValue{Kind: validator.ValueSequence, Value: []any{1, 2, 3}}},
			},
		})

		var ce *validator.CompileError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "min", ce.Constraint)
		assert.ErrorIs(t, err, schema.ErrInvalidArgument)
	})
}

func TestCompileModel(t *testing.T) {
	t.Parallel()

	cfg := validator.ModelConfig{Properties: []validator.PropertyConfig{
		{Name: "zeta", Type: "string"},
		{Name: "alpha", Type: "number"},
		{Name: "broken", Type: "number", Constraints: []validator.ConstraintConfig{
			{Name: "email", Value: validator.ConstraintValue{Value: true}},
		}},
	}}

	_, err := validator.CompileModel("account", cfg)
	var ce *validator.CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "account", ce.Model)
	assert.Equal(t, "broken", ce.Field)
	assert.Equal(t, "email", ce.Constraint)
	assert.Contains(t, err.Error(), `model "account"`)
	assert.Contains(t, err.Error(), `field "broken"`)
	assert.Contains(t, err.Error(), "schema: unknown operation")

	cfg.Properties = cfg.Properties[:2]
	obj, err := validator.CompileModel("account", cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "alpha"}, obj.Keys())
}
