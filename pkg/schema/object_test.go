package schema_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/modelguard/pkg/confmap"
	"github.com/dmitrymomot/modelguard/pkg/schema"
)

func failedDetails(t *testing.T, out schema.Outcome) []schema.Detail {
	t.Helper()
	failed, ok := out.(schema.Failed)
	require.True(t, ok, "expected Failed outcome, got %T", out)
	return failed.Details
}

func nameSchema() schema.Schema {
	return schema.String().
		MustApply("required").
		MustApply("min", 3).
		MustApply("max", 10)
}

func TestObject_Validate(t *testing.T) {
	t.Parallel()

	obj := schema.NewObject(
		schema.Key{Name: "name", Schema: nameSchema()},
		schema.Key{Name: "age", Schema: schema.Number().MustApply("integer").MustApply("min", 18)},
	)

	t.Run("passes valid input", func(t *testing.T) {
		out := obj.Validate(map[string]any{"name": "alice", "age": 30}, schema.Options{})
		assert.Equal(t, schema.Passed{}, out)
	})

	t.Run("optional key may be absent", func(t *testing.T) {
		out := obj.Validate(map[string]any{"name": "alice"}, schema.Options{})
		assert.Equal(t, schema.Passed{}, out)
	})

	t.Run("reports required key", func(t *testing.T) {
		details := failedDetails(t, obj.Validate(map[string]any{}, schema.Options{}))
		require.Len(t, details, 1)
		assert.Equal(t, "name", details[0].Path)
		assert.Equal(t, "any.required", details[0].Type)
		assert.Equal(t, `"name" is required`, details[0].Message)
	})

	t.Run("collects every failure without abort early", func(t *testing.T) {
		details := failedDetails(t, obj.Validate(map[string]any{"name": "al", "age": 12.5}, schema.Options{}))
		require.Len(t, details, 3)
		assert.Equal(t, `"name" length must be at least 3 characters long`, details[0].Message)
		assert.Equal(t, "number.integer", details[1].Type)
		assert.Equal(t, `"age" must be greater than or equal to 18`, details[2].Message)
	})

	t.Run("stops at first failure with abort early", func(t *testing.T) {
		details := failedDetails(t, obj.Validate(map[string]any{"name": "al", "age": 12.5}, schema.Options{AbortEarly: true}))
		require.Len(t, details, 1)
		assert.Equal(t, "string.min", details[0].Type)
	})

	t.Run("rejects unknown keys", func(t *testing.T) {
		details := failedDetails(t, obj.Validate(map[string]any{"name": "alice", "lastName": "x"}, schema.Options{}))
		require.Len(t, details, 1)
		assert.Equal(t, "lastName", details[0].Path)
		assert.Equal(t, "object.unknown", details[0].Type)
		assert.Equal(t, `"lastName" is not allowed`, details[0].Message)
	})

	t.Run("allows unknown keys when asked", func(t *testing.T) {
		out := obj.Validate(map[string]any{"name": "alice", "lastName": "x"}, schema.Options{AllowUnknown: true})
		assert.Equal(t, schema.Passed{}, out)
	})

	t.Run("base type failure stops the key", func(t *testing.T) {
		details := failedDetails(t, obj.Validate(map[string]any{"name": 42}, schema.Options{}))
		require.Len(t, details, 1)
		assert.Equal(t, "string.base", details[0].Type)
		assert.Equal(t, `"name" must be a string`, details[0].Message)
	})

	t.Run("empty string is rejected", func(t *testing.T) {
		details := failedDetails(t, obj.Validate(map[string]any{"name": ""}, schema.Options{}))
		require.Len(t, details, 1)
		assert.Equal(t, "string.empty", details[0].Type)
	})

	t.Run("non mapping input", func(t *testing.T) {
		details := failedDetails(t, obj.Validate("nope", schema.Options{}))
		require.Len(t, details, 1)
		assert.Equal(t, "object.base", details[0].Type)
	})

	t.Run("accepts ordered maps", func(t *testing.T) {
		m := confmap.New()
		m.Set("name", "alice")
		m.Set("zzz", 1)
		m.Set("aaa", 2)
		details := failedDetails(t, obj.Validate(m, schema.Options{}))
		require.Len(t, details, 2)
		assert.Equal(t, "zzz", details[0].Path)
		assert.Equal(t, "aaa", details[1].Path)
	})

	t.Run("accepts named map types", func(t *testing.T) {
		type record map[string]any
		out := obj.Validate(record{"name": "alice"}, schema.Options{})
		assert.Equal(t, schema.Passed{}, out)
	})
}

func TestObject_Override(t *testing.T) {
	t.Parallel()

	const msg = "'name' property has to have at least 3 characters"
	name := schema.String().
		MustApply("required").
		MustApply("min", 3).
		WithMessage("min", msg).
		MustApply("max", 10)

	obj := schema.NewObject(
		schema.Key{Name: "email", Schema: schema.String().MustApply("email")},
		schema.Key{Name: "name", Schema: name},
	)

	t.Run("failing rule with message", func(t *testing.T) {
		out := obj.Validate(map[string]any{"name": "sl"}, schema.Options{})
		assert.Equal(t, schema.Overridden{Field: "name", Rule: "string.min", Message: msg}, out)
	})

	t.Run("required failure surfaces the field message", func(t *testing.T) {
		out := obj.Validate(map[string]any{}, schema.Options{})
		assert.Equal(t, schema.Overridden{Field: "name", Rule: "any.required", Message: msg}, out)
	})

	t.Run("rules without a message keep the default wording", func(t *testing.T) {
		details := failedDetails(t, obj.Validate(map[string]any{"name": "much-too-long-name"}, schema.Options{}))
		require.Len(t, details, 1)
		assert.Equal(t, "string.max", details[0].Type)
		assert.Equal(t, `"name" length must be less than or equal to 10 characters long`, details[0].Message)
	})

	t.Run("later rule with message wins over an earlier default", func(t *testing.T) {
		s := schema.String().
			MustApply("max", 3).
			MustApply("alphanum").
			WithMessage("alphanum", "letters and digits only")
		o := schema.NewObject(schema.Key{Name: "code", Schema: s})

		out := o.Validate(map[string]any{"code": "ab-cd"}, schema.Options{})
		assert.Equal(t, schema.Overridden{Field: "code", Rule: "string.alphanum", Message: "letters and digits only"}, out)

		details := failedDetails(t, o.Validate(map[string]any{"code": "abcde"}, schema.Options{}))
		require.Len(t, details, 1)
		assert.Equal(t, "string.max", details[0].Type)
	})

	t.Run("suppresses other failures", func(t *testing.T) {
		out := obj.Validate(map[string]any{"email": "not-an-email", "name": "sl", "extra": true}, schema.Options{})
		assert.Equal(t, schema.Overridden{Field: "name", Rule: "string.min", Message: msg}, out)
	})

	t.Run("abort early stops before a later override", func(t *testing.T) {
		details := failedDetails(t, obj.Validate(map[string]any{"email": "not-an-email", "name": "sl"}, schema.Options{AbortEarly: true}))
		require.Len(t, details, 1)
		assert.Equal(t, "string.email", details[0].Type)
	})

	t.Run("rule message wins over the field message", func(t *testing.T) {
		s := schema.String().
			MustApply("min", 3).
			WithMessage("min", "too short").
			MustApply("max", 5).
			WithMessage("max", "too long")
		o := schema.NewObject(schema.Key{Name: "code", Schema: s})

		out := o.Validate(map[string]any{"code": "ab"}, schema.Options{})
		assert.Equal(t, schema.Overridden{Field: "code", Rule: "string.min", Message: "too short"}, out)

		out = o.Validate(map[string]any{"code": 7}, schema.Options{})
		assert.Equal(t, schema.Overridden{Field: "code", Rule: "string.base", Message: "too long"}, out)
	})

	t.Run("message on a presence flag", func(t *testing.T) {
		s := schema.String().MustApply("required").WithMessage("required", "name please")
		o := schema.NewObject(schema.Key{Name: "name", Schema: s})
		out := o.Validate(map[string]any{}, schema.Options{})
		assert.Equal(t, schema.Overridden{Field: "name", Rule: "any.required", Message: "name please"}, out)
	})
}

func TestObject_ValueLists(t *testing.T) {
	t.Parallel()

	obj := schema.NewObject(
		schema.Key{Name: "role", Schema: schema.String().MustApply("valid", "admin", "user")},
		schema.Key{Name: "nick", Schema: schema.String().MustApply("min", 3).MustApply("allow", "", nil)},
		schema.Key{Name: "word", Schema: schema.String().MustApply("invalid", "password")},
		schema.Key{Name: "gone", Schema: schema.Any().MustApply("forbidden")},
		schema.Key{Name: "level", Schema: schema.Number().MustApply("valid", 1, 2, 3)},
	)

	assert.Equal(t, schema.Passed{}, obj.Validate(map[string]any{"role": "admin", "nick": "", "level": 2.0}, schema.Options{}))
	assert.Equal(t, schema.Passed{}, obj.Validate(map[string]any{"nick": nil}, schema.Options{}))

	details := failedDetails(t, obj.Validate(map[string]any{
		"role":  "root",
		"word":  "password",
		"gone":  1,
		"level": 4,
	}, schema.Options{}))
	require.Len(t, details, 4)
	assert.Equal(t, `"role" must be one of [admin, user]`, details[0].Message)
	assert.Equal(t, "any.invalid", details[1].Type)
	assert.Equal(t, `"gone" is not allowed`, details[2].Message)
	assert.Equal(t, `"level" must be one of [1, 2, 3]`, details[3].Message)
}

func TestObject_Label(t *testing.T) {
	t.Parallel()

	obj := schema.NewObject(schema.Key{
		Name:   "first_name",
		Schema: schema.String().MustApply("label", "First name").MustApply("required"),
	})
	details := failedDetails(t, obj.Validate(map[string]any{}, schema.Options{}))
	require.Len(t, details, 1)
	assert.Equal(t, "first_name", details[0].Path)
	assert.Equal(t, `"First name" is required`, details[0].Message)
}

func TestStringRules(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		op   string
		args []any
		good string
		bad  string
		code string
	}{
		{"alphanum", "alphanum", nil, "abc123", "abc-123", "string.alphanum"},
		{"token", "token", nil, "abc_123", "abc-123", "string.token"},
		{"email", "email", nil, "user@example.com", "user@", "string.email"},
		{"uri", "uri", nil, "https://example.com/a", "not a uri", "string.uri"},
		{"guid", "guid", nil, "7c9e6679-7425-40de-944b-e07fc1f90ae7", "7c9e6679", "string.guid"},
		{"hex", "hex", nil, "deadBEEF", "xyz", "string.hex"},
		{"base64", "base64", nil, "aGVsbG8=", "!!!", "string.base64"},
		{"ip", "ip", nil, "10.0.0.1", "10.0.0.300", "string.ip"},
		{"ip cidr", "ip", nil, "10.0.0.0/8", "10.0.0.0/99", "string.ip"},
		{"hostname", "hostname", nil, "api.example.com", "-bad-", "string.hostname"},
		{"lowercase", "lowercase", nil, "abc", "aBc", "string.lowercase"},
		{"uppercase", "uppercase", nil, "ABC", "aBC", "string.uppercase"},
		{"trim", "trim", nil, "abc", " abc ", "string.trim"},
		{"creditCard", "creditCard", nil, "4242424242424242", "4242424242424241", "string.creditCard"},
		{"isoDate", "isoDate", nil, "2024-02-29T10:00:00Z", "29/02/2024", "string.isoDate"},
		{"length", "length", []any{4}, "abcd", "abc", "string.length"},
		{"max counts runes", "max", []any{3}, "äöü", "äöüß", "string.max"},
		{"pattern", "pattern", []any{"^[a-z]+$"}, "abc", "ABC", "string.pattern.base"},
		{"pattern literal flags", "pattern", []any{"/^[a-z]+$/i"}, "ABC", "123", "string.pattern.base"},
		{"named pattern", "regex", []any{"^\\d+$", "digits"}, "123", "12a", "string.pattern.name"},
		{"inverted pattern", "pattern", []any{"admin", map[string]any{"invert": true}}, "user", "sysadmin", "string.pattern.invert.base"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := schema.String().Apply(tc.op, tc.args...)
			require.NoError(t, err)
			obj := schema.NewObject(schema.Key{Name: "v", Schema: s})

			assert.Equal(t, schema.Passed{}, obj.Validate(map[string]any{"v": tc.good}, schema.Options{}))

			details := failedDetails(t, obj.Validate(map[string]any{"v": tc.bad}, schema.Options{}))
			require.Len(t, details, 1)
			assert.Equal(t, tc.code, details[0].Type)
		})
	}

	t.Run("pattern messages", func(t *testing.T) {
		obj := schema.NewObject(schema.Key{Name: "code", Schema: schema.String().MustApply("pattern", "^[0-9]+$", "numeric")})
		details := failedDetails(t, obj.Validate(map[string]any{"code": "x1"}, schema.Options{}))
		assert.Equal(t, `"code" with value "x1" fails to match the numeric pattern`, details[0].Message)
	})
}

func TestNumberRules(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		op   string
		args []any
		good any
		bad  any
		msg  string
	}{
		{"min", "min", []any{1900}, 1994, 1899, `"v" must be greater than or equal to 1900`},
		{"max", "max", []any{2013.5}, 2013, 2014, `"v" must be less than or equal to 2013.5`},
		{"greater", "greater", []any{0}, 0.1, 0, `"v" must be greater than 0`},
		{"less", "less", []any{10}, 9, 10, `"v" must be less than 10`},
		{"integer", "integer", nil, int64(3), 3.2, `"v" must be an integer`},
		{"positive", "positive", nil, 1, -1, `"v" must be a positive number`},
		{"negative", "negative", nil, -1, 0, `"v" must be a negative number`},
		{"multiple", "multiple", []any{0.5}, 2.5, 2.6, `"v" must be a multiple of 0.5`},
		{"precision", "precision", []any{2}, 1.25, 1.255, `"v" must have no more than 2 decimal places`},
		{"port", "port", nil, 8080, 70000, `"v" must be a valid port`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := schema.Number().Apply(tc.op, tc.args...)
			require.NoError(t, err)
			obj := schema.NewObject(schema.Key{Name: "v", Schema: s})

			assert.Equal(t, schema.Passed{}, obj.Validate(map[string]any{"v": tc.good}, schema.Options{}))

			details := failedDetails(t, obj.Validate(map[string]any{"v": tc.bad}, schema.Options{}))
			require.Len(t, details, 1)
			assert.Equal(t, tc.msg, details[0].Message)
		})
	}

	t.Run("rejects numeric strings", func(t *testing.T) {
		obj := schema.NewObject(schema.Key{Name: "v", Schema: schema.Number()})
		details := failedDetails(t, obj.Validate(map[string]any{"v": "12"}, schema.Options{}))
		assert.Equal(t, "number.base", details[0].Type)
	})
}

func TestDateRules(t *testing.T) {
	t.Parallel()

	s := schema.MustNew("date").
		MustApply("min", "2020-01-01").
		MustApply("less", "now")
	obj := schema.NewObject(schema.Key{Name: "at", Schema: s})

	assert.Equal(t, schema.Passed{}, obj.Validate(map[string]any{"at": "2021-06-01T12:00:00Z"}, schema.Options{}))
	assert.Equal(t, schema.Passed{}, obj.Validate(map[string]any{"at": time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)}, schema.Options{}))

	details := failedDetails(t, obj.Validate(map[string]any{"at": "2019-12-31"}, schema.Options{}))
	require.Len(t, details, 1)
	assert.Equal(t, "date.min", details[0].Type)

	details = failedDetails(t, obj.Validate(map[string]any{"at": time.Now().Add(time.Hour)}, schema.Options{}))
	require.Len(t, details, 1)
	assert.Equal(t, "date.less", details[0].Type)

	details = failedDetails(t, obj.Validate(map[string]any{"at": "yesterday"}, schema.Options{}))
	assert.Equal(t, "date.base", details[0].Type)

	iso := schema.NewObject(schema.Key{Name: "at", Schema: schema.MustNew("date").MustApply("iso")})
	details = failedDetails(t, iso.Validate(map[string]any{"at": 1700000000000}, schema.Options{}))
	assert.Equal(t, "date.format", details[0].Type)
}

func TestCollectionRules(t *testing.T) {
	t.Parallel()

	obj := schema.NewObject(
		schema.Key{Name: "tags", Schema: schema.MustNew("array").MustApply("min", 1).MustApply("max", 3).MustApply("unique")},
		schema.Key{Name: "meta", Schema: schema.MustNew("object").MustApply("max", 1)},
		schema.Key{Name: "flag", Schema: schema.Boolean()},
	)

	assert.Equal(t, schema.Passed{}, obj.Validate(map[string]any{
		"tags": []string{"a", "b"},
		"meta": map[string]any{"k": 1},
		"flag": false,
	}, schema.Options{}))

	details := failedDetails(t, obj.Validate(map[string]any{
		"tags": []any{"a", "a", "b", "c"},
		"meta": map[string]any{"a": 1, "b": 2},
		"flag": "yes",
	}, schema.Options{}))
	require.Len(t, details, 4)
	assert.Equal(t, `"tags" must contain less than or equal to 3 items`, details[0].Message)
	assert.Equal(t, "array.unique", details[1].Type)
	assert.Equal(t, `"meta" must have less than or equal to 1 keys`, details[2].Message)
	assert.Equal(t, `"flag" must be a boolean`, details[3].Message)
}

func TestObject_With(t *testing.T) {
	t.Parallel()

	base := schema.NewObject(schema.Key{Name: "a", Schema: schema.String()})
	next := base.With("b", schema.Number()).With("a", schema.Number())

	assert.Equal(t, []string{"a"}, base.Keys())
	assert.Equal(t, []string{"a", "b"}, next.Keys())

	a, ok := next.Get("a")
	require.True(t, ok)
	assert.Equal(t, schema.TypeNumber, a.Type())

	orig, _ := base.Get("a")
	assert.Equal(t, schema.TypeString, orig.Type())

	_, ok = next.Get("missing")
	assert.False(t, ok)
}

func TestObject_ConcurrentValidate(t *testing.T) {
	t.Parallel()

	obj := schema.NewObject(schema.Key{Name: "name", Schema: nameSchema()})

	var wg sync.WaitGroup
	for i := range 32 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			input := map[string]any{"name": "alice"}
			want := schema.Outcome(schema.Passed{})
			if i%2 == 0 {
				input["name"] = "al"
				want = nil
			}
			out := obj.Validate(input, schema.Options{})
			if want != nil {
				assert.Equal(t, want, out)
				return
			}
			_, failed := out.(schema.Failed)
			assert.True(t, failed)
		}(i)
	}
	wg.Wait()
}
