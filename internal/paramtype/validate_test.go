package paramtype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// findIssue returns the first issue whose path and rule match.
func findIssue(t *testing.T, issues []Issue, path, rule string) Issue {
	t.Helper()
	for _, issue := range issues {
		if issue.Path == path && issue.Rule == rule {
			return issue
		}
	}
	t.Fatalf("no issue at %s with rule %s in %v", path, rule, issues)
	return Issue{}
}

func TestValidate_String(t *testing.T) {
	tests := []struct {
		name     string
		typ      *Type
		value    any
		wantRule string
	}{
		{name: "plain string", typ: String(), value: "hello"},
		{name: "wrong type", typ: String(), value: 42.0, wantRule: RuleType},
		{name: "below min length", typ: String().WithMinLength(3), value: "ab", wantRule: RuleStringMinLength},
		{name: "above max length", typ: String().WithMaxLength(2), value: "abc", wantRule: RuleStringMaxLength},
		{name: "pattern match", typ: String().WithPattern(`^[a-z]+$`), value: "abc"},
		{name: "pattern mismatch", typ: String().WithPattern(`^[a-z]+$`), value: "ABC", wantRule: RuleStringPattern},
		{name: "uuid format ok", typ: String().WithFormat("uuid"), value: "9f6f6b16-7b5c-4a6a-9f3e-2d9b1f1c3a4d"},
		{name: "uuid format bad", typ: String().WithFormat("uuid"), value: "not-a-uuid", wantRule: RuleStringFormat},
		{name: "date-time format bad", typ: String().WithFormat("date-time"), value: "yesterday", wantRule: RuleStringFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := tt.typ.Validate(tt.value)
			if tt.wantRule == "" {
				require.True(t, res.Valid, "errors: %v", res.Errors)
				return
			}
			require.False(t, res.Valid)
			findIssue(t, res.Errors, "$", tt.wantRule)
		})
	}
}

func TestValidate_UnknownFormatWarnsOnly(t *testing.T) {
	res := String().WithFormat("hostname").Validate("example.com")
	require.True(t, res.Valid)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, RuleStringFormat, res.Warnings[0].Rule)
}

func TestValidate_Number(t *testing.T) {
	tests := []struct {
		name     string
		typ      *Type
		value    any
		wantRule string
	}{
		{name: "in range", typ: Number().WithMin(0).WithMax(1), value: 0.7},
		{name: "below min", typ: Number().WithMin(0), value: -0.1, wantRule: RuleNumberMin},
		{name: "above max", typ: Number().WithMax(1), value: 1.5, wantRule: RuleNumberMax},
		{name: "integer ok", typ: Number().WithInteger(), value: 4.0},
		{name: "integer violated", typ: Number().WithInteger(), value: 4.5, wantRule: RuleNumberInteger},
		{name: "multiple of ok", typ: Number().WithMultipleOf(0.25), value: 0.75},
		{name: "multiple of violated", typ: Number().WithMultipleOf(0.25), value: 0.3, wantRule: RuleNumberMultipleOf},
		{name: "go int accepted", typ: Number().WithMin(0), value: 3},
		{name: "not a number", typ: Number(), value: "3", wantRule: RuleType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := tt.typ.Validate(tt.value)
			if tt.wantRule == "" {
				require.True(t, res.Valid, "errors: %v", res.Errors)
				return
			}
			require.False(t, res.Valid)
			findIssue(t, res.Errors, "$", tt.wantRule)
		})
	}
}

func TestValidate_Enum(t *testing.T) {
	typ := Enum("major", "minor", "modal").WithDefault("major")

	require.True(t, typ.Validate("minor").Valid)

	res := typ.Validate("atonal")
	require.False(t, res.Valid)
	findIssue(t, res.Errors, "$", RuleEnumValue)

	res = typ.Validate(7.0)
	require.False(t, res.Valid)
	findIssue(t, res.Errors, "$", RuleType)
}

func TestValidate_Object(t *testing.T) {
	typ := Object(map[string]*Type{
		"axisId": String(),
		"amount": Number().WithMin(0).WithMax(1),
	}).WithRequired("axisId", "amount")

	t.Run("valid payload", func(t *testing.T) {
		res := typ.Validate(map[string]any{"axisId": "axis:grit", "amount": 0.7})
		require.True(t, res.Valid, "errors: %v", res.Errors)
	})

	t.Run("every missing required key is reported", func(t *testing.T) {
		res := typ.Validate(map[string]any{})
		require.False(t, res.Valid)
		findIssue(t, res.Errors, "$.axisId", RuleObjectRequired)
		findIssue(t, res.Errors, "$.amount", RuleObjectRequired)
	})

	t.Run("out-of-range amount points at the field", func(t *testing.T) {
		res := typ.Validate(map[string]any{"axisId": "axis:grit", "amount": 1.5})
		require.False(t, res.Valid)
		issue := findIssue(t, res.Errors, "$.amount", RuleNumberMax)
		assert.Contains(t, issue.Message, "1.5")
	})

	t.Run("unknown keys rejected by default", func(t *testing.T) {
		res := typ.Validate(map[string]any{"axisId": "axis:grit", "amount": 0.5, "extra": true})
		require.False(t, res.Valid)
		findIssue(t, res.Errors, "$.extra", RuleObjectUnknownKey)
	})

	t.Run("additional properties opt-in", func(t *testing.T) {
		open := Object(map[string]*Type{"axisId": String()}).WithAdditionalProperties()
		res := open.Validate(map[string]any{"axisId": "axis:grit", "extra": true})
		require.True(t, res.Valid)
	})

	t.Run("not an object", func(t *testing.T) {
		res := typ.Validate("nope")
		require.False(t, res.Valid)
		findIssue(t, res.Errors, "$", RuleType)
	})
}

func TestValidate_Array(t *testing.T) {
	typ := Array(Number().WithMin(0)).WithMinItems(1).WithMaxItems(3).WithUniqueItems()

	require.True(t, typ.Validate([]any{1.0, 2.0}).Valid)

	res := typ.Validate([]any{})
	require.False(t, res.Valid)
	findIssue(t, res.Errors, "$", RuleArrayMinItems)

	res = typ.Validate([]any{1.0, 2.0, 3.0, 4.0})
	require.False(t, res.Valid)
	findIssue(t, res.Errors, "$", RuleArrayMaxItems)

	res = typ.Validate([]any{1.0, 1.0})
	require.False(t, res.Valid)
	findIssue(t, res.Errors, "$[1]", RuleArrayUniqueItems)

	res = typ.Validate([]any{1.0, -2.0})
	require.False(t, res.Valid)
	findIssue(t, res.Errors, "$[1]", RuleNumberMin)
}

func TestValidate_NestedPaths(t *testing.T) {
	typ := Object(map[string]*Type{
		"voices": Array(Object(map[string]*Type{
			"range": Object(map[string]*Type{
				"low": Number().WithInteger(),
			}).WithRequired("low"),
		}).WithRequired("range")),
	}).WithRequired("voices")

	res := typ.Validate(map[string]any{
		"voices": []any{
			map[string]any{"range": map[string]any{"low": 40.0}},
			map[string]any{"range": map[string]any{"low": 41.5}},
		},
	})
	require.False(t, res.Valid)
	findIssue(t, res.Errors, "$.voices[1].range.low", RuleNumberInteger)
}

func TestValidate_Union(t *testing.T) {
	typ := Union(String(), Number().WithMin(0))

	require.True(t, typ.Validate("text").Valid)
	require.True(t, typ.Validate(0.5).Valid)

	res := typ.Validate(true)
	require.False(t, res.Valid)
	findIssue(t, res.Errors, "$", RuleUnionNoMatch)

	// First structurally valid candidate wins; the failing candidate's
	// errors never leak out.
	res = typ.Validate(5.0)
	require.True(t, res.Valid)
	require.Empty(t, res.Errors)
}

func TestValidate_Reference(t *testing.T) {
	typ := Reference("axis")

	require.True(t, typ.Validate("axis:my-pack:grit").Valid)

	res := typ.Validate(12.0)
	require.False(t, res.Valid)
	findIssue(t, res.Errors, "$", RuleReferenceKind)
}

func TestValidate_NilTypeIsTotal(t *testing.T) {
	var typ *Type
	res := typ.Validate("anything")
	require.False(t, res.Valid)
	require.NotEmpty(t, res.Errors)
}

func TestResult_Merge(t *testing.T) {
	merged := OK().Merge(Fail(Issue{Path: "$", Rule: RuleType, Message: "boom"}))
	require.False(t, merged.Valid)
	require.Len(t, merged.Errors, 1)
}
