package canon

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantType IDType
		wantCat  Category
		wantNS   string
		wantSub  string
		wantBase string
		invalid  bool
	}{
		{
			name:     "builtin axis",
			input:    "axis:grit",
			wantType: IDTypeBuiltin,
			wantCat:  CategoryAxis,
			wantBase: "grit",
		},
		{
			name:     "namespaced axis",
			input:    "axis:my-pack:grit",
			wantType: IDTypeNamespaced,
			wantCat:  CategoryAxis,
			wantNS:   "my-pack",
			wantBase: "grit",
		},
		{
			name:     "bare constraint type",
			input:    "range",
			wantType: IDTypeBuiltin,
			wantCat:  CategoryConstraintType,
			wantBase: "range",
		},
		{
			name:     "namespaced constraint type",
			input:    "my-pack:range",
			wantType: IDTypeNamespaced,
			wantCat:  CategoryConstraintType,
			wantNS:   "my-pack",
			wantBase: "range",
		},
		{
			name:     "builtin lexeme with part of speech",
			input:    "lexeme:verb:swell",
			wantType: IDTypeBuiltin,
			wantCat:  CategoryLexeme,
			wantSub:  "verb",
			wantBase: "swell",
		},
		{
			name:     "namespaced lexeme",
			input:    "lexeme:my-pack:swell",
			wantType: IDTypeNamespaced,
			wantCat:  CategoryLexeme,
			wantNS:   "my-pack",
			wantBase: "swell",
		},
		{
			name:     "namespaced lexeme with part of speech",
			input:    "lexeme:my-pack:verb:swell",
			wantType: IDTypeNamespaced,
			wantCat:  CategoryLexeme,
			wantNS:   "my-pack",
			wantSub:  "verb",
			wantBase: "swell",
		},
		{name: "empty", input: "", invalid: true},
		{name: "whitespace padded", input: " axis:grit", invalid: true},
		{name: "empty segment", input: "axis::grit", invalid: true},
		{name: "explicit constraint-type category", input: "constraint-type:range", invalid: true},
		{name: "reserved namespace", input: "axis:core:grit", invalid: true},
		{name: "malformed namespace", input: "axis:My_Pack:grit", invalid: true},
		{name: "unknown category three segments", input: "widget:my-pack:grit", invalid: true},
		{name: "four segments on non-lexeme", input: "axis:my-pack:verb:grit", invalid: true},
		{name: "unknown part of speech", input: "lexeme:my-pack:adverb:swell", invalid: true},
		{name: "five segments", input: "lexeme:my-pack:verb:swell:extra", invalid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ParseID(tt.input)
			require.Equal(t, tt.input, res.Raw)

			if tt.invalid {
				require.False(t, res.Valid)
				require.NotEmpty(t, res.Errors, "invalid results must explain themselves")
				return
			}

			require.True(t, res.Valid, "errors: %v", res.Errors)
			require.Empty(t, res.Errors)
			require.Equal(t, tt.wantType, res.IDType)
			require.Equal(t, tt.wantCat, res.Category)
			require.Equal(t, tt.wantNS, res.Namespace)
			require.Equal(t, tt.wantSub, res.Subcategory)
			require.Equal(t, tt.wantBase, res.BaseName)
		})
	}
}

func TestParseID_CollectsErrorsWithoutPanicking(t *testing.T) {
	// A batch of junk should produce one structured result each.
	inputs := []string{"", ":", "a::b", "axis:", "lexeme:my--pack:adverb:x:y"}
	for _, input := range inputs {
		res := ParseID(input)
		require.False(t, res.Valid, "input %q", input)
		require.NotEmpty(t, res.Errors, "input %q", input)
	}
}

func TestBuildID_Validation(t *testing.T) {
	_, err := BuildID("widget", "", "", "grit")
	require.Error(t, err)

	_, err = BuildID(CategoryAxis, "", "verb", "grit")
	require.Error(t, err, "subcategory only applies to lexemes")

	_, err = BuildID(CategoryLexeme, "", "adverb", "grit")
	require.Error(t, err)

	id, err := BuildID(CategoryLexeme, "my-pack", "verb", "swell")
	require.NoError(t, err)
	require.Equal(t, ID("lexeme:my-pack:verb:swell"), id)
}

// TestRoundTrip_Property drives the build/parse round-trip law across the
// whole grammar with rapid.
func TestRoundTrip_Property(t *testing.T) {
	rapid.Check(t, func(r *rapid.T) {
		category := rapid.SampledFrom(Categories()).Draw(r, "category")
		name := rapid.StringMatching(`[a-z][a-z0-9-]{0,12}`).Draw(r, "name")

		namespace := ""
		if rapid.Bool().Draw(r, "namespaced") {
			namespace = rapid.StringMatching(`[a-z][a-z0-9]{0,6}(-[a-z0-9]{1,4}){0,2}`).Draw(r, "namespace")
			if CheckNamespace(namespace) != nil {
				r.SkipNow() // drew a reserved or colliding token
			}
		}

		subcategory := ""
		if category == CategoryLexeme && rapid.Bool().Draw(r, "withPart") {
			subcategory = string(rapid.SampledFrom([]PartOfSpeech{
				PartNoun, PartVerb, PartModifier, PartConnective,
			}).Draw(r, "part"))
		}

		built, err := BuildID(category, namespace, subcategory, name)
		if err != nil {
			r.Fatalf("BuildID(%q, %q, %q, %q): %v", category, namespace, subcategory, name, err)
		}

		res := ParseID(string(built))
		if !res.Valid {
			r.Fatalf("ParseID(%q) invalid: %v", built, res.Errors)
		}

		if rebuilt := res.ID(); rebuilt != built {
			r.Fatalf("round trip %q -> %#v -> %q", built, res, rebuilt)
		}
	})
}
