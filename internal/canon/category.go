package canon

// Separator joins the segments of an identifier's text form.
const Separator = ":"

// Category identifies which kind of canon entity an ID names.
type Category string

const (
	CategoryAxis           Category = "axis"
	CategoryLexeme         Category = "lexeme"
	CategoryOpcode         Category = "opcode"
	CategoryConstraintType Category = "constraint-type"
	CategoryRule           Category = "rule"
	CategoryUnit           Category = "unit"
	CategorySectionType    Category = "section-type"
	CategoryLayerType      Category = "layer-type"
)

// categories lists every known category in declaration order.
var categories = []Category{
	CategoryAxis,
	CategoryLexeme,
	CategoryOpcode,
	CategoryConstraintType,
	CategoryRule,
	CategoryUnit,
	CategorySectionType,
	CategoryLayerType,
}

// categorySet supports O(1) membership checks during parsing.
var categorySet = func() map[Category]struct{} {
	set := make(map[Category]struct{}, len(categories))
	for _, c := range categories {
		set[c] = struct{}{}
	}
	return set
}()

// Categories returns all known categories.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// IsCategory reports whether token is a known category token.
// The separator grammar depends on this: a namespace is never allowed to
// collide with a category token, so the first segment of an ID is
// unambiguous.
func IsCategory(token string) bool {
	_, ok := categorySet[Category(token)]
	return ok
}

// PartOfSpeech is the lexeme subcategory. When present it occupies the slot
// immediately after the category (builtin form) or immediately after the
// namespace (namespaced form).
type PartOfSpeech string

const (
	PartNoun       PartOfSpeech = "noun"
	PartVerb       PartOfSpeech = "verb"
	PartModifier   PartOfSpeech = "modifier"
	PartConnective PartOfSpeech = "connective"
)

var partsOfSpeech = map[PartOfSpeech]struct{}{
	PartNoun:       {},
	PartVerb:       {},
	PartModifier:   {},
	PartConnective: {},
}

// IsPartOfSpeech reports whether token is a known lexeme subcategory.
// Namespaces are forbidden from colliding with these tokens so the
// three-segment lexeme forms stay unambiguous.
func IsPartOfSpeech(token string) bool {
	_, ok := partsOfSpeech[PartOfSpeech(token)]
	return ok
}
