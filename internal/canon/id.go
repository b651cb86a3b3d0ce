package canon

import (
	"errors"
	"fmt"
	"strings"
)

// Name construction errors.
var (
	ErrEmptyName   = errors.New("name cannot be empty")
	ErrInvalidName = errors.New("name cannot contain the separator")
)

// ID is an opaque canon identifier in its text form. IDs are plain immutable
// values: safe as map keys, directly JSON-serializable, and comparable with
// ==. Equality of two IDs is exactly equality of their
// (category, namespace, subcategory, name) tuples, which is the
// collision-avoidance guarantee the registry depends on.
type ID string

// String returns the identifier text.
func (id ID) String() string { return string(id) }

// IsNamespaced reports whether id carries a namespace segment.
func (id ID) IsNamespaced() bool {
	return ParseID(string(id)).IDType == IDTypeNamespaced
}

// Namespace returns the namespace segment, or "" for builtin IDs.
func (id ID) Namespace() string {
	return ParseID(string(id)).Namespace
}

// IsNamespaced reports whether raw parses as a namespaced identifier.
func IsNamespaced(raw string) bool {
	return ParseID(raw).IDType == IDTypeNamespaced
}

// GetNamespace returns the namespace segment of raw, or "" when raw is
// builtin or unparseable.
func GetNamespace(raw string) string {
	return ParseID(raw).Namespace
}

// checkName validates the base-name segment shared by every category.
func checkName(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	if strings.Contains(name, Separator) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// newID assembles the text form for any category. subcategory is only
// meaningful for lexemes; namespace may be empty for the builtin form.
func newID(category Category, namespace, subcategory, name string) (ID, error) {
	if err := checkName(name); err != nil {
		return "", err
	}
	if namespace != "" {
		if err := CheckNamespace(namespace); err != nil {
			return "", fmt.Errorf("%w: %q", err, namespace)
		}
	}

	var segments []string
	switch {
	case category == CategoryConstraintType:
		// Constraint types never write their category segment.
		if namespace != "" {
			segments = []string{namespace, name}
		} else {
			segments = []string{name}
		}
	case namespace != "" && subcategory != "":
		segments = []string{string(category), namespace, subcategory, name}
	case namespace != "":
		segments = []string{string(category), namespace, name}
	case subcategory != "":
		segments = []string{string(category), subcategory, name}
	default:
		segments = []string{string(category), name}
	}
	return ID(strings.Join(segments, Separator)), nil
}

// AxisID names an expressive axis. The distinct value types below exist so
// IDs of different categories cannot be compared or substituted for one
// another by accident; all of them share the ID text grammar.
type AxisID ID

// OpcodeID names an interpreter operation.
type OpcodeID ID

// ConstraintTypeID names a constraint type. Its builtin text form is a bare
// name with no category prefix.
type ConstraintTypeID ID

// RuleID names a canon rule.
type RuleID ID

// UnitID names a unit of musical material.
type UnitID ID

// SectionTypeID names a section type.
type SectionTypeID ID

// LayerTypeID names a layer type.
type LayerTypeID ID

// LexemeID names a vocabulary lexeme, optionally tagged with a part of
// speech subcategory.
type LexemeID ID

func (id AxisID) ID() ID           { return ID(id) }
func (id OpcodeID) ID() ID         { return ID(id) }
func (id ConstraintTypeID) ID() ID { return ID(id) }
func (id RuleID) ID() ID           { return ID(id) }
func (id UnitID) ID() ID           { return ID(id) }
func (id SectionTypeID) ID() ID    { return ID(id) }
func (id LayerTypeID) ID() ID      { return ID(id) }
func (id LexemeID) ID() ID         { return ID(id) }

func (id AxisID) String() string           { return string(id) }
func (id OpcodeID) String() string         { return string(id) }
func (id ConstraintTypeID) String() string { return string(id) }
func (id RuleID) String() string           { return string(id) }
func (id UnitID) String() string           { return string(id) }
func (id SectionTypeID) String() string    { return string(id) }
func (id LayerTypeID) String() string      { return string(id) }
func (id LexemeID) String() string         { return string(id) }

// NewAxisID constructs an axis identifier. An empty namespace produces the
// builtin form.
func NewAxisID(name, namespace string) (AxisID, error) {
	id, err := newID(CategoryAxis, namespace, "", name)
	return AxisID(id), err
}

// NewOpcodeID constructs an opcode identifier.
func NewOpcodeID(name, namespace string) (OpcodeID, error) {
	id, err := newID(CategoryOpcode, namespace, "", name)
	return OpcodeID(id), err
}

// NewConstraintTypeID constructs a constraint-type identifier. The builtin
// form is the bare name; the namespaced form is "namespace:name".
func NewConstraintTypeID(name, namespace string) (ConstraintTypeID, error) {
	id, err := newID(CategoryConstraintType, namespace, "", name)
	return ConstraintTypeID(id), err
}

// NewRuleID constructs a rule identifier.
func NewRuleID(name, namespace string) (RuleID, error) {
	id, err := newID(CategoryRule, namespace, "", name)
	return RuleID(id), err
}

// NewUnitID constructs a unit identifier.
func NewUnitID(name, namespace string) (UnitID, error) {
	id, err := newID(CategoryUnit, namespace, "", name)
	return UnitID(id), err
}

// NewSectionTypeID constructs a section-type identifier.
func NewSectionTypeID(name, namespace string) (SectionTypeID, error) {
	id, err := newID(CategorySectionType, namespace, "", name)
	return SectionTypeID(id), err
}

// NewLayerTypeID constructs a layer-type identifier.
func NewLayerTypeID(name, namespace string) (LayerTypeID, error) {
	id, err := newID(CategoryLayerType, namespace, "", name)
	return LayerTypeID(id), err
}

// NewLexemeID constructs a lexeme identifier without a part of speech.
func NewLexemeID(name, namespace string) (LexemeID, error) {
	id, err := newID(CategoryLexeme, namespace, "", name)
	return LexemeID(id), err
}

// NewLexemeIDWithPart constructs a lexeme identifier tagged with a part of
// speech subcategory.
func NewLexemeIDWithPart(part PartOfSpeech, name, namespace string) (LexemeID, error) {
	if !IsPartOfSpeech(string(part)) {
		return "", fmt.Errorf("unknown part of speech %q", part)
	}
	id, err := newID(CategoryLexeme, namespace, string(part), name)
	return LexemeID(id), err
}
