package paramtype

// Kind discriminates the closed set of type-tree variants.
type Kind string

const (
	KindString    Kind = "string"
	KindNumber    Kind = "number"
	KindBoolean   Kind = "boolean"
	KindEnum      Kind = "enum"
	KindObject    Kind = "object"
	KindArray     Kind = "array"
	KindUnion     Kind = "union"
	KindReference Kind = "reference"
)

// Type is one node of a parametric type tree. Exactly the fields relevant
// to its Kind are meaningful; the rest stay zero. The struct is shaped for
// direct YAML/JSON declaration in schema packs.
type Type struct {
	Kind Kind `json:"kind" yaml:"kind"`

	// String constraints.
	MinLength *int   `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength *int   `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Pattern   string `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Format    string `json:"format,omitempty" yaml:"format,omitempty"`

	// Number constraints.
	Min        *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max        *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Integer    bool     `json:"integer,omitempty" yaml:"integer,omitempty"`
	MultipleOf *float64 `json:"multipleOf,omitempty" yaml:"multipleOf,omitempty"`

	// Enum values and optional default.
	Values  []string `json:"values,omitempty" yaml:"values,omitempty"`
	Default string   `json:"default,omitempty" yaml:"default,omitempty"`

	// Object shape.
	Properties           map[string]*Type `json:"properties,omitempty" yaml:"properties,omitempty"`
	Required             []string         `json:"required,omitempty" yaml:"required,omitempty"`
	AdditionalProperties bool             `json:"additionalProperties,omitempty" yaml:"additionalProperties,omitempty"`

	// Array shape.
	Items       *Type `json:"items,omitempty" yaml:"items,omitempty"`
	MinItems    *int  `json:"minItems,omitempty" yaml:"minItems,omitempty"`
	MaxItems    *int  `json:"maxItems,omitempty" yaml:"maxItems,omitempty"`
	UniqueItems bool  `json:"uniqueItems,omitempty" yaml:"uniqueItems,omitempty"`

	// Union candidates, tried in order.
	Candidates []*Type `json:"candidates,omitempty" yaml:"candidates,omitempty"`

	// Reference entity tag. Existence checking against a live registry is
	// deliberately outside this validator's responsibility.
	Entity string `json:"entity,omitempty" yaml:"entity,omitempty"`
}

// String returns a string type node for fluent construction.
func String() *Type { return &Type{Kind: KindString} }

// Number returns a number type node.
func Number() *Type { return &Type{Kind: KindNumber} }

// Boolean returns a boolean type node.
func Boolean() *Type { return &Type{Kind: KindBoolean} }

// Enum returns an enum type node over the given values.
func Enum(values ...string) *Type { return &Type{Kind: KindEnum, Values: values} }

// Object returns an object type node with the given named properties.
// Additional properties are disallowed unless enabled explicitly.
func Object(properties map[string]*Type) *Type {
	return &Type{Kind: KindObject, Properties: properties}
}

// Array returns an array type node over the given item type.
func Array(items *Type) *Type { return &Type{Kind: KindArray, Items: items} }

// Union returns a union type node; candidates are tried in order and the
// first structural match wins.
func Union(candidates ...*Type) *Type { return &Type{Kind: KindUnion, Candidates: candidates} }

// Reference returns a reference type node tagged with an entity type.
func Reference(entity string) *Type { return &Type{Kind: KindReference, Entity: entity} }

// WithMinLength sets the minimum string length and returns the node.
func (t *Type) WithMinLength(n int) *Type { t.MinLength = &n; return t }

// WithMaxLength sets the maximum string length and returns the node.
func (t *Type) WithMaxLength(n int) *Type { t.MaxLength = &n; return t }

// WithPattern sets the regular expression a string must match.
func (t *Type) WithPattern(pattern string) *Type { t.Pattern = pattern; return t }

// WithFormat sets a named string format ("date-time", "uuid").
func (t *Type) WithFormat(format string) *Type { t.Format = format; return t }

// WithMin sets the inclusive lower numeric bound.
func (t *Type) WithMin(min float64) *Type { t.Min = &min; return t }

// WithMax sets the inclusive upper numeric bound.
func (t *Type) WithMax(max float64) *Type { t.Max = &max; return t }

// WithInteger requires the number to be integral.
func (t *Type) WithInteger() *Type { t.Integer = true; return t }

// WithMultipleOf requires the number to be a multiple of step.
func (t *Type) WithMultipleOf(step float64) *Type { t.MultipleOf = &step; return t }

// WithDefault sets the enum default value.
func (t *Type) WithDefault(value string) *Type { t.Default = value; return t }

// WithRequired marks object property names as required.
func (t *Type) WithRequired(names ...string) *Type {
	t.Required = append(t.Required, names...)
	return t
}

// WithAdditionalProperties allows keys beyond the declared properties.
func (t *Type) WithAdditionalProperties() *Type { t.AdditionalProperties = true; return t }

// WithMinItems sets the minimum array length.
func (t *Type) WithMinItems(n int) *Type { t.MinItems = &n; return t }

// WithMaxItems sets the maximum array length.
func (t *Type) WithMaxItems(n int) *Type { t.MaxItems = &n; return t }

// WithUniqueItems forbids duplicate array elements.
func (t *Type) WithUniqueItems() *Type { t.UniqueItems = true; return t }
