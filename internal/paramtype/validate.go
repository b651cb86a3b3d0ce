package paramtype

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Validate checks value against the type tree rooted at t. The call is
// total: it returns a Result for every input, including a nil tree, and
// accumulates every violation instead of stopping at the first.
func (t *Type) Validate(value any) Result {
	c := &collector{}
	t.validate("$", value, c)
	return c.result()
}

func (t *Type) validate(path string, value any, c *collector) {
	if t == nil {
		c.errorf(path, RuleUnknownKind, "no type declared")
		return
	}

	switch t.Kind {
	case KindString:
		t.validateString(path, value, c)
	case KindNumber:
		t.validateNumber(path, value, c)
	case KindBoolean:
		if _, ok := value.(bool); !ok {
			c.errorf(path, RuleType, "expected boolean, got %s", typeName(value))
		}
	case KindEnum:
		t.validateEnum(path, value, c)
	case KindObject:
		t.validateObject(path, value, c)
	case KindArray:
		t.validateArray(path, value, c)
	case KindUnion:
		t.validateUnion(path, value, c)
	case KindReference:
		// A reference payload is an identifier string; whether the entity
		// it names exists is the registry's concern, not this validator's.
		if _, ok := value.(string); !ok {
			c.errorf(path, RuleReferenceKind, "expected %s reference as string, got %s", t.Entity, typeName(value))
		}
	default:
		c.errorf(path, RuleUnknownKind, "unknown type kind %q", t.Kind)
	}
}

func (t *Type) validateString(path string, value any, c *collector) {
	s, ok := value.(string)
	if !ok {
		c.errorf(path, RuleType, "expected string, got %s", typeName(value))
		return
	}
	if t.MinLength != nil && len(s) < *t.MinLength {
		c.errorf(path, RuleStringMinLength, "length %d is below minimum %d", len(s), *t.MinLength)
	}
	if t.MaxLength != nil && len(s) > *t.MaxLength {
		c.errorf(path, RuleStringMaxLength, "length %d exceeds maximum %d", len(s), *t.MaxLength)
	}
	if t.Pattern != "" {
		re, err := regexp.Compile(t.Pattern)
		if err != nil {
			c.errorf(path, RuleStringPattern, "invalid pattern %q: %v", t.Pattern, err)
		} else if !re.MatchString(s) {
			c.errorf(path, RuleStringPattern, "%q does not match pattern %q", s, t.Pattern)
		}
	}
	if t.Format != "" {
		t.validateFormat(path, s, c)
	}
}

func (t *Type) validateFormat(path, s string, c *collector) {
	switch t.Format {
	case "date-time":
		if _, err := time.Parse(time.RFC3339, s); err != nil {
			c.errorf(path, RuleStringFormat, "%q is not an RFC 3339 timestamp", s)
		}
	case "uuid":
		if _, err := uuid.Parse(s); err != nil {
			c.errorf(path, RuleStringFormat, "%q is not a UUID", s)
		}
	default:
		// Unrecognized formats are advisory, not structural.
		c.warnf(path, RuleStringFormat, "unrecognized format %q not enforced", t.Format)
	}
}

func (t *Type) validateNumber(path string, value any, c *collector) {
	n, ok := toNumber(value)
	if !ok {
		c.errorf(path, RuleType, "expected number, got %s", typeName(value))
		return
	}
	if t.Min != nil && n < *t.Min {
		c.errorf(path, RuleNumberMin, "%v is below minimum %v", n, *t.Min)
	}
	if t.Max != nil && n > *t.Max {
		c.errorf(path, RuleNumberMax, "%v exceeds maximum %v", n, *t.Max)
	}
	if t.Integer && n != math.Trunc(n) {
		c.errorf(path, RuleNumberInteger, "%v is not an integer", n)
	}
	if t.MultipleOf != nil && *t.MultipleOf != 0 {
		if remainder := math.Abs(math.Mod(n, *t.MultipleOf)); remainder > 1e-9 && math.Abs(remainder-*t.MultipleOf) > 1e-9 {
			c.errorf(path, RuleNumberMultipleOf, "%v is not a multiple of %v", n, *t.MultipleOf)
		}
	}
}

func (t *Type) validateEnum(path string, value any, c *collector) {
	s, ok := value.(string)
	if !ok {
		c.errorf(path, RuleType, "expected enum string, got %s", typeName(value))
		return
	}
	for _, v := range t.Values {
		if s == v {
			return
		}
	}
	c.errorf(path, RuleEnumValue, "%q is not one of %v", s, t.Values)
}

func (t *Type) validateObject(path string, value any, c *collector) {
	obj, ok := value.(map[string]any)
	if !ok {
		c.errorf(path, RuleType, "expected object, got %s", typeName(value))
		return
	}

	// Every missing required key is reported independently.
	for _, name := range t.Required {
		if _, present := obj[name]; !present {
			c.errorf(path+"."+name, RuleObjectRequired, "required property %q is missing", name)
		}
	}

	for name, propType := range t.Properties {
		if v, present := obj[name]; present {
			propType.validate(path+"."+name, v, c)
		}
	}

	if !t.AdditionalProperties {
		for name := range obj {
			if _, declared := t.Properties[name]; !declared {
				c.errorf(path+"."+name, RuleObjectUnknownKey, "unknown property %q", name)
			}
		}
	}
}

func (t *Type) validateArray(path string, value any, c *collector) {
	arr, ok := value.([]any)
	if !ok {
		c.errorf(path, RuleType, "expected array, got %s", typeName(value))
		return
	}
	if t.MinItems != nil && len(arr) < *t.MinItems {
		c.errorf(path, RuleArrayMinItems, "%d items is below minimum %d", len(arr), *t.MinItems)
	}
	if t.MaxItems != nil && len(arr) > *t.MaxItems {
		c.errorf(path, RuleArrayMaxItems, "%d items exceeds maximum %d", len(arr), *t.MaxItems)
	}
	for i, item := range arr {
		t.Items.validate(fmt.Sprintf("%s[%d]", path, i), item, c)
	}
	if t.UniqueItems {
		for i := 0; i < len(arr); i++ {
			for j := i + 1; j < len(arr); j++ {
				if reflect.DeepEqual(arr[i], arr[j]) {
					c.errorf(fmt.Sprintf("%s[%d]", path, j), RuleArrayUniqueItems, "duplicate of item %d", i)
				}
			}
		}
	}
}

// validateUnion tries each candidate in declaration order; the first
// structurally valid candidate wins and no ambiguity is reported.
func (t *Type) validateUnion(path string, value any, c *collector) {
	for _, candidate := range t.Candidates {
		sub := &collector{}
		candidate.validate(path, value, sub)
		if len(sub.errors) == 0 {
			c.warnings = append(c.warnings, sub.warnings...)
			return
		}
	}
	c.errorf(path, RuleUnionNoMatch, "value matches none of %d union candidates", len(t.Candidates))
}

// toNumber widens the numeric representations JSON decoding and Go callers
// produce into float64.
func toNumber(value any) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// typeName names a value's dynamic type for error messages.
func typeName(value any) string {
	if value == nil {
		return "null"
	}
	switch value.(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, float32, int, int32, int64, json.Number:
		return "number"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	default:
		return reflect.TypeOf(value).String()
	}
}
