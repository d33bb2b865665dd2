package sanitizer

import (
	"reflect"
	"sort"
)

// Field binds a record key to a type token.
type Field struct {
	Name string    `json:"name"`
	Type TypeToken `json:"type"`
}

// FieldRule is a resolved Field.
type FieldRule struct {
	Name  string
	Token TypeToken
	Rule  FilterRule
}

// Specification is the ordered field to rule mapping used for one call.
type Specification struct {
	fields []FieldRule
	schema *TypeSchema
}

// Fields returns the resolved fields in order.
func (s *Specification) Fields() []FieldRule {
	out := make([]FieldRule, len(s.fields))
	copy(out, s.fields)
	return out
}

func (s *Specification) Len() int {
	return len(s.fields)
}

// Schema returns the target type descriptor, or nil for explicit field lists.
func (s *Specification) Schema() *TypeSchema {
	return s.schema
}

func newSpecification(fields []Field, schema *TypeSchema) *Specification {
	spec := &Specification{
		fields: make([]FieldRule, 0, len(fields)),
		schema: schema,
	}
	seen := make(map[string]int, len(fields))
	for _, f := range fields {
		rule := FieldRule{Name: f.Name, Token: f.Type, Rule: Resolve(f.Type)}
		if i, ok := seen[f.Name]; ok {
			spec.fields[i] = rule
			continue
		}
		seen[f.Name] = len(spec.fields)
		spec.fields = append(spec.fields, rule)
	}
	return spec
}

// Spec is anything that can be resolved into a Specification.
type Spec interface {
	resolve(r *Registry) (*Specification, error)
}

// Fields is an explicit, ordered specification. A repeated name keeps its
// first position and its last token.
type Fields []Field

func (f Fields) resolve(_ *Registry) (*Specification, error) {
	return newSpecification(f, nil), nil
}

// FieldMap is an explicit specification keyed by field name. Go maps are
// unordered, so fields are resolved in sorted name order.
type FieldMap map[string]string

func (m FieldMap) resolve(_ *Registry) (*Specification, error) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]Field, 0, len(names))
	for _, name := range names {
		fields = append(fields, Field{Name: name, Type: TypeToken(m[name])})
	}
	return newSpecification(fields, nil), nil
}

// TypeName names a type registered in the sanitizer's Registry.
type TypeName string

func (n TypeName) resolve(r *Registry) (*Specification, error) {
	schema, err := r.Lookup(string(n))
	if err != nil {
		return nil, err
	}
	return schema.Specification(), nil
}

type typeSpec struct {
	typ reflect.Type
}

func (t typeSpec) resolve(_ *Registry) (*Specification, error) {
	schema, err := SchemaOf(t.typ)
	if err != nil {
		return nil, err
	}
	return schema.Specification(), nil
}

// TypeOf infers the specification from the exported fields of struct type T.
func TypeOf[T any]() Spec {
	return typeSpec{typ: reflect.TypeFor[T]()}
}

// ResolveSpec resolves spec against r. A nil registry means DefaultRegistry.
func ResolveSpec(spec Spec, r *Registry) (*Specification, error) {
	if spec == nil {
		return nil, ErrUnknownType
	}
	if r == nil {
		r = DefaultRegistry
	}
	return spec.resolve(r)
}
