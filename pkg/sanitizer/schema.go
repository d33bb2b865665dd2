package sanitizer

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

const tagName = "sanitize"

var (
	phoneType   = reflect.TypeFor[PhoneNumber]()
	schemaCache sync.Map // reflect.Type -> *TypeSchema
)

type setter func(target reflect.Value, value any) error

type schemaField struct {
	name   string
	goName string
	token  TypeToken
	index  []int
	depth  int
}

// TypeSchema describes the exported fields of a struct type and holds a
// setter per field. It is built once per type and shared.
type TypeSchema struct {
	typ     reflect.Type
	fields  []schemaField
	setters map[string]setter
}

// SchemaOf returns the descriptor for t, which must be a struct or a pointer
// to a struct.
func SchemaOf(t reflect.Type) (*TypeSchema, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil type", ErrUnknownType)
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s is not a struct", ErrUnknownType, t)
	}

	if cached, ok := schemaCache.Load(t); ok {
		return cached.(*TypeSchema), nil
	}

	schema := buildSchema(t)
	actual, _ := schemaCache.LoadOrStore(t, schema)
	return actual.(*TypeSchema), nil
}

func buildSchema(t reflect.Type) *TypeSchema {
	var candidates []schemaField
	collectFields(t, nil, map[reflect.Type]bool{t: true}, &candidates)

	// A name promoted from an embedded struct loses to the same name
	// declared closer to the top; among equals the first declared wins.
	shallowest := make(map[string]int, len(candidates))
	for _, f := range candidates {
		if d, ok := shallowest[f.name]; !ok || f.depth < d {
			shallowest[f.name] = f.depth
		}
	}

	schema := &TypeSchema{
		typ:     t,
		setters: make(map[string]setter, len(candidates)),
	}
	for _, f := range candidates {
		if f.depth != shallowest[f.name] {
			continue
		}
		if _, dup := schema.setters[f.name]; dup {
			continue
		}
		schema.fields = append(schema.fields, f)
		schema.setters[f.name] = fieldSetter(t, f)
	}
	return schema
}

// collectFields walks t in declaration order. Embedded structs without a
// json name are flattened into their parent the way encoding/json does.
func collectFields(t reflect.Type, parent []int, seen map[reflect.Type]bool, out *[]schemaField) {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		index := append(append(make([]int, 0, len(parent)+1), parent...), i)

		if sf.Anonymous && !hasJSONName(sf) {
			ft := sf.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			// An unexported embedded pointer cannot be allocated through
			// reflection, so only its value form is flattened.
			if ft.Kind() == reflect.Struct && (sf.IsExported() || sf.Type.Kind() != reflect.Pointer) {
				if _, skip := fieldName(sf); !skip && !seen[ft] {
					seen[ft] = true
					collectFields(ft, index, seen, out)
					delete(seen, ft)
				}
				continue
			}
		}
		if !sf.IsExported() {
			continue
		}

		name, skip := fieldName(sf)
		if skip {
			continue
		}

		token := inferToken(sf.Type)
		if tag := strings.TrimSpace(sf.Tag.Get(tagName)); tag != "" {
			token = TypeToken(tag)
		}

		*out = append(*out, schemaField{
			name:   name,
			goName: sf.Name,
			token:  token,
			index:  index,
			depth:  len(parent),
		})
	}
}

func hasJSONName(sf reflect.StructField) bool {
	name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
	return name != "" && name != "-"
}

func fieldName(sf reflect.StructField) (string, bool) {
	if sf.Tag.Get(tagName) == "-" {
		return "", true
	}
	if tag, ok := sf.Tag.Lookup("json"); ok {
		name, _, _ := strings.Cut(tag, ",")
		if name == "-" {
			return "", true
		}
		if name != "" {
			return name, false
		}
	}
	return sf.Name, false
}

func inferToken(t reflect.Type) TypeToken {
	for {
		if t == phoneType {
			return TokenPhone
		}
		if t.Kind() != reflect.Pointer {
			break
		}
		t = t.Elem()
	}

	switch {
	case t.Kind() == reflect.String:
		return TokenString
	case t.Kind() == reflect.Bool:
		return TokenBool
	case isIntKind(t.Kind()):
		return TokenInt
	case t.Kind() == reflect.Float32 || t.Kind() == reflect.Float64:
		return TokenFloat
	case t.Kind() == reflect.Slice || t.Kind() == reflect.Array:
		elem := t.Elem()
		for elem.Kind() == reflect.Pointer {
			elem = elem.Elem()
		}
		if isIntKind(elem.Kind()) {
			return TokenIntArray
		}
	}
	return TypeToken(t.String())
}

func isIntKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

func fieldSetter(t reflect.Type, f schemaField) setter {
	return func(target reflect.Value, value any) error {
		dst, ok := fieldByIndex(target, f.index, value != nil)
		if !ok {
			return nil
		}
		if err := assign(dst, value); err != nil {
			return &FieldError{Type: t.String(), Field: f.goName, Err: err}
		}
		return nil
	}
}

// fieldByIndex is reflect.Value.FieldByIndex that allocates nil embedded
// pointers on the way down when alloc is set. Without alloc a nil pointer
// on the path reports false, since the field is already zero.
func fieldByIndex(v reflect.Value, index []int, alloc bool) (reflect.Value, bool) {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				if !alloc {
					return reflect.Value{}, false
				}
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v, true
}

// Type returns the described struct type.
func (s *TypeSchema) Type() reflect.Type {
	return s.typ
}

func (s *TypeSchema) Name() string {
	return s.typ.String()
}

// Fields returns the field names and their tokens in declaration order.
func (s *TypeSchema) Fields() Fields {
	out := make(Fields, 0, len(s.fields))
	for _, f := range s.fields {
		out = append(out, Field{Name: f.name, Type: f.token})
	}
	return out
}

// Specification resolves the schema's fields into a fresh Specification.
func (s *TypeSchema) Specification() *Specification {
	return newSpecification(s.Fields(), s)
}

// assign stores value into dst. nil stores the zero value. Numeric values
// are converted only when no information is lost.
func assign(dst reflect.Value, value any) error {
	if value == nil {
		dst.Set(reflect.Zero(dst.Type()))
		return nil
	}

	if dst.Kind() == reflect.Pointer {
		elem := reflect.New(dst.Type().Elem())
		if err := assign(elem.Elem(), value); err != nil {
			return err
		}
		dst.Set(elem)
		return nil
	}

	src := reflect.ValueOf(value)
	if src.Type().AssignableTo(dst.Type()) {
		dst.Set(src)
		return nil
	}

	switch dk := dst.Kind(); {
	case dk == reflect.Slice:
		if src.Kind() != reflect.Slice && src.Kind() != reflect.Array {
			break
		}
		out := reflect.MakeSlice(dst.Type(), src.Len(), src.Len())
		for i := 0; i < src.Len(); i++ {
			if err := assign(out.Index(i), src.Index(i).Interface()); err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
		}
		dst.Set(out)
		return nil

	case dk == reflect.Array:
		if (src.Kind() != reflect.Slice && src.Kind() != reflect.Array) || src.Len() != dst.Len() {
			break
		}
		for i := 0; i < src.Len(); i++ {
			if err := assign(dst.Index(i), src.Index(i).Interface()); err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
		}
		return nil

	case dk == reflect.String:
		if src.Kind() == reflect.String {
			dst.SetString(src.String())
			return nil
		}

	case dk == reflect.Bool:
		if src.Kind() == reflect.Bool {
			dst.SetBool(src.Bool())
			return nil
		}

	case isIntKind(dk):
		if n, ok := integerOf(src); ok && setInteger(dst, n) {
			return nil
		}

	case dk == reflect.Float32 || dk == reflect.Float64:
		if f, ok := floatOf(src); ok && !dst.OverflowFloat(f) {
			dst.SetFloat(f)
			return nil
		}
	}

	return fmt.Errorf("cannot assign %T to %s", value, dst.Type())
}

func integerOf(v reflect.Value) (int64, bool) {
	switch {
	case v.CanInt():
		return v.Int(), true
	case v.CanUint():
		u := v.Uint()
		if u > 1<<63-1 {
			return 0, false
		}
		return int64(u), true
	case v.CanFloat():
		n, ok := intFromFloat(v.Float()).(int)
		return int64(n), ok
	}
	return 0, false
}

func setInteger(dst reflect.Value, n int64) bool {
	if dst.CanInt() {
		if dst.OverflowInt(n) {
			return false
		}
		dst.SetInt(n)
		return true
	}
	if n < 0 || dst.OverflowUint(uint64(n)) {
		return false
	}
	dst.SetUint(uint64(n))
	return true
}

func floatOf(v reflect.Value) (float64, bool) {
	switch {
	case v.CanFloat():
		return v.Float(), true
	case v.CanInt():
		return float64(v.Int()), true
	case v.CanUint():
		return float64(v.Uint()), true
	}
	return 0, false
}
