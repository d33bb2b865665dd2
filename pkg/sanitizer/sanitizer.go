package sanitizer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"

	apperrors "typesanitizer/pkg/errors"
	"typesanitizer/pkg/logger"
)

// Sanitizer is the entry point. The zero value is not usable; call New.
type Sanitizer struct {
	policy   Policy
	registry *Registry
	log      *logger.Logger
	validate *validator.Validate
}

type Option func(*Sanitizer)

// WithPolicy sets the policy used by Sanitize. The default is FailHard.
func WithPolicy(p Policy) Option {
	return func(s *Sanitizer) { s.policy = p }
}

// WithRegistry sets the registry TypeName specifications are looked up in.
func WithRegistry(r *Registry) Option {
	return func(s *Sanitizer) { s.registry = r }
}

func WithLogger(log *logger.Logger) Option {
	return func(s *Sanitizer) { s.log = log }
}

// WithStructValidation runs `validate` struct tags on every materialized
// instance.
func WithStructValidation() Option {
	return func(s *Sanitizer) { s.validate = NewValidator() }
}

// WithValidator is WithStructValidation with a caller-configured validator.
func WithValidator(v *validator.Validate) Option {
	return func(s *Sanitizer) { s.validate = v }
}

func New(opts ...Option) *Sanitizer {
	s := &Sanitizer{
		policy:   FailHard,
		registry: DefaultRegistry,
		log:      logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Discard()
	}
	if s.registry == nil {
		s.registry = DefaultRegistry
	}
	return s
}

func (s *Sanitizer) Policy() Policy {
	return s.policy
}

func (s *Sanitizer) Registry() *Registry {
	return s.registry
}

// Result mirrors the shape of the input: one record or a list.
type Result struct {
	List    bool
	Records []Record
	// Objects holds *T values when the specification came from a struct
	// type, nil otherwise.
	Objects []any
}

// Record returns the single sanitized record, or nil for list results.
func (r *Result) Record() Record {
	if r.List || len(r.Records) == 0 {
		return nil
	}
	return r.Records[0]
}

// Object returns the single materialized instance, or nil.
func (r *Result) Object() any {
	if r.List || len(r.Objects) == 0 {
		return nil
	}
	return r.Objects[0]
}

// Value returns the result in the input's shape: Record, []Record, *T or
// []any of *T.
func (r *Result) Value() any {
	switch {
	case r.Objects != nil && r.List:
		return r.Objects
	case r.Objects != nil:
		return r.Object()
	case r.List:
		return r.Records
	default:
		return r.Record()
	}
}

// Sanitize runs data through spec under the sanitizer's policy.
func (s *Sanitizer) Sanitize(data any, spec Spec) (*Result, error) {
	return s.SanitizeWith(data, spec, s.policy)
}

// SanitizeWith is Sanitize with an explicit policy.
//
// data is JSON text (string, []byte, json.RawMessage), a Record, or a list of
// records ([]Record, []any of Record). Errors are *apperrors.AppError values
// wrapping ErrParse, ErrUnknownType, ErrInvalidField, ErrConstruction,
// ErrValidation or ErrInput.
func (s *Sanitizer) SanitizeWith(data any, spec Spec, policy Policy) (*Result, error) {
	records, list, err := normalizeInput(data)
	if err != nil {
		return nil, err
	}

	resolved, err := ResolveSpec(spec, s.registry)
	if err != nil {
		return nil, apperrors.UnknownType(specName(spec), err)
	}

	sanitized := SanitizeRecords(records, resolved)
	s.log.Debug("input sanitized",
		"fields", resolved.Len(),
		"records", len(sanitized),
		"list", list,
		"policy", policy.String(),
	)

	if err := Enforce(sanitized, list, resolved, policy); err != nil {
		var fieldErr *InvalidFieldError
		if errors.As(err, &fieldErr) {
			fieldErr.Value = originalValue(records, fieldErr)
			s.log.Debug("field rejected", "field", fieldErr.Field, "index", fieldErr.Index, "element", fieldErr.Element)
			return nil, apperrors.InvalidField(fieldErr.Field, fieldErr.Index, fieldErr)
		}
		return nil, apperrors.Internal("policy enforcement failed", err)
	}

	result := &Result{List: list, Records: sanitized}
	schema := resolved.Schema()
	if schema == nil {
		return result, nil
	}

	objects, err := schema.BuildAll(sanitized)
	if err != nil {
		return nil, apperrors.Construction(schema.Name(), err)
	}
	if s.validate != nil {
		for _, obj := range objects {
			if err := validateStruct(s.validate, obj); err != nil {
				return nil, validationError(schema, err)
			}
		}
	}
	result.Objects = objects
	return result, nil
}

// Into sanitizes a single record into a fresh *T.
func Into[T any](s *Sanitizer, data any) (*T, error) {
	res, err := s.Sanitize(data, TypeOf[T]())
	if err != nil {
		return nil, err
	}
	if res.List {
		return nil, inputError("expected a single record, got a list")
	}
	obj, ok := res.Object().(*T)
	if !ok {
		return nil, apperrors.Construction(reflect.TypeFor[T]().String(), fmt.Errorf("%w: target must be a struct type", ErrConstruction))
	}
	return obj, nil
}

// IntoList sanitizes a list of records into fresh *T values, in order.
func IntoList[T any](s *Sanitizer, data any) ([]*T, error) {
	res, err := s.Sanitize(data, TypeOf[T]())
	if err != nil {
		return nil, err
	}
	if !res.List {
		return nil, inputError("expected a list of records, got a single record")
	}
	out := make([]*T, len(res.Objects))
	for i, obj := range res.Objects {
		typed, ok := obj.(*T)
		if !ok {
			return nil, apperrors.Construction(reflect.TypeFor[T]().String(), fmt.Errorf("%w: target must be a struct type", ErrConstruction))
		}
		out[i] = typed
	}
	return out, nil
}

var defaultSanitizer = New()

// Sanitize runs data through spec with the default registry.
func Sanitize(data any, spec Spec, policy Policy) (*Result, error) {
	return defaultSanitizer.SanitizeWith(data, spec, policy)
}

func normalizeInput(data any) ([]Record, bool, error) {
	switch t := data.(type) {
	case string:
		return decodeJSON([]byte(t))
	case []byte:
		return decodeJSON(t)
	case json.RawMessage:
		return decodeJSON(t)
	case Record:
		if t == nil {
			return nil, false, inputError("nil record")
		}
		return []Record{t}, false, nil
	case []Record:
		return t, true, nil
	case []any:
		return recordsFromList(t)
	case nil:
		return nil, false, inputError("no input")
	default:
		return nil, false, inputError(fmt.Sprintf("unsupported input type %T", data))
	}
}

func decodeJSON(text []byte) ([]Record, bool, error) {
	dec := json.NewDecoder(bytes.NewReader(text))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false, apperrors.Parse(fmt.Errorf("%w: %v", ErrParse, err))
	}
	if dec.More() {
		return nil, false, apperrors.Parse(fmt.Errorf("%w: trailing data after JSON value", ErrParse))
	}

	switch t := v.(type) {
	case map[string]any:
		return []Record{t}, false, nil
	case []any:
		return recordsFromList(t)
	default:
		return nil, false, apperrors.Parse(fmt.Errorf("%w: expected an object or an array, got %T", ErrParse, v))
	}
}

func recordsFromList(items []any) ([]Record, bool, error) {
	records := make([]Record, len(items))
	for i, item := range items {
		rec, ok := item.(map[string]any)
		if !ok {
			return nil, false, inputError(fmt.Sprintf("list element %d is %T, not a record", i, item))
		}
		records[i] = rec
	}
	return records, true, nil
}

func inputError(msg string) *apperrors.AppError {
	e := apperrors.InvalidInput(msg)
	e.Err = ErrInput
	return e
}

func validationError(schema *TypeSchema, err error) *apperrors.AppError {
	var verrs ValidationErrors
	if errors.As(err, &verrs) {
		e := apperrors.Validation(fmt.Sprintf("%s failed validation", schema.Name()), verrs.Details())
		e.Err = verrs
		return e
	}
	return apperrors.Construction(schema.Name(), fmt.Errorf("%w: %v", ErrValidation, err))
}

func originalValue(records []Record, e *InvalidFieldError) any {
	i := e.Index
	if i < 0 {
		i = 0
	}
	if i >= len(records) {
		return nil
	}
	v := records[i][e.Field]
	if e.Element < 0 {
		return v
	}
	rv := reflect.ValueOf(v)
	if (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) && e.Element < rv.Len() {
		return rv.Index(e.Element).Interface()
	}
	return nil
}

func specName(spec Spec) string {
	switch t := spec.(type) {
	case TypeName:
		return string(t)
	case typeSpec:
		if t.typ == nil {
			return "<nil>"
		}
		return t.typ.String()
	case nil:
		return "<nil>"
	default:
		return fmt.Sprintf("%T", spec)
	}
}
