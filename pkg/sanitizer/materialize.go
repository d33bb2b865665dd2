package sanitizer

import (
	"reflect"
)

// Build allocates a fresh instance of the schema's type and assigns every
// record value that has a matching field. It returns a pointer to the new
// struct.
func (s *TypeSchema) Build(rec Record) (any, error) {
	ptr := reflect.New(s.typ)
	target := ptr.Elem()

	for _, f := range s.fields {
		value, ok := rec[f.name]
		if !ok {
			continue
		}
		if err := s.setters[f.name](target, value); err != nil {
			return nil, err
		}
	}
	return ptr.Interface(), nil
}

// BuildAll materializes every record in order.
func (s *TypeSchema) BuildAll(records []Record) ([]any, error) {
	out := make([]any, len(records))
	for i, rec := range records {
		obj, err := s.Build(rec)
		if err != nil {
			return nil, err
		}
		out[i] = obj
	}
	return out, nil
}
