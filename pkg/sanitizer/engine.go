package sanitizer

// Record is one flat input or output record. A nil value is null.
type Record = map[string]any

// SanitizeRecord applies spec to one record. The result holds exactly the
// specification's fields; input keys outside the specification are dropped.
func SanitizeRecord(in Record, spec *Specification) Record {
	out := make(Record, len(spec.fields))
	for _, f := range spec.fields {
		value, present := in[f.Name]
		out[f.Name] = f.Rule.Apply(value, present)
	}
	return out
}

// SanitizeRecords applies spec to every record, preserving order and length.
func SanitizeRecords(in []Record, spec *Specification) []Record {
	out := make([]Record, len(in))
	for i, rec := range in {
		out[i] = SanitizeRecord(rec, spec)
	}
	return out
}
