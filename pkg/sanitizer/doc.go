// Package sanitizer coerces untrusted structured input into a declared shape.
//
// Input is a record (map[string]any), a list of records, or raw JSON text.
// The shape is a Specification: an ordered list of field names, each bound to
// a FilterRule resolved from a type token ("string", "bool", "int", "float",
// "phoneNumber", "int[]"). A specification is given explicitly (Fields,
// FieldMap) or inferred from the exported fields of a Go struct (TypeOf,
// TypeName).
//
// Per-field coercion never fails: a value that cannot be coerced becomes nil.
// The Policy decides what happens next:
//   - FailHard: the first nil anywhere in the result fails the whole call with
//     ErrInvalidField.
//   - NullOnFailure: nils are returned to the caller as-is.
//
// Fields missing from the input and fields whose token is not in the catalog
// always sanitize to nil.
//
// When the specification comes from a struct type the sanitized records are
// materialized into fresh instances of that type. All coercion is idempotent:
// sanitizing a sanitized record with the same specification returns an equal
// record.
//
// A Sanitizer holds no per-call state and is safe for concurrent use.
package sanitizer
