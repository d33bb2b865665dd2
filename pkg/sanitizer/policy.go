package sanitizer

import (
	"fmt"
	"strings"
)

// Policy selects what happens when a field sanitizes to nil.
type Policy int

const (
	// FailHard rejects the whole call at the first nil leaf.
	FailHard Policy = iota
	// NullOnFailure returns nil leaves to the caller.
	NullOnFailure
)

const (
	policyFailHard      = "fail_hard"
	policyNullOnFailure = "null_on_failure"
)

func (p Policy) String() string {
	switch p {
	case FailHard:
		return policyFailHard
	case NullOnFailure:
		return policyNullOnFailure
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy accepts "fail_hard" or "null_on_failure" (case and dash
// insensitive). The empty string means FailHard.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_") {
	case "", policyFailHard:
		return FailHard, nil
	case policyNullOnFailure:
		return NullOnFailure, nil
	default:
		return FailHard, fmt.Errorf("unknown policy %q", s)
	}
}

func (p Policy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Policy) UnmarshalText(text []byte) error {
	parsed, err := ParsePolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Enforce checks sanitized records against the policy. index is reported
// only when list is true. Under FailHard it returns an *InvalidFieldError for
// the first nil leaf in record order, then field order, then element order.
func Enforce(records []Record, list bool, spec *Specification, p Policy) error {
	if p == NullOnFailure {
		return nil
	}

	for i, rec := range records {
		index := -1
		if list {
			index = i
		}
		for _, f := range spec.fields {
			if err := checkLeaf(rec[f.Name], f.Name, index); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkLeaf(v any, field string, index int) error {
	switch t := v.(type) {
	case nil:
		return &InvalidFieldError{Field: field, Index: index, Element: -1}
	case []any:
		for j, elem := range t {
			if elem == nil {
				return &InvalidFieldError{Field: field, Index: index, Element: j}
			}
		}
	}
	return nil
}
