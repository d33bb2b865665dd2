package sanitizer

// TypeToken names a logical field type.
type TypeToken string

const (
	TokenString   TypeToken = "string"
	TokenBool     TypeToken = "bool"
	TokenInt      TypeToken = "int"
	TokenFloat    TypeToken = "float"
	TokenPhone    TypeToken = "phoneNumber"
	TokenIntArray TypeToken = "int[]"
)

// FilterRule is the closed set of coercions a field can be bound to.
type FilterRule int

const (
	// RuleNone drops the value: the field always sanitizes to nil.
	RuleNone FilterRule = iota
	RuleEscape
	RuleBool
	RuleInt
	RuleFloat
	RulePhone
	RuleIntArray
)

var ruleNames = [...]string{
	RuleNone:     "none",
	RuleEscape:   "escape",
	RuleBool:     "bool",
	RuleInt:      "int",
	RuleFloat:    "float",
	RulePhone:    "phone",
	RuleIntArray: "int_array",
}

func (r FilterRule) String() string {
	if r < 0 || int(r) >= len(ruleNames) {
		return "unknown"
	}
	return ruleNames[r]
}

// Resolve maps a type token to its rule. Unrecognized tokens resolve to
// RuleNone.
func Resolve(token TypeToken) FilterRule {
	switch token {
	case TokenString:
		return RuleEscape
	case TokenBool:
		return RuleBool
	case TokenInt:
		return RuleInt
	case TokenFloat:
		return RuleFloat
	case TokenPhone:
		return RulePhone
	case TokenIntArray:
		return RuleIntArray
	default:
		return RuleNone
	}
}

// Apply runs the rule against a single value. present is false when the
// field was absent from the input record. The result is nil when the value
// cannot be coerced.
func (r FilterRule) Apply(value any, present bool) any {
	if !present || value == nil {
		return nil
	}

	switch r {
	case RuleEscape:
		return escapeValue(value)
	case RuleBool:
		return parseBool(value)
	case RuleInt:
		return parseInt(value)
	case RuleFloat:
		return parseFloat(value)
	case RulePhone:
		return phoneValue(value)
	case RuleIntArray:
		return parseIntArray(value)
	default:
		return nil
	}
}
