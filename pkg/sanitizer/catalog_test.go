package sanitizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		token TypeToken
		want  FilterRule
	}{
		{"string", RuleEscape},
		{"bool", RuleBool},
		{"int", RuleInt},
		{"float", RuleFloat},
		{"phoneNumber", RulePhone},
		{"int[]", RuleIntArray},
		{"unknownType", RuleNone},
		{"", RuleNone},
		{"Int", RuleNone},
		{"float[]", RuleNone},
	}

	for _, tt := range tests {
		t.Run(string(tt.token), func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.token))
		})
	}
}

func TestFilterRule_String(t *testing.T) {
	assert.Equal(t, "escape", RuleEscape.String())
	assert.Equal(t, "int_array", RuleIntArray.String())
	assert.Equal(t, "unknown", FilterRule(99).String())
}

func TestRuleNone_AlwaysNil(t *testing.T) {
	inputs := []any{"abc", 123, 1.5, true, []any{1, 2}, ""}
	for _, in := range inputs {
		assert.Nil(t, RuleNone.Apply(in, true), "input %v", in)
	}
}

func TestApply_AbsentAndNull(t *testing.T) {
	rules := []FilterRule{RuleEscape, RuleBool, RuleInt, RuleFloat, RulePhone, RuleIntArray, RuleNone}
	for _, r := range rules {
		t.Run(r.String(), func(t *testing.T) {
			assert.Nil(t, r.Apply("1", false), "absent field must be nil")
			assert.Nil(t, r.Apply(nil, true), "null input must be nil")
		})
	}
}
