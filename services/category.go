package services

import (
	"fmt"
	"strings"

	"github.com/mihirmehra/employee-management-system/constants"
	apperrors "github.com/mihirmehra/employee-management-system/errors"

	"github.com/fiam/gounidecode/unidecode"
	"github.com/schollz/closestmatch"
	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// suggestionThreshold là độ tương đồng tối thiểu để gợi ý giá trị gần đúng
const suggestionThreshold = 0.6

func normalizeInput(input string) string {
	input = strings.TrimSpace(input)
	input = strings.ToLower(unidecode.Unidecode(input))
	return input
}

// similarity is 1 - levenshtein distance / longest length.
func similarity(a, b string) float64 {
	distance := levenshtein.DistanceForStrings([]rune(a), []rune(b), levenshtein.DefaultOptions)
	maxLen := float64(len([]rune(a)))
	if l := float64(len([]rune(b))); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(distance)/maxLen
}

// EnumMatcher parses free-form input into one of a fixed set of values.
type EnumMatcher struct {
	field  string
	values []string
	cm     *closestmatch.ClosestMatch
}

func NewEnumMatcher(field string, values []string) *EnumMatcher {
	return &EnumMatcher{
		field:  field,
		values: values,
		cm:     closestmatch.New(values, []int{2, 3}),
	}
}

// Parse accepts exact values after normalisation, plus the "<value> leave"
// spelling. Anything else is a validation error that names the closest
// value when it is similar enough.
func (m *EnumMatcher) Parse(input string) (string, error) {
	normalized := normalizeInput(input)
	normalized = strings.TrimSuffix(normalized, " leave")
	normalized = strings.ReplaceAll(normalized, "_", "-")
	for _, v := range m.values {
		if normalized == v {
			return v, nil
		}
	}

	msg := fmt.Sprintf("Invalid %s %q. Allowed: %s", m.field, input, strings.Join(m.values, ", "))
	if normalized != "" {
		if closest := m.cm.Closest(normalized); closest != "" && similarity(normalized, closest) >= suggestionThreshold {
			msg = fmt.Sprintf("Invalid %s %q. Did you mean %q?", m.field, input, closest)
			return "", apperrors.Validation(msg).WithDetail("suggestion", closest)
		}
	}
	return "", apperrors.Validation(msg)
}

var (
	LeaveCategoryMatcher    = NewEnumMatcher("leave type", constants.LeaveCategories)
	SalaryTypeMatcher       = NewEnumMatcher("salary type", []string{constants.SalaryTypeFixed, constants.SalaryTypeHourly})
	AttendanceStatusMatcher = NewEnumMatcher("attendance status", []string{
		constants.AttendancePresent,
		constants.AttendanceAbsent,
		constants.AttendanceHalfDay,
		constants.AttendanceLate,
		constants.AttendanceOnLeave,
	})
	RoleMatcher           = NewEnumMatcher("role", []string{constants.RoleAdmin, constants.RoleHR, constants.RoleEmployee})
	EmployeeStatusMatcher = NewEnumMatcher("employee status", []string{
		constants.EmployeeStatusActive,
		constants.EmployeeStatusInactive,
		constants.EmployeeStatusOnboarding,
		constants.EmployeeStatusOffboarding,
	})
)
