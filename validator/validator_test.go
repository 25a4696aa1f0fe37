package validator

import (
	"testing"

	"github.com/mihirmehra/employee-management-system/errors"
)

type leaveForm struct {
	LeaveType string `json:"leaveType" binding:"required"`
	StartDate string `json:"startDate" binding:"required,date"`
	Period    string `json:"period" binding:"omitempty,period"`
	Days      int    `json:"days" binding:"min=0"`
}

func TestStructRequired(t *testing.T) {
	err := Struct(leaveForm{StartDate: "2024-01-10"})
	if !errors.HasCode(err, errors.ErrCodeRequiredField) {
		t.Fatalf("want REQUIRED_FIELD, got %v", err)
	}
	appErr := errors.GetAppError(err)
	if appErr.Details["leaveType"] != "required" {
		t.Fatalf("details should use json names, got %v", appErr.Details)
	}
}

func TestStructCustomRules(t *testing.T) {
	cases := []struct {
		name string
		form leaveForm
		ok   bool
	}{
		{"valid", leaveForm{LeaveType: "sick", StartDate: "2024-01-10", Period: "2024-01"}, true},
		{"bad date", leaveForm{LeaveType: "sick", StartDate: "10/01/2024"}, false},
		{"bad period", leaveForm{LeaveType: "sick", StartDate: "2024-01-10", Period: "2024-13"}, false},
		{"negative", leaveForm{LeaveType: "sick", StartDate: "2024-01-10", Days: -1}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Struct(tc.form)
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok && !errors.HasCode(err, errors.ErrCodeValidation) {
				t.Fatalf("want VALIDATION_ERROR, got %v", err)
			}
		})
	}
}

func TestTranslateNonValidationError(t *testing.T) {
	if err := Translate(nil); err != nil {
		t.Fatalf("nil in, nil out; got %v", err)
	}
	err := Translate(&errors.AppError{Message: "eof"})
	if !errors.HasCode(err, errors.ErrCodeInvalidFormat) {
		t.Fatalf("want INVALID_FORMAT, got %v", err)
	}
}

func TestSetup(t *testing.T) {
	if err := Setup(); err != nil {
		t.Fatal(err)
	}
}
