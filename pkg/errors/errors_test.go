package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidExpression, "bad nesting for %q", "CSE 100")

	if err.Code != ErrCodeInvalidExpression {
		t.Errorf("Code = %s, want %s", err.Code, ErrCodeInvalidExpression)
	}
	if !strings.Contains(err.Error(), "INVALID_EXPRESSION") {
		t.Errorf("Error() = %q, want code prefix", err.Error())
	}
	if !strings.Contains(err.Error(), `"CSE 100"`) {
		t.Errorf("Error() = %q, want formatted message", err.Error())
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Wrap(ErrCodeNetwork, cause, "failed to fetch term %s", "FA24")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error does not match cause with errors.Is")
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("Error() = %q, want cause included", err.Error())
	}
}

func TestIsAndGetCode(t *testing.T) {
	err := New(ErrCodeTermNotFound, "no data for FA19")
	wrapped := fmt.Errorf("resolve: %w", err)

	if !Is(wrapped, ErrCodeTermNotFound) {
		t.Error("Is() failed to find code through wrapping")
	}
	if Is(wrapped, ErrCodeNetwork) {
		t.Error("Is() matched the wrong code")
	}
	if got := GetCode(wrapped); got != ErrCodeTermNotFound {
		t.Errorf("GetCode() = %s, want %s", got, ErrCodeTermNotFound)
	}
	if got := GetCode(fmt.Errorf("plain")); got != "" {
		t.Errorf("GetCode(plain) = %s, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidPlan, "plan has no terms")
	if got := UserMessage(err); got != "plan has no terms" {
		t.Errorf("UserMessage() = %q, want message without code", got)
	}
	plain := fmt.Errorf("something broke")
	if got := UserMessage(plain); got != "something broke" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}

func TestValidateCourseName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"Valid", "MATH 20A", false},
		{"ValidPunctuation", "CSE 8A/AL", false},
		{"Empty", "", true},
		{"ControlChar", "CSE\x01100", true},
		{"TooLong", strings.Repeat("A", 257), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCourseName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCourseName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && GetCode(err) != ErrCodeInvalidCourse {
				t.Errorf("code = %s, want %s", GetCode(err), ErrCodeInvalidCourse)
			}
		})
	}
}

func TestValidateTermKey(t *testing.T) {
	tests := []struct {
		key     string
		wantErr bool
	}{
		{"FA24", false},
		{"WI21", false},
		{"", true},
		{"FALL2024", true},
		{"FA/4", true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			err := ValidateTermKey(tt.key)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTermKey(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
			}
		})
	}
}
