package requisite

import (
	"encoding/json"
	"reflect"
	"testing"

	cgerrors "github.com/coursegraph/coursegraph/pkg/errors"
	"github.com/coursegraph/coursegraph/pkg/plan"
)

func TestExpressionUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Expression
		wantErr bool
	}{
		{
			name:  "single alternative",
			input: `[["MATH 20A"]]`,
			want:  Expression{{"MATH 20A"}},
		},
		{
			name:  "multiple alternatives",
			input: `[["MATH 20A","MATH 20B"],["MATH 31AH"]]`,
			want:  Expression{{"MATH 20A", "MATH 20B"}, {"MATH 31AH"}},
		},
		{
			name:  "empty expression",
			input: `[]`,
			want:  Expression{},
		},
		{
			name:    "flat string array",
			input:   `["MATH 20A"]`,
			wantErr: true,
		},
		{
			name:    "extra nesting",
			input:   `[[["MATH 20A"]]]`,
			wantErr: true,
		},
		{
			name:    "object payload",
			input:   `{"and":["MATH 20A"]}`,
			wantErr: true,
		},
		{
			name:    "numeric member",
			input:   `[[20]]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var e Expression
			err := json.Unmarshal([]byte(tt.input), &e)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Unmarshal(%s) succeeded, want error", tt.input)
				}
				if !cgerrors.Is(err, cgerrors.ErrCodeInvalidExpression) {
					t.Errorf("error code = %v, want INVALID_EXPRESSION", cgerrors.GetCode(err))
				}
				return
			}
			if err != nil {
				t.Fatalf("Unmarshal(%s): %v", tt.input, err)
			}
			if !reflect.DeepEqual(e, tt.want) {
				t.Errorf("got %v, want %v", e, tt.want)
			}
		})
	}
}

func TestParseTable(t *testing.T) {
	data := []byte(`{
		"MATH 20B": [["MATH 20A"]],
		"PHYS 2A": [["MATH 20A","coreq:MATH 20B"],["MATH 31AH"]]
	}`)

	tbl, err := ParseTable(data)
	if err != nil {
		t.Fatalf("ParseTable: %v", err)
	}
	if len(tbl) != 2 {
		t.Fatalf("len = %d, want 2", len(tbl))
	}
	want := Expression{{"MATH 20A", "coreq:MATH 20B"}, {"MATH 31AH"}}
	if !reflect.DeepEqual(tbl["PHYS 2A"], want) {
		t.Errorf("PHYS 2A = %v, want %v", tbl["PHYS 2A"], want)
	}
}

func TestParseTableRejectsMalformedEntries(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"flat expression", `{"MATH 20B": ["MATH 20A"]}`},
		{"array at top level", `[["MATH 20A"]]`},
		{"string value", `{"MATH 20B": "MATH 20A"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseTable([]byte(tt.input)); err == nil {
				t.Fatal("ParseTable succeeded, want error")
			} else if !cgerrors.Is(err, cgerrors.ErrCodeInvalidExpression) {
				t.Errorf("error code = %v, want INVALID_EXPRESSION", cgerrors.GetCode(err))
			}
		})
	}
}

func TestMember(t *testing.T) {
	tests := []struct {
		raw      string
		wantName string
		wantType plan.EdgeType
	}{
		{"MATH 20A", "MATH 20A", plan.Prerequisite},
		{"coreq:CHEM 6A", "CHEM 6A", plan.Corequisite},
		{"strict_coreq:PHYS 2CL", "PHYS 2CL", plan.StrictCorequisite},
		{"unknown:THING 1", "unknown:THING 1", plan.Prerequisite},
		{"", "", plan.Prerequisite},
	}
	for _, tt := range tests {
		name, typ := Member(tt.raw)
		if name != tt.wantName || typ != tt.wantType {
			t.Errorf("Member(%q) = (%q, %v), want (%q, %v)", tt.raw, name, typ, tt.wantName, tt.wantType)
		}
	}
}
