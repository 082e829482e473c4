// Package requisite rebuilds a degree plan's requisite-edge structure from
// per-term requisite expression tables.
//
// A requisite expression is a disjunction of conjunctions: an ordered list
// of alternative requirement sets, each an ordered list of course names
// that must all be satisfied for that alternative to hold. Expressions are
// resolved against the names present in the plan; a name with no matching
// plan course produces no edge.
//
// The [Resolver] classifies each produced edge as direct (part of the
// minimal requirement set actually used) or indirect (reachable only via a
// non-chosen alternative), and flags edges whose requirement is already
// implied by another path of direct edges as redundant.
package requisite

import (
	"encoding/json"
	stderrors "errors"
	"strings"

	cgerrors "github.com/coursegraph/coursegraph/pkg/errors"
	"github.com/coursegraph/coursegraph/pkg/plan"
)

// Expression is a requisite expression: the outer slice holds
// OR-alternatives, each inner slice the AND-members of one alternative.
//
// Members are course names, optionally tagged with a requisite type
// prefix: "coreq:CHEM 6A" or "strict_coreq:PHYS 2A". Untagged members are
// prerequisites. Use [Member] to split a raw member string.
type Expression [][]string

// UnmarshalJSON decodes an expression with strict structural validation:
// the payload must be an array of arrays of strings. Wrong nesting fails
// fast with an INVALID_EXPRESSION error rather than being silently
// coerced or misread.
func (e *Expression) UnmarshalJSON(data []byte) error {
	var outer []json.RawMessage
	if err := json.Unmarshal(data, &outer); err != nil {
		return cgerrors.Wrap(cgerrors.ErrCodeInvalidExpression, err,
			"requisite expression must be an array of alternatives")
	}

	out := make(Expression, 0, len(outer))
	for i, alt := range outer {
		var members []string
		if err := json.Unmarshal(alt, &members); err != nil {
			return cgerrors.Wrap(cgerrors.ErrCodeInvalidExpression, err,
				"alternative %d must be an array of course names", i)
		}
		out = append(out, members)
	}
	*e = out
	return nil
}

// Table maps course names to their requisite expressions for one term.
// Absence of an entry means the course has no known requisites.
type Table map[string]Expression

// ParseTable decodes a raw per-term payload into a Table, validating
// every expression's structure.
func ParseTable(data []byte) (Table, error) {
	var t Table
	if err := json.Unmarshal(data, &t); err != nil {
		var cgerr *cgerrors.Error
		if stderrors.As(err, &cgerr) {
			return nil, cgerr
		}
		return nil, cgerrors.Wrap(cgerrors.ErrCodeInvalidExpression, err,
			"requisite table must map course names to expressions")
	}
	return t, nil
}

// Member splits a raw expression member into its course name and requisite
// type. Recognized tags are "coreq" and "strict_coreq", separated from the
// name by a colon; anything else (including untagged members) yields a
// prerequisite with the raw string as the name.
func Member(raw string) (name string, typ plan.EdgeType) {
	tag, rest, found := strings.Cut(raw, ":")
	if !found {
		return raw, plan.Prerequisite
	}
	switch tag {
	case "coreq":
		return rest, plan.Corequisite
	case "strict_coreq":
		return rest, plan.StrictCorequisite
	default:
		return raw, plan.Prerequisite
	}
}
