package schema

import (
	"encoding/json"
)

// ============================================================================
// MAPPING — Role → column, with the evidence behind each assignment
// ============================================================================
// "Not found" is an ordinary state: Column returns ok=false and callers are
// expected to branch on it rather than treat it as an error.
// ============================================================================

// Assignment records which column holds a role and why.
type Assignment struct {
	Role   Role   `json:"role"`
	Column string `json:"column"`

	// Keyword is the header substring that matched (named roles only).
	Keyword string `json:"keyword,omitempty"`

	// DateRatio is the share of sampled values that parsed as dates (date role only).
	DateRatio float64 `json:"dateRatio,omitempty"`

	// Synthetic marks a column computed during inference rather than read from the source.
	Synthetic bool `json:"synthetic,omitempty"`

	// DerivedFrom lists the source columns of a synthetic column.
	DerivedFrom []string `json:"derivedFrom,omitempty"`
}

// Mapping is the result of schema inference.
type Mapping struct {
	slots [numRoles]Assignment
}

func (m *Mapping) set(a Assignment) {
	m.slots[a.Role] = a
}

// Column returns the column holding role r, or ok=false when none was found.
func (m Mapping) Column(r Role) (string, bool) {
	if r <= RoleUnassigned || r >= numRoles {
		return "", false
	}
	col := m.slots[r].Column
	return col, col != ""
}

// Has reports whether role r was found.
func (m Mapping) Has(r Role) bool {
	_, ok := m.Column(r)
	return ok
}

// Assignment returns the full assignment record for role r.
func (m Mapping) Assignment(r Role) (Assignment, bool) {
	if !m.Has(r) {
		return Assignment{}, false
	}
	return m.slots[r], true
}

// Found returns every assignment in detection order.
func (m Mapping) Found() []Assignment {
	var out []Assignment
	for _, r := range Roles() {
		if a, ok := m.Assignment(r); ok {
			out = append(out, a)
		}
	}
	return out
}

// RoleOf returns the first role held by a column, or RoleUnassigned.
func (m Mapping) RoleOf(column string) Role {
	for _, r := range Roles() {
		if col, ok := m.Column(r); ok && col == column {
			return r
		}
	}
	return RoleUnassigned
}

// SyntheticRevenue reports whether revenue was computed as price × quantity.
func (m Mapping) SyntheticRevenue() bool {
	return m.slots[RoleRevenue].Synthetic && m.Has(RoleRevenue)
}

// SummaryLine is one row of the detected-columns summary.
type SummaryLine struct {
	Attribute string `json:"attribute"`
	Column    string `json:"column"`
}

var summaryOrder = []Role{RoleRevenue, RoleQuantity, RoleDate, RoleProduct, RoleStore, RoleOrder, RoleCustomer}

// Summary lists the found key columns for display.
func (m Mapping) Summary() []SummaryLine {
	var out []SummaryLine
	for _, r := range summaryOrder {
		if col, ok := m.Column(r); ok {
			out = append(out, SummaryLine{Attribute: r.Label(), Column: col})
		}
	}
	return out
}

// MarshalJSON renders every role, with null for roles that were not found.
func (m Mapping) MarshalJSON() ([]byte, error) {
	out := make(map[string]*string, numRoles-1)
	for _, r := range Roles() {
		if col, ok := m.Column(r); ok {
			out[r.String()] = &col
		} else {
			out[r.String()] = nil
		}
	}
	return json.Marshal(out)
}

// MarshalYAML mirrors MarshalJSON for the CLI's YAML output.
func (m Mapping) MarshalYAML() (interface{}, error) {
	out := make(map[string]interface{}, numRoles-1)
	for _, r := range Roles() {
		if col, ok := m.Column(r); ok {
			out[r.String()] = col
		} else {
			out[r.String()] = nil
		}
	}
	return out, nil
}
