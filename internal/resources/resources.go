// Package resources maps a project size to a staffing plan.
package resources

import (
	"encoding/json"
	"strings"
)

// Engagement types.
const (
	EngagementPartial = "Partial"
	EngagementFull    = "Full"
)

// ErrInvalidSize is the message carried by an allocation for an unknown size.
const ErrInvalidSize = "Invalid project size. Expected 'small', 'medium', or 'large'."

// Role is one staffing line.
type Role struct {
	Role                 string `json:"role"`
	Units                int    `json:"units"`
	AllocationPercentage int    `json:"allocation_percentage"`
	EngagementType       string `json:"engagement_type"`
}

// Allocation is either a list of roles or, for an unknown size, an error.
// It marshals to a JSON array or to {"error": "..."} respectively.
type Allocation struct {
	Roles []Role
	Error string
}

// Valid reports whether the allocation carries roles rather than an error.
func (a Allocation) Valid() bool {
	return a.Error == ""
}

// MarshalJSON implements json.Marshaler.
func (a Allocation) MarshalJSON() ([]byte, error) {
	if !a.Valid() {
		return json.Marshal(struct {
			Error string `json:"error"`
		}{Error: a.Error})
	}
	roles := a.Roles
	if roles == nil {
		roles = []Role{}
	}
	return json.Marshal(roles)
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Allocation) UnmarshalJSON(data []byte) error {
	var roles []Role
	if err := json.Unmarshal(data, &roles); err == nil {
		*a = Allocation{Roles: roles}
		return nil
	}
	var obj struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*a = Allocation{Error: obj.Error}
	return nil
}

func role(name string, units, pct int, engagement string) Role {
	return Role{Role: name, Units: units, AllocationPercentage: pct, EngagementType: engagement}
}

// Allocate returns the staffing plan for size. The label is trimmed and
// matched case-insensitively; unknown labels yield an error allocation.
func Allocate(size string) Allocation {
	switch strings.ToLower(strings.TrimSpace(size)) {
	case "small":
		return Allocation{Roles: []Role{
			role("Frontend Developer", 1, 100, EngagementPartial),
			role("Fullstack Developer", 1, 100, EngagementPartial),
			role("Backend Developer", 1, 100, EngagementPartial),
		}}
	case "medium":
		return Allocation{Roles: []Role{
			role("Project Manager", 1, 15, EngagementFull),
			role("Fullstack Developer", 1, 100, EngagementFull),
			role("Frontend Developer", 1, 100, EngagementFull),
			role("QA Engineer", 1, 20, EngagementFull),
		}}
	case "large":
		return Allocation{Roles: []Role{
			role("Project Manager", 1, 30, EngagementFull),
			role("Senior Fullstack Developer", 1, 30, EngagementFull),
			role("Fullstack Developer", 3, 100, EngagementFull),
			role("QA Engineer", 1, 100, EngagementFull),
		}}
	default:
		return Allocation{Error: ErrInvalidSize}
	}
}
