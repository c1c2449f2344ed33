package resources

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocateValidSizes(t *testing.T) {
	tests := []struct {
		size    string
		partial bool
	}{
		{size: "small", partial: true},
		{size: "SMALL", partial: true},
		{size: "medium"},
		{size: " Medium "},
		{size: "large"},
		{size: "Large"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.size, func(t *testing.T) {
			a := Allocate(tt.size)
			require.True(t, a.Valid())
			require.NotEmpty(t, a.Roles)
			for _, r := range a.Roles {
				assert.Greater(t, r.AllocationPercentage, 0)
				assert.LessOrEqual(t, r.AllocationPercentage, 100)
				assert.GreaterOrEqual(t, r.Units, 1)
				assert.Equal(t, tt.partial, r.EngagementType == EngagementPartial)
			}
		})
	}
}

func TestAllocateTables(t *testing.T) {
	assert.Equal(t, []Role{
		{Role: "Project Manager", Units: 1, AllocationPercentage: 30, EngagementType: EngagementFull},
		{Role: "Senior Fullstack Developer", Units: 1, AllocationPercentage: 30, EngagementType: EngagementFull},
		{Role: "Fullstack Developer", Units: 3, AllocationPercentage: 100, EngagementType: EngagementFull},
		{Role: "QA Engineer", Units: 1, AllocationPercentage: 100, EngagementType: EngagementFull},
	}, Allocate("large").Roles)

	medium := Allocate("medium").Roles
	require.Len(t, medium, 4)
	assert.Equal(t, 15, medium[0].AllocationPercentage)
	assert.Equal(t, 20, medium[3].AllocationPercentage)

	small := Allocate("small").Roles
	require.Len(t, small, 3)
	assert.Equal(t, "Backend Developer", small[2].Role)
}

func TestAllocateInvalidSize(t *testing.T) {
	for _, size := range []string{"", "tiny", "extra-large", "smal"} {
		a := Allocate(size)
		assert.False(t, a.Valid(), size)
		assert.Nil(t, a.Roles)
		assert.Equal(t, ErrInvalidSize, a.Error)
	}
}

func TestAllocationJSON(t *testing.T) {
	raw, err := json.Marshal(Allocate("small"))
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"role":"Frontend Developer","units":1,"allocation_percentage":100,"engagement_type":"Partial"},
		{"role":"Fullstack Developer","units":1,"allocation_percentage":100,"engagement_type":"Partial"},
		{"role":"Backend Developer","units":1,"allocation_percentage":100,"engagement_type":"Partial"}
	]`, string(raw))

	raw, err = json.Marshal(Allocate("huge"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"Invalid project size. Expected 'small', 'medium', or 'large'."}`, string(raw))

	var back Allocation
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, ErrInvalidSize, back.Error)

	raw, err = json.Marshal(Allocate("medium"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, Allocate("medium"), back)
}
