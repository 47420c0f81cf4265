package enrolment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcid-dev/MoodleLink/app/models"
)

func uintPtr(v uint) *uint { return &v }

func TestComputeEntitlements(t *testing.T) {
	order := &models.Order{
		ID:         77,
		CustomerID: 42,
		Lines: []models.OrderLine{
			{ID: 1, ProductID: 400},
			{ID: 2, ProductID: 500, VariantID: uintPtr(5)},
		},
	}
	links := []models.Link{
		{ID: 1, ProductID: 400, CourseID: 10, RoleID: 5, Enabled: true},
		{ID: 2, ProductID: 500, VariantID: uintPtr(5), CourseID: 20, RoleID: 5, Enabled: true},
		{ID: 3, ProductID: 500, VariantID: uintPtr(7), CourseID: 30, RoleID: 5, Enabled: true},
	}

	candidates := ComputeEntitlements(order, links)
	require.Len(t, candidates, 2)

	assert.Equal(t, uint(1), candidates[0].LinkID)
	assert.Equal(t, uint(1), candidates[0].OrderLineID)
	assert.Equal(t, uint(2), candidates[1].LinkID)
	assert.Equal(t, uint(2), candidates[1].OrderLineID)

	for _, candidate := range candidates {
		assert.Equal(t, order.ID, candidate.OrderID)
		assert.Equal(t, order.CustomerID, candidate.CustomerID)
		assert.Equal(t, models.EnrolmentStatusInit, candidate.Status)
		require.NotNil(t, candidate.Link)
		assert.Equal(t, candidate.LinkID, candidate.Link.ID)
	}
}

func TestComputeEntitlementsAdditiveMatches(t *testing.T) {
	// Two links on the same product entitle to two courses; matches are never
	// deduplicated or made exclusive.
	order := &models.Order{
		ID:         77,
		CustomerID: 42,
		Lines:      []models.OrderLine{{ID: 1, ProductID: 400, VariantID: uintPtr(7)}},
	}
	links := []models.Link{
		{ID: 1, ProductID: 400, CourseID: 10, RoleID: 5, Enabled: true},
		{ID: 2, ProductID: 400, VariantID: uintPtr(7), CourseID: 20, RoleID: 5, Enabled: true},
	}

	candidates := ComputeEntitlements(order, links)
	require.Len(t, candidates, 2)
	assert.Equal(t, uint(10), candidates[0].Link.CourseID)
	assert.Equal(t, uint(20), candidates[1].Link.CourseID)
}

func TestComputeEntitlementsSkipsDisabledAndUnmatched(t *testing.T) {
	order := &models.Order{
		ID:    77,
		Lines: []models.OrderLine{{ID: 1, ProductID: 400}},
	}
	links := []models.Link{
		{ID: 1, ProductID: 400, CourseID: 10, RoleID: 5, Enabled: false},
		{ID: 2, ProductID: 999, CourseID: 20, RoleID: 5, Enabled: true},
	}

	assert.Empty(t, ComputeEntitlements(order, links))
}
