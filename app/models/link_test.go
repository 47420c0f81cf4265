package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uintPtr(v uint) *uint { return &v }

func TestLinkMatches(t *testing.T) {
	tests := []struct {
		name string
		link Link
		line OrderLine
		want bool
	}{
		{
			name: "disabled link never matches",
			link: Link{ProductID: 400, Enabled: false},
			line: OrderLine{ID: 1, ProductID: 400},
			want: false,
		},
		{
			name: "product mismatch",
			link: Link{ProductID: 400, Enabled: true},
			line: OrderLine{ID: 1, ProductID: 401},
			want: false,
		},
		{
			name: "nil variant matches line without variant",
			link: Link{ProductID: 400, Enabled: true},
			line: OrderLine{ID: 1, ProductID: 400},
			want: true,
		},
		{
			name: "nil variant matches any line variant",
			link: Link{ProductID: 400, Enabled: true},
			line: OrderLine{ID: 1, ProductID: 400, VariantID: uintPtr(7)},
			want: true,
		},
		{
			name: "variant equality",
			link: Link{ProductID: 400, VariantID: uintPtr(7), Enabled: true},
			line: OrderLine{ID: 1, ProductID: 400, VariantID: uintPtr(7)},
			want: true,
		},
		{
			name: "variant mismatch",
			link: Link{ProductID: 400, VariantID: uintPtr(7), Enabled: true},
			line: OrderLine{ID: 1, ProductID: 400, VariantID: uintPtr(8)},
			want: false,
		},
		{
			name: "variant-specific link rejects line without variant",
			link: Link{ProductID: 400, VariantID: uintPtr(7), Enabled: true},
			line: OrderLine{ID: 1, ProductID: 400},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.link.Matches(tt.line))
		})
	}
}

func TestLinkValidateNormalizesZeroOptionals(t *testing.T) {
	link := Link{
		ProductID:    400,
		VariantID:    uintPtr(0),
		CourseID:     10,
		RoleID:       5,
		DurationDays: uintPtr(0),
	}

	require.NoError(t, link.Validate())
	assert.Nil(t, link.VariantID, "zero variant must be stored as NULL")
	assert.Nil(t, link.DurationDays, "zero duration must be stored as NULL")
}

func TestLinkValidateRequiredFields(t *testing.T) {
	link := Link{ProductID: 400, CourseID: 10}
	assert.Error(t, link.Validate(), "missing role must fail validation")

	link = Link{CourseID: 10, RoleID: 5}
	assert.Error(t, link.Validate(), "missing product must fail validation")
}

func TestLinkSameNaturalKey(t *testing.T) {
	base := &Link{ProductID: 400, VariantID: uintPtr(7), CourseID: 10, RoleID: 5}

	same := &Link{ProductID: 400, VariantID: uintPtr(7), CourseID: 10, RoleID: 5, DurationDays: uintPtr(90), Enabled: true}
	assert.True(t, base.SameNaturalKey(same), "duration and enabled are not part of the key")

	otherVariant := &Link{ProductID: 400, VariantID: uintPtr(8), CourseID: 10, RoleID: 5}
	assert.False(t, base.SameNaturalKey(otherVariant))

	nilVariant := &Link{ProductID: 400, CourseID: 10, RoleID: 5}
	assert.False(t, base.SameNaturalKey(nilVariant), "nil and set variants are distinct keys")
	assert.False(t, nilVariant.SameNaturalKey(base))

	bothNil := &Link{ProductID: 400, CourseID: 10, RoleID: 5}
	assert.True(t, nilVariant.SameNaturalKey(bothNil))
}
