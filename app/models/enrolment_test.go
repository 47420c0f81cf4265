package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrolmentStatusTransitions(t *testing.T) {
	e := Enrolment{Status: EnrolmentStatusInit}
	require.NoError(t, e.MarkOK())
	assert.Equal(t, EnrolmentStatusOK, e.Status)

	assert.ErrorIs(t, e.MarkOK(), ErrEnrolmentTerminal)
	assert.ErrorIs(t, e.MarkErr(), ErrEnrolmentTerminal)
	assert.Equal(t, EnrolmentStatusOK, e.Status, "terminal status must not change")

	e = Enrolment{Status: EnrolmentStatusInit}
	require.NoError(t, e.MarkErr())
	assert.Equal(t, EnrolmentStatusErr, e.Status)
	assert.ErrorIs(t, e.MarkOK(), ErrEnrolmentTerminal)
}

func TestEnrolmentAppendNote(t *testing.T) {
	e := Enrolment{}
	e.AppendNote("New user. ")
	e.AppendNote("warning from service")
	assert.Equal(t, "New user. warning from service", e.Notes)
}

func TestEnrolmentValidate(t *testing.T) {
	valid := Enrolment{
		LinkID:      1,
		OrderID:     77,
		OrderLineID: 3,
		CustomerID:  42,
		Mode:        ModeAuto,
		Status:      EnrolmentStatusOK,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Enrolment)
	}{
		{"init status is not persistable", func(e *Enrolment) { e.Status = EnrolmentStatusInit }},
		{"unknown mode", func(e *Enrolment) { e.Mode = "batch" }},
		{"missing link", func(e *Enrolment) { e.LinkID = 0 }},
		{"missing order", func(e *Enrolment) { e.OrderID = 0 }},
		{"missing order line", func(e *Enrolment) { e.OrderLineID = 0 }},
		{"missing customer", func(e *Enrolment) { e.CustomerID = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid
			tt.mutate(&e)
			assert.ErrorIs(t, e.Validate(), ErrEnrolmentInvalid)
		})
	}

	errRow := valid
	errRow.Status = EnrolmentStatusErr
	errRow.Notes = "Cannot create Moodle user"
	assert.NoError(t, errRow.Validate(), "failed attempts are persisted too")
}
