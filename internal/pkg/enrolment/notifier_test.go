package enrolment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcid-dev/MoodleLink/app/models"
)

func TestNotifyCompletedSendsCourseList(t *testing.T) {
	client := &stubMoodleClient{courseNames: map[uint]string{10: "Go Fundamentals"}}

	var gotTo, gotSubject, gotBody string
	n := &Notifier{
		moodle: client,
		send: func(to, subject, body string) error {
			gotTo, gotSubject, gotBody = to, subject, body
			return nil
		},
	}

	completed := []*models.Enrolment{
		{Link: &models.Link{CourseID: 10}},
		{Link: &models.Link{CourseID: 99}},
	}
	n.NotifyCompleted(context.Background(), testOrder(), completed)

	assert.Equal(t, "jane@example.com", gotTo)
	assert.Equal(t, "You have been enrolled!", gotSubject)
	assert.Contains(t, gotBody, "Jane Doe")
	assert.Contains(t, gotBody, "Test Site")
	assert.Contains(t, gotBody, "<li>Go Fundamentals</li>")
	assert.Contains(t, gotBody, "<li>course 99</li>", "unknown courses fall back to their id")
}

func TestNotifyCompletedSkipsWhenNothingCompleted(t *testing.T) {
	n := &Notifier{
		moodle: &stubMoodleClient{},
		send: func(string, string, string) error {
			t.Fatal("no mail must be sent for an empty run")
			return nil
		},
	}
	n.NotifyCompleted(context.Background(), testOrder(), nil)
}

func TestNotifyCompletedSendFailureIsSwallowed(t *testing.T) {
	n := &Notifier{
		moodle: &stubMoodleClient{},
		send: func(string, string, string) error {
			return errors.New("smtp down")
		},
	}

	completed := []*models.Enrolment{{Link: &models.Link{CourseID: 10}}}
	require.NotPanics(t, func() {
		n.NotifyCompleted(context.Background(), testOrder(), completed)
	})
}
