package enrolment

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2/log"

	"github.com/jcid-dev/MoodleLink/app/models"
	"github.com/jcid-dev/MoodleLink/internal/pkg/mail"
	"github.com/jcid-dev/MoodleLink/internal/pkg/moodle"
)

// Notifier emails the customer after completed enrolments. Notification
// failures are logged and never influence the enrolment result.
type Notifier struct {
	moodle moodle.Client
	send   func(to, subject, body string) error
}

// NewNotifier creates a notifier using the SMTP mailer.
func NewNotifier(client moodle.Client) *Notifier {
	return &Notifier{
		moodle: client,
		send:   mail.SendMail,
	}
}

// NotifyCompleted sends the "you have been enrolled" email. Callers check the
// notification setting; this only skips when nothing completed.
func (n *Notifier) NotifyCompleted(ctx context.Context, order *models.Order, completed []*models.Enrolment) {
	if len(completed) == 0 {
		return
	}

	siteName, err := n.moodle.TestConnection(ctx)
	if err != nil {
		log.Warnf("notification for order %d: cannot resolve site name: %v", order.ID, err)
		siteName = "Moodle"
	}

	var courses strings.Builder
	courses.WriteString("<ol>")
	for _, enrolment := range completed {
		name, err := n.moodle.GetCourseName(ctx, enrolment.Link.CourseID)
		if err != nil || name == "" {
			name = fmt.Sprintf("course %d", enrolment.Link.CourseID)
		}
		courses.WriteString("<li>" + name + "</li>")
	}
	courses.WriteString("</ol>")

	body := fmt.Sprintf(
		"<p>Hello %s %s,</p>"+
			"<p>Your order %s entitles you to the following courses on %s:</p>"+
			"%s"+
			"<p>You can log in with your shop e-mail address.</p>",
		order.Customer.FirstName, order.Customer.LastName,
		order.Reference, siteName, courses.String(),
	)

	if err := n.send(order.Customer.Email, "You have been enrolled!", body); err != nil {
		log.Warnf("notification for order %d failed: %v", order.ID, err)
	}
}
