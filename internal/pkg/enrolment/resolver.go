package enrolment

import (
	"github.com/jcid-dev/MoodleLink/app/models"
)

// ComputeEntitlements matches every order line against every link and returns
// one unsaved candidate enrolment per matching pair. Two links matching the
// same line produce two candidates: enrolments are additive, never exclusive.
// Pure function — no persistence, no remote calls.
func ComputeEntitlements(order *models.Order, links []models.Link) []*models.Enrolment {
	var candidates []*models.Enrolment

	for _, line := range order.Lines {
		for i := range links {
			link := &links[i]
			if !link.Matches(line) {
				continue
			}

			candidates = append(candidates, &models.Enrolment{
				LinkID:      link.ID,
				Link:        link,
				OrderID:     order.ID,
				OrderLineID: line.ID,
				CustomerID:  order.CustomerID,
				Status:      models.EnrolmentStatusInit,
			})
		}
	}

	return candidates
}
