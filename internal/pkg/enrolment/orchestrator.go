package enrolment

import (
	"context"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"github.com/jcid-dev/MoodleLink/app/models"
	"github.com/jcid-dev/MoodleLink/app/repository"
	"github.com/jcid-dev/MoodleLink/internal/pkg/moodle"
)

const noteCannotCreateUser = "Cannot create Moodle user"
const noteNewUser = "New user. "

// Orchestrator drives one enrolment run for an order: idempotency guard,
// Moodle user resolution, one enrol call per candidate, and an audit row per
// attempt. Dependencies are injected at startup; there is no package state.
type Orchestrator struct {
	links      repository.LinkRepository
	enrolments repository.EnrolmentRepository
	moodle     moodle.Client
}

// NewOrchestrator creates an orchestrator from its collaborators.
func NewOrchestrator(links repository.LinkRepository, enrolments repository.EnrolmentRepository, client moodle.Client) *Orchestrator {
	return &Orchestrator{
		links:      links,
		enrolments: enrolments,
		moodle:     client,
	}
}

// PerformEnrolments attempts every enrolment the order entitles to.
//
// It returns the candidates that completed successfully and a fatal flag that
// separates "nothing entitled" (empty, false) from "entitled but blocked
// before any enrol call" (empty, true). Storage failures abort the run and
// propagate as error.
//
// Automatic mode runs at most once per order: as soon as any auto-mode row
// exists, later automatic triggers are no-ops. Manual mode may always be
// re-run; every run appends fresh audit rows. The guard is check-then-act
// without cross-process locking — callers that can receive concurrent
// triggers for one order must serialize around this method.
func (o *Orchestrator) PerformEnrolments(ctx context.Context, order *models.Order, mode string) ([]*models.Enrolment, bool, error) {
	runID := uuid.NewString()

	if mode == models.ModeAuto {
		prior, err := o.enrolments.GetByOrder(order.ID, true)
		if err != nil {
			return nil, false, err
		}
		if len(prior) > 0 {
			log.Debugf("run %s: order %d already has %d automatic enrolments, skipping", runID, order.ID, len(prior))
			return nil, false, nil
		}
	}

	// Always resolve against the current registry; links toggled between
	// trigger and execution are honored.
	links, err := o.links.GetEnabled()
	if err != nil {
		return nil, false, err
	}

	candidates := ComputeEntitlements(order, links)
	if len(candidates) == 0 {
		return nil, false, nil
	}

	userID, isNew, err := o.moodle.GetOrCreateUser(ctx, order.Customer.Email, order.Customer.FirstName, order.Customer.LastName)
	if err != nil {
		log.Errorf("run %s: order %d: user resolution failed: %v", runID, order.ID, err)
		for _, candidate := range candidates {
			candidate.Mode = mode
			// Candidates leave the resolver in init, so the transition
			// cannot be refused.
			_ = candidate.MarkErr()
			candidate.Notes = noteCannotCreateUser
			if err := o.enrolments.Create(candidate); err != nil {
				return nil, true, err
			}
		}
		return nil, true, nil
	}

	var completed []*models.Enrolment
	for _, candidate := range candidates {
		candidate.MoodleUserID = &userID
		candidate.Mode = mode
		if isNew {
			candidate.AppendNote(noteNewUser)
		}

		msg, enrolErr := o.moodle.Enrol(ctx, userID, candidate.Link.CourseID, candidate.Link.RoleID, candidate.Link.DurationDays)
		if msg != "" {
			candidate.AppendNote(msg)
		}
		if enrolErr != nil {
			// Record and move on; one failed course must not block the rest.
			candidate.AppendNote(enrolErr.Error())
			_ = candidate.MarkErr()
			log.Warnf("run %s: order %d: enrol into course %d failed: %v", runID, order.ID, candidate.Link.CourseID, enrolErr)
		} else {
			_ = candidate.MarkOK()
		}

		if err := o.enrolments.Create(candidate); err != nil {
			return completed, false, err
		}

		if candidate.Status == models.EnrolmentStatusOK {
			completed = append(completed, candidate)
		}
	}

	log.Infof("run %s: order %d: %d of %d enrolments completed (%s)", runID, order.ID, len(completed), len(candidates), mode)
	return completed, false, nil
}
