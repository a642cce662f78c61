package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/cozyscoaches/ops-board/internal/domain"
	"github.com/cozyscoaches/ops-board/internal/repo"
)

// QuickUpdateInput carries the raw fields of the quick-update form.
// DelayMinutesRaw stays a string here because "" (no delay) and an
// unparseable value need different outcomes, and only the service decides.
type QuickUpdateInput struct {
	Status          string
	DelayMinutesRaw string
	Reason          string
}

// JourneyService implements the journey quick-update state machine.
// The three statuses form a flat machine — any status may follow any other;
// the invariants constrain the fields, not the transitions. There is no
// version check: last writer wins, an accepted trade-off for this
// low-contention internal tool.
type JourneyService struct {
	tx    TxRunner
	authz OpsAuthorizer
}

// NewJourneyService constructs a JourneyService.
func NewJourneyService(tx TxRunner, authz OpsAuthorizer) *JourneyService {
	return &JourneyService{tx: tx, authz: authz}
}

// QuickUpdate applies a status change to one journey and appends the
// journey_updated audit entry with the old and new (status, delay, reason)
// triples, all in one transaction.
//
// Field rules, enforced before anything is written:
//   - delayed requires delay minutes and a reason;
//   - cancelled requires a reason and forbids delay minutes;
//   - on_time force-clears both, overriding whatever was submitted.
//
// An unparseable delay fails with domain.ErrInvalidInput, rule violations
// with domain.ErrValidation (all broken rules in one message); either way
// the journey is left exactly as it was and no audit entry is written.
func (s *JourneyService) QuickUpdate(ctx context.Context, user *domain.User, journeyID uuid.UUID, in QuickUpdateInput) (domain.BoardJourney, error) {
	if err := s.authz.CanManageOps(ctx, user); err != nil {
		return domain.BoardJourney{}, err
	}

	status := domain.JourneyStatus(strings.TrimSpace(in.Status))
	if status == "" {
		status = domain.StatusOnTime
	}
	if !status.Valid() {
		return domain.BoardJourney{}, fmt.Errorf("service.JourneyService.QuickUpdate: %w: unknown status %q", domain.ErrValidation, in.Status)
	}

	delay, err := parseDelayMinutes(in.DelayMinutesRaw)
	if err != nil {
		return domain.BoardJourney{}, fmt.Errorf("service.JourneyService.QuickUpdate: %w", err)
	}

	reason := strings.TrimSpace(in.Reason)
	userID := user.ID

	var result domain.BoardJourney
	err = s.tx.InTx(ctx, func(r repo.Repos) error {
		current, err := r.Journeys.GetByID(ctx, journeyID)
		if err != nil {
			return err
		}

		oldStatus := current.Status
		oldDelay := current.DelayMinutes
		oldReason := current.Reason

		next := current.Journey
		next.Status = status
		next.DelayMinutes = delay
		next.Reason = reason
		next.UpdatedBy = &userID
		if next.Status == domain.StatusOnTime {
			// On-time wipes both fields no matter what was submitted.
			next.DelayMinutes = nil
			next.Reason = ""
		}

		if err := validateJourney(next); err != nil {
			return err
		}

		updated, err := r.Journeys.Update(ctx, next)
		if err != nil {
			return err
		}

		jID := updated.ID
		_, err = r.Changes.Append(ctx, domain.ChangeEntry{
			Action:          domain.ActionJourneyUpdated,
			RouteID:         updated.RouteID,
			JourneyID:       &jID,
			ChangedBy:       &userID,
			Note:            "Status updated in manager panel.",
			OldStatus:       oldStatus,
			OldDelayMinutes: oldDelay,
			OldReason:       oldReason,
			NewStatus:       updated.Status,
			NewDelayMinutes: updated.DelayMinutes,
			NewReason:       updated.Reason,
		})
		if err != nil {
			return err
		}

		result = domain.BoardJourney{Journey: updated, Route: current.Route}
		return nil
	})
	if err != nil {
		return domain.BoardJourney{}, fmt.Errorf("service.JourneyService.QuickUpdate: %w", err)
	}
	return result, nil
}

// parseDelayMinutes turns the raw form value into an optional minute count.
// Empty means "no delay recorded"; anything else must be an integer.
func parseDelayMinutes(raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: delay minutes must be a number", domain.ErrInvalidInput)
	}
	return &n, nil
}

// validateJourney enforces the per-status field rules. All violated rules
// are reported in a single error so the manager can fix the form in one go.
func validateJourney(j domain.Journey) error {
	var msgs []string

	switch j.Status {
	case domain.StatusDelayed:
		if j.DelayMinutes == nil {
			msgs = append(msgs, "delay minutes are required when status is delayed")
		}
		if strings.TrimSpace(j.Reason) == "" {
			msgs = append(msgs, "a reason is required when status is delayed")
		}
	case domain.StatusCancelled:
		if strings.TrimSpace(j.Reason) == "" {
			msgs = append(msgs, "a reason is required when status is cancelled")
		}
		if j.DelayMinutes != nil {
			msgs = append(msgs, "delay minutes must be empty when status is cancelled")
		}
	}
	if j.DelayMinutes != nil && *j.DelayMinutes < 0 {
		msgs = append(msgs, "delay minutes must not be negative")
	}

	if len(msgs) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(msgs, "; "))
	}
	return nil
}
