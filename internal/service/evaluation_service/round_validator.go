package evaluation_service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/tcp_snm/arena/internal/arena_errors"
	"github.com/tcp_snm/arena/internal/database"
)

// validateRoundLimits fails if any tier appears more than once or any
// maximum is non-positive.
func validateRoundLimits(limits []EvaluationRoundLimit) error {
	seen := make(map[database.EvaluationRoundLimitType]bool, len(limits))
	for _, limit := range limits {
		if seen[limit.LimitType] {
			return fmt.Errorf(
				"%w, duplicate %s limit, at most one limit per tier is allowed",
				arena_errors.ErrInvalidRequest,
				limit.LimitType,
			)
		}
		seen[limit.LimitType] = true
		if limit.MaximumSubmissions <= 0 {
			return fmt.Errorf(
				"%w, %s limit must have maximum_submissions greater than zero",
				arena_errors.ErrInvalidRequest,
				limit.LimitType,
			)
		}
	}
	return nil
}

// validateRoundInterval checks the proposed interval against the server
// clock. existing is nil on create. hasSubmissions reports whether any
// submission already references the round being updated.
func validateRoundInterval(
	round EvaluationRound,
	existing *EvaluationRound,
	hasSubmissions bool,
	now time.Time,
) error {
	if !round.RoundEnd.After(round.RoundStart) {
		return fmt.Errorf(
			"%w, round end must be after round start",
			arena_errors.ErrInvalidRequest,
		)
	}

	if existing == nil {
		if round.RoundStart.Before(now) {
			return fmt.Errorf(
				"%w, start date is in the past",
				arena_errors.ErrInvalidRequest,
			)
		}
		if round.RoundEnd.Before(now) {
			return fmt.Errorf(
				"%w, end date is in the past",
				arena_errors.ErrInvalidRequest,
			)
		}
		return nil
	}

	endChanged := !round.RoundEnd.Equal(existing.RoundEnd)
	if endChanged && round.RoundEnd.Before(now) {
		return fmt.Errorf(
			"%w, end date cannot be moved into the past",
			arena_errors.ErrInvalidRequest,
		)
	}

	startChanged := !round.RoundStart.Equal(existing.RoundStart)
	if startChanged && hasSubmissions {
		return fmt.Errorf(
			"%w, start date cannot change once submissions exist for the round",
			arena_errors.ErrInvalidRequest,
		)
	}

	return nil
}

// validateNoOverlap queries sibling rounds whose intervals intersect the
// proposal, excluding the round being updated. The caller must hold the
// evaluation row lock so the check stays valid until the write commits.
func validateNoOverlap(
	ctx context.Context,
	store roundStore,
	round EvaluationRound,
	excludeRoundID uuid.UUID,
) error {
	overlapping, err := store.OverlappingEvaluationRounds(
		ctx,
		database.OverlappingEvaluationRoundsParams{
			EvaluationID: round.EvaluationID,
			RoundStart:   round.RoundStart,
			RoundEnd:     round.RoundEnd,
			ExcludeID:    excludeRoundID,
		},
	)
	if err != nil {
		err = fmt.Errorf(
			"%w, cannot check overlapping rounds of evaluation %v, %w",
			arena_errors.ErrInternal,
			round.EvaluationID,
			err,
		)
		log.Error(err)
		return err
	}
	if len(overlapping) > 0 {
		return fmt.Errorf(
			"%w, round interval overlaps with existing rounds %v",
			arena_errors.ErrInvalidRequest,
			overlapping,
		)
	}
	return nil
}

func validateDeletable(
	ctx context.Context,
	store roundStore,
	roundID uuid.UUID,
) error {
	hasSubmissions, err := store.HasSubmissionForEvaluationRound(ctx, roundID)
	if err != nil {
		err = fmt.Errorf(
			"%w, cannot check submissions of round %v, %w",
			arena_errors.ErrInternal,
			roundID,
			err,
		)
		log.Error(err)
		return err
	}
	if hasSubmissions {
		return fmt.Errorf(
			"%w, cannot delete a round that submissions already reference",
			arena_errors.ErrInvalidRequest,
		)
	}
	return nil
}
