package evaluation_service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"
	"github.com/tcp_snm/arena/internal/arena_errors"
	"github.com/tcp_snm/arena/internal/database"
	"github.com/tcp_snm/arena/internal/service"
)

func (e *EvaluationService) GetEvaluationRound(
	ctx context.Context,
	roundID uuid.UUID,
) (EvaluationRound, error) {
	dbRound, err := e.DB.GetEvaluationRoundByID(ctx, roundID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return EvaluationRound{}, fmt.Errorf(
				"%w, no round exist with the given id",
				arena_errors.ErrNotFound,
			)
		}
		err = fmt.Errorf(
			"%w, cannot fetch round %v, %w",
			arena_errors.ErrInternal,
			roundID,
			err,
		)
		log.Error(err)
		return EvaluationRound{}, err
	}
	return dbRoundToServiceRound(dbRound)
}

func (e *EvaluationService) GetAllEvaluationRounds(
	ctx context.Context,
	request GetAllRoundsRequest,
) (GetAllRoundsResponse, error) {
	// validate the request
	if err := service.ValidateInput(request); err != nil {
		return GetAllRoundsResponse{}, err
	}

	return listRounds(ctx, e.DB, request)
}

func listRounds(
	ctx context.Context,
	store roundStore,
	request GetAllRoundsRequest,
) (GetAllRoundsResponse, error) {
	offset, err := decodePageToken(request.PageToken)
	if err != nil {
		return GetAllRoundsResponse{}, err
	}

	// fetch one extra row to know whether another page exists
	dbRounds, err := store.ListEvaluationRounds(
		ctx,
		database.ListEvaluationRoundsParams{
			EvaluationID: request.EvaluationID,
			Limit:        request.Limit + 1,
			Offset:       offset,
		},
	)
	if err != nil {
		err = fmt.Errorf(
			"%w, cannot list rounds of evaluation %v, %w",
			arena_errors.ErrInternal,
			request.EvaluationID,
			err,
		)
		log.WithField("request", request).Error(err)
		return GetAllRoundsResponse{}, err
	}

	hasMore := int64(len(dbRounds)) > request.Limit
	if hasMore {
		dbRounds = dbRounds[:request.Limit]
	}

	rounds := make([]EvaluationRound, 0, len(dbRounds))
	for _, dbRound := range dbRounds {
		round, err := dbRoundToServiceRound(dbRound)
		if err != nil {
			return GetAllRoundsResponse{}, err
		}
		rounds = append(rounds, round)
	}

	response := GetAllRoundsResponse{Rounds: rounds}
	if hasMore {
		response.NextPageToken = encodePageToken(offset + request.Limit)
	}
	return response, nil
}

// the page token is an opaque encoding of the next offset
func encodePageToken(offset int64) string {
	return base64.URLEncoding.EncodeToString([]byte(strconv.FormatInt(offset, 10)))
}

func decodePageToken(token string) (int64, error) {
	if token == "" {
		return 0, nil
	}
	raw, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return 0, fmt.Errorf("%w, malformed page token", arena_errors.ErrInvalidRequest)
	}
	offset, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil || offset < 0 {
		return 0, fmt.Errorf("%w, malformed page token", arena_errors.ErrInvalidRequest)
	}
	return offset, nil
}
