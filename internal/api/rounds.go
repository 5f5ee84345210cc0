package api

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/tcp_snm/arena/internal/service/evaluation_service"
)

func (a *Api) HandlerCreateEvaluationRound(w http.ResponseWriter, r *http.Request) {
	var round evaluation_service.EvaluationRound
	if err := decodeJsonBody(r.Body, &round); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := a.EvaluationServiceConfig.CreateEvaluationRound(r.Context(), round)
	if err != nil {
		handlerError(err, w)
		return
	}

	marshalAndRespond(w, http.StatusCreated, created)
}

func (a *Api) HandlerUpdateEvaluationRound(w http.ResponseWriter, r *http.Request) {
	var round evaluation_service.EvaluationRound
	if err := decodeJsonBody(r.Body, &round); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := a.EvaluationServiceConfig.UpdateEvaluationRound(r.Context(), round)
	if err != nil {
		handlerError(err, w)
		return
	}

	marshalAndRespond(w, http.StatusOK, updated)
}

func (a *Api) HandlerDeleteEvaluationRound(w http.ResponseWriter, r *http.Request) {
	idStr := r.URL.Query().Get("round_id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		http.Error(w, "invalid round_id provided", http.StatusBadRequest)
		return
	}

	if err := a.EvaluationServiceConfig.DeleteEvaluationRound(r.Context(), id); err != nil {
		handlerError(err, w)
		return
	}

	respondWithJson(w, http.StatusOK, []byte(`{"message":"round deleted successfully"}`))
}

func (a *Api) HandlerGetEvaluationRound(w http.ResponseWriter, r *http.Request) {
	idStr := r.URL.Query().Get("round_id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		http.Error(w, "invalid round_id provided", http.StatusBadRequest)
		return
	}

	round, err := a.EvaluationServiceConfig.GetEvaluationRound(r.Context(), id)
	if err != nil {
		handlerError(err, w)
		return
	}

	marshalAndRespond(w, http.StatusOK, round)
}

func (a *Api) HandlerGetAllEvaluationRounds(w http.ResponseWriter, r *http.Request) {
	evaluationID, err := uuid.Parse(r.URL.Query().Get("evaluation_id"))
	if err != nil {
		http.Error(w, "invalid evaluation_id provided", http.StatusBadRequest)
		return
	}

	limit := int64(20)
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err = strconv.ParseInt(limitStr, 10, 64)
		if err != nil {
			http.Error(w, "invalid limit provided", http.StatusBadRequest)
			return
		}
	}

	response, err := a.EvaluationServiceConfig.GetAllEvaluationRounds(
		r.Context(),
		evaluation_service.GetAllRoundsRequest{
			EvaluationID: evaluationID,
			Limit:        limit,
			PageToken:    r.URL.Query().Get("page_token"),
		},
	)
	if err != nil {
		handlerError(err, w)
		return
	}

	marshalAndRespond(w, http.StatusOK, response)
}
