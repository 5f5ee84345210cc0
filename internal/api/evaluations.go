package api

import (
	"net/http"

	"github.com/google/uuid"
)

func (a *Api) HandlerGetEvaluationById(w http.ResponseWriter, r *http.Request) {
	idStr := r.URL.Query().Get("evaluation_id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		http.Error(w, "invalid evaluation_id provided", http.StatusBadRequest)
		return
	}

	evaluation, err := a.EvaluationServiceConfig.GetEvaluationByID(r.Context(), id)
	if err != nil {
		handlerError(err, w)
		return
	}

	marshalAndRespond(w, http.StatusOK, evaluation)
}

func (a *Api) HandlerMigrateSubmissionQuota(w http.ResponseWriter, r *http.Request) {
	// get the evaluation from body
	type params struct {
		EvaluationID uuid.UUID `json:"evaluation_id"`
	}
	var request params
	if err := decodeJsonBody(r.Body, &request); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rounds, err := a.EvaluationServiceConfig.MigrateSubmissionQuota(
		r.Context(),
		request.EvaluationID,
	)
	if err != nil {
		handlerError(err, w)
		return
	}

	marshalAndRespond(w, http.StatusOK, rounds)
}
