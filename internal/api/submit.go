package api

import (
	"fmt"
	"net/http"

	"github.com/tcp_snm/arena/internal/service/submission_service"
)

func (a *Api) HandlerSubmit(w http.ResponseWriter, r *http.Request) {
	var request submission_service.SubmissionRequest

	if err := decodeJsonBody(r.Body, &request); err != nil {
		msg := fmt.Sprintf("invalid request payload, %s", err.Error())
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	response, err := a.SubmissionServiceConfig.Submit(r.Context(), request)
	if err != nil {
		handlerError(err, w)
		return
	}

	marshalAndRespond(w, http.StatusCreated, response)
}

func (a *Api) HandlerUpdateSubmissionStatusBatch(w http.ResponseWriter, r *http.Request) {
	var request submission_service.SubmissionStatusBatchRequest

	if err := decodeJsonBody(r.Body, &request); err != nil {
		msg := fmt.Sprintf("invalid request payload, %s", err.Error())
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	response, err := a.SubmissionServiceConfig.UpdateSubmissionStatusBatch(r.Context(), request)
	if err != nil {
		handlerError(err, w)
		return
	}

	marshalAndRespond(w, http.StatusOK, response)
}
