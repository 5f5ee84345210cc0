package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

func (a *Api) HandlerGetTeamSubmissionEligibility(w http.ResponseWriter, r *http.Request) {
	evaluationID, err := uuid.Parse(r.URL.Query().Get("evaluation_id"))
	if err != nil {
		http.Error(w, "invalid evaluation_id provided", http.StatusBadRequest)
		return
	}
	teamID, err := uuid.Parse(r.URL.Query().Get("team_id"))
	if err != nil {
		http.Error(w, "invalid team_id provided", http.StatusBadRequest)
		return
	}

	response, err := a.EligibilityServiceConfig.GetTeamSubmissionEligibility(
		r.Context(),
		evaluationID,
		teamID,
		time.Now().UTC(),
	)
	if err != nil {
		handlerError(err, w)
		return
	}

	marshalAndRespond(w, http.StatusOK, response)
}
