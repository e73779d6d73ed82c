package handler

import (
	"net/http"

	"quizbank/internal/httputil"
)

// folderID reads and validates the {id} path parameter, writing a 400 on failure
func folderID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := httputil.PathUUID(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	return id, true
}

// parseBody decodes the JSON body, writing a 400 on failure
func parseBody(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	if err := httputil.ParseJSON(w, r, dest); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}
