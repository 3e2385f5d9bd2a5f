package handlers

import (
	"encoding/json"
	"net/http"
)

// Error messages shown to portal users
const (
	MsgGoTransitOffline = "Sorry, GO Transit systems are offline at the moment. Please try again later."
	MsgCreateFailed     = "Sorry, unable to create route due to system issues. Please try again."
	MsgDeleteFailed     = "Sorry, unable to delete route due to system issues. Please try again."
)

// Response is the envelope every portal endpoint answers with
type Response struct {
	Content interface{}       `json:"content"`
	Errors  map[string]string `json:"errors"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeContent(w http.ResponseWriter, status int, content interface{}) {
	if content == nil {
		content = struct{}{}
	}
	writeJSON(w, status, Response{Content: content, Errors: map[string]string{}})
}

func writeErrors(w http.ResponseWriter, status int, errs map[string]string) {
	writeJSON(w, status, Response{Content: struct{}{}, Errors: errs})
}

func writeSystemError(w http.ResponseWriter, status int, msg string) {
	writeErrors(w, status, map[string]string{"system": msg})
}
