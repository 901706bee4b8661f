package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"
)

var (
	ErrUnauthorized     = errors.New("missing or invalid game token")
	ErrParamsNotAllowed = errors.New("game params are not allowed on this server")
	ErrNotFound         = errors.New("game session not found")
)

// SendJSON marshals v before touching w, so a value that cannot be encoded
// leaves the response untouched.
func SendJSON(w http.ResponseWriter, statusCode int, v any) (int, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return 0, err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return w.Write(payload)
}

func sendJSONOrLog(w http.ResponseWriter, logger logrus.FieldLogger, v any) {
	sendJSONStatusOrLog(w, logger, http.StatusOK, v)
}

func sendJSONStatusOrLog(
	w http.ResponseWriter,
	logger logrus.FieldLogger,
	statusCode int,
	v any,
) {
	if _, err := SendJSON(w, statusCode, v); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		logger.WithError(err).WithField("response", v).Error("unable to send response")
	}
}

func sendErrorOrLog(
	w http.ResponseWriter,
	logger logrus.FieldLogger,
	statusCode int,
	e error,
) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(wrapError(e)); err != nil {
		logger.WithError(err).WithField("sent_error", e).Error("failed to send error message")
	}
}

func wrapError(err error) map[string]string {
	return map[string]string{
		"error": err.Error(),
	}
}
