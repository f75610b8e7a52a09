package api

import (
	"errors"
	"net/http"

	"github.com/castmatch/castmatch-backend/internal/api/respond"
	"github.com/castmatch/castmatch-backend/internal/model"
)

// writeDomainError maps a service failure onto the HTTP error envelope.
// Validation rejections are 400, missing resources 404, hub trouble 502,
// everything else 500.
func writeDomainError(w http.ResponseWriter, err error) {
	message := err.Error()
	var derr *model.Error
	if errors.As(err, &derr) {
		message = derr.Message
	}

	kind := model.KindOf(err)
	switch {
	case model.IsValidation(err):
		respond.WriteKindError(w, http.StatusBadRequest, string(kind), message)
	case kind == model.NotFound:
		respond.WriteKindError(w, http.StatusNotFound, string(kind), message)
	case kind == model.SourceUnavailable:
		respond.WriteKindError(w, http.StatusBadGateway, string(kind), message)
	default:
		respond.WriteInternalError(w, message)
	}
}
