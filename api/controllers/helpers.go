package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/riderhub/riderhub-backend/api/middleware"
	"github.com/riderhub/riderhub-backend/api/responses"
	"github.com/riderhub/riderhub-backend/api/validators"
	"github.com/riderhub/riderhub-backend/internal/access"
	pkgerrors "github.com/riderhub/riderhub-backend/pkg/errors"
	"github.com/riderhub/riderhub-backend/pkg/logger"
)

func actorFrom(r *http.Request) access.Actor {
	ctx := r.Context()
	return access.Actor{
		UserID:   middleware.UserIDFromContext(ctx),
		UserType: middleware.UserTypeFromContext(ctx),
	}
}

// pathID reads the {id} route parameter, writing a 400 when it is invalid.
func pathID(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (uint, bool) {
	id, err := validators.ParseIDParam(r, "id")
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return 0, false
	}
	return id, true
}

// queryEnum parses an optional enum filter with the enum's own parser.
func queryEnum[T any](r *http.Request, key string, parse func(string) (T, error)) (*T, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	v, err := parse(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+key).WithDetails(map[string]any{"field": key})
	}
	return &v, nil
}

func queryBool(r *http.Request, key string) (*bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a boolean").WithDetails(map[string]any{"field": key})
	}
	return &v, nil
}

type deletedResponse struct {
	ID      uint `json:"id"`
	Deleted bool `json:"deleted"`
}

// writeDeleted answers a successful delete with the standard envelope.
func writeDeleted(w http.ResponseWriter, id uint) {
	responses.WriteSuccess(w, deletedResponse{ID: id, Deleted: true})
}

func unavailable(w http.ResponseWriter, r *http.Request, logg *logger.Logger, name string) {
	responses.WriteError(r.Context(), logg, w, pkgerrors.Newf(pkgerrors.CodeInternal, "%s service unavailable", name))
}
