package http

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"unilib-backend/internal/domain"
)

// validate is the shared request-DTO validator.
var validate = validator.New()

func validateBody(dst interface{}) error {
	if err := validate.Struct(dst); err != nil {
		return domain.BadRequestError(err.Error())
	}
	return nil
}

// pathID parses the {id} path variable.
func pathID(r *http.Request) (int32, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, domain.BadRequestError("invalid id in path")
	}
	return int32(id), nil
}

// queryInt32 parses an optional integer query parameter, returning def when
// absent or malformed.
func queryInt32(r *http.Request, name string, def int32) int32 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return def
	}
	return int32(v)
}
