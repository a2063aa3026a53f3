package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/classroom-api/pkg/errors"
	"github.com/noah-isme/classroom-api/pkg/oid"
	"github.com/noah-isme/classroom-api/pkg/response"
)

// decodeStrict decodes the request body into dest rejecting unknown
// fields, so misspelled payload keys surface as 400s instead of being
// silently dropped.
func decodeStrict(c *gin.Context, dest interface{}) error {
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dest); err != nil {
		message := "invalid request body"
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.As(err, &typeErr):
			message = fmt.Sprintf("invalid value for field %s", typeErr.Field)
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			message = "unknown field " + strings.TrimPrefix(err.Error(), "json: unknown field ")
		}
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
	}
	return nil
}

// requireID validates the :id path parameter as a 24-hex identifier.
// On failure it writes the error response and reports false.
func requireID(c *gin.Context, message string) (string, bool) {
	id := c.Param("id")
	if !oid.IsValid(id) {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, message))
		return "", false
	}
	return id, true
}

// queryBool parses an optional boolean query parameter. A missing
// parameter yields nil; a malformed one writes the error response and
// reports false.
func queryBool(c *gin.Context, name string) (*bool, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s must be a boolean", name)))
		return nil, false
	}
	return &value, true
}
