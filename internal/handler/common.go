// Package handler contains the Echo HTTP handlers for the booking
// administration API.  Handlers bind and validate the request, call into
// the repository layer with a bounded context, and translate repository
// errors into JSON responses.
package handler

import (
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// dbTimeout bounds every repository call made from a handler.
const dbTimeout = 5 * time.Second

// RequestValidator adapts go-playground/validator to Echo's Validator
// interface so handlers can call c.Validate on bound DTOs.
type RequestValidator struct {
	v *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{v: validator.New()}
}

func (rv *RequestValidator) Validate(i interface{}) error {
	return rv.v.Struct(i)
}

// currentUserID returns the authenticated account ID placed in context by
// the JWT middleware, or 0 when the request is unauthenticated.
func currentUserID(c echo.Context) uint64 {
	id, _ := c.Get("user_id").(uint64)
	return id
}

// currentActor returns "staff" or "company", or "" when unauthenticated.
func currentActor(c echo.Context) string {
	actor, _ := c.Get("actor").(string)
	return actor
}

// pathID parses the named path parameter as a positive integer ID.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}
