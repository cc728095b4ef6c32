// Package httpkit provides HTTP response utilities.
// This is part of the platform layer and contains no business logic.
package httpkit

import (
	"net/http"

	"gateway_manager_api/platform/apperr"

	"github.com/gin-gonic/gin"
)

// Problem is the structured error body returned for every failed request.
// It mirrors the problem-detail shape: status code, machine title, human
// detail, the request path, and the per-request correlation identifier.
type Problem struct {
	Status    int    `json:"status"`
	Title     string `json:"title"`
	Detail    string `json:"detail"`
	Instance  string `json:"instance"`
	RequestID string `json:"request_id"`
}

// JSON sends a JSON response with the given status code.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// OK sends a 200 OK response with the given payload.
func OK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends a problem body with the given status, title and detail.
func Error(c *gin.Context, status int, title, detail string) {
	c.JSON(status, Problem{
		Status:    status,
		Title:     title,
		Detail:    detail,
		Instance:  c.Request.URL.Path,
		RequestID: GetRequestID(c),
	})
}

// AbortError sends a problem body and aborts the handler chain.
func AbortError(c *gin.Context, status int, title, detail string) {
	c.AbortWithStatusJSON(status, Problem{
		Status:    status,
		Title:     title,
		Detail:    detail,
		Instance:  c.Request.URL.Path,
		RequestID: GetRequestID(c),
	})
}

// HandleError maps domain errors to HTTP problem responses.
// Typed *apperr.Error values select the status from their Kind and surface
// their title and detail; anything else becomes an opaque 500 so internal
// failure detail never leaks to the client. The error is attached to the gin
// context for the request logger. Returns true if an error was handled.
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	_ = c.Error(err)

	if domainErr, ok := err.(*apperr.Error); ok {
		Error(c, domainErr.HTTPStatus(), domainErr.Title, domainErr.Message)
		return true
	}

	Error(c, http.StatusInternalServerError, "Internal Server Error",
		"An unexpected error occurred. (ref: "+GetRequestID(c)+")")
	return true
}
