package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mrlokans/doclabel/internal/auth"
)

// GetUserID returns the ID of the user behind the request, or
// auth.DefaultUserID when nobody is signed in.
func GetUserID(c *gin.Context) uint {
	return auth.GetUserID(c)
}

// ErrorResponse is the JSON body of every failed API call.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorResponse{Error: message, Code: code})
}

func respondBadRequest(c *gin.Context, message string) {
	respondError(c, http.StatusBadRequest, "", message)
}

// respondNotFound names the missing resource: "project not found".
func respondNotFound(c *gin.Context, resource string) {
	respondError(c, http.StatusNotFound, "", resource+" not found")
}

func respondForbidden(c *gin.Context) {
	respondError(c, http.StatusForbidden, "", auth.ErrForbidden.Error())
}

// respondInternalError logs err under what and answers with a generic 500.
func respondInternalError(c *gin.Context, err error, what string) {
	log.Printf("[HTTP] Internal error (%s): %v", what, err)
	respondError(c, http.StatusInternalServerError, "", "internal server error")
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// parseUintParam reads a 32-bit unsigned ID from the route parameter name.
func parseUintParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// parseIDParam is parseUintParam for API handlers: on failure it has already
// answered 400 and the handler should return.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := parseUintParam(c, name)
	if err != nil {
		respondBadRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
