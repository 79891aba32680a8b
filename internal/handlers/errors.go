package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"gst-invoice-api/internal/gst"
	"gst-invoice-api/internal/middleware"
	"gst-invoice-api/internal/repositories"
	"gst-invoice-api/internal/services"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error            string                       `json:"error"`
	Message          string                       `json:"message"`
	Errors           []string                     `json:"errors,omitempty"`
	ValidationErrors []middleware.ValidationError `json:"validation_errors,omitempty"`
}

// respondError maps a service error to a status code. Document validation
// failures list every message under errors.
func respondError(c *gin.Context, action string, err error) {
	if msgs := services.ValidationErrors(err); msgs != nil {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "Validation failed",
			Message: err.Error(),
			Errors:  msgs,
		})
		return
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:            "Validation failed",
			Message:          err.Error(),
			ValidationErrors: middleware.FormatValidationErrors(fieldErrs),
		})
		return
	}

	status := http.StatusInternalServerError
	title := "Failed to " + action
	switch {
	case repositories.IsNotFound(err):
		status, title = http.StatusNotFound, "Not found"
	case repositories.IsDuplicate(err):
		status, title = http.StatusConflict, "Already exists"
	case repositories.IsConstraint(err):
		status, title = http.StatusConflict, "Conflict"
	case repositories.IsValidation(err), errors.Is(err, repositories.ErrInvalidID), errors.Is(err, gst.ErrInvalidProduct):
		status, title = http.StatusBadRequest, "Invalid request"
	case isValidationError(err):
		status, title = http.StatusBadRequest, "Validation failed"
	}

	if status == http.StatusInternalServerError {
		_ = c.Error(err)
	}

	c.JSON(status, ErrorResponse{
		Error:   title,
		Message: err.Error(),
	})
}

// isValidationError recognizes input errors the services report as plain text
func isValidationError(err error) bool {
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "validation") ||
		strings.Contains(errMsg, "invalid") ||
		strings.Contains(errMsg, "required") ||
		strings.Contains(errMsg, "cannot be empty") ||
		strings.Contains(errMsg, "unknown state code") ||
		strings.Contains(errMsg, "does not match")
}

// bindJSON decodes the request body, writing a 400 response on failure
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return false
	}
	return true
}

// pathID returns the named UUID path parameter, writing a 400 response when
// it is missing or malformed
func pathID(c *gin.Context, name, entity string) (string, bool) {
	id := c.Param(name)
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid " + strings.ToLower(entity) + " ID",
			Message: entity + " ID must be a valid UUID",
		})
		return "", false
	}
	return id, true
}

func queryInt(c *gin.Context, key string, fallback int) int {
	if value := c.Query(key); value != "" {
		if val, err := strconv.Atoi(value); err == nil && val >= 0 {
			return val
		}
	}
	return fallback
}

func queryBool(c *gin.Context, key string) *bool {
	if value := c.Query(key); value != "" {
		if val, err := strconv.ParseBool(value); err == nil {
			return &val
		}
	}
	return nil
}

func queryString(c *gin.Context, key string) *string {
	if value := strings.TrimSpace(c.Query(key)); value != "" {
		return &value
	}
	return nil
}

// queryDate parses start_date or end_date, writing a 400 response on failure
func queryDate(c *gin.Context, key string) (*time.Time, bool) {
	value := c.Query(key)
	if value == "" {
		return nil, true
	}
	t, err := middleware.ParseDate(value)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid " + key,
			Message: "Dates must be YYYY-MM-DD or RFC3339",
		})
		return nil, false
	}
	return &t, true
}

// sendDocument writes a rendered file as an attachment
func sendDocument(c *gin.Context, doc *services.RenderedDocument) {
	name := doc.Key
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	c.Header("Content-Disposition", "attachment; filename="+name)
	c.Data(http.StatusOK, doc.ContentType, doc.Data)
}
