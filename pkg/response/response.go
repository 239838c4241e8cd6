package response

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

type SuccessResponse struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Pagination interface{} `json:"pagination,omitempty"`
}

type ErrorResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

// PaginationMeta contains pagination metadata for list endpoints
type PaginationMeta struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	TotalItems  int64 `json:"total_items"`
	PerPage     int   `json:"per_page"`
}

func Success(c echo.Context, code int, message string, data interface{}) error {
	return c.JSON(code, SuccessResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func SuccessPaged(c echo.Context, code int, message string, data interface{}, meta PaginationMeta) error {
	return c.JSON(code, SuccessResponse{
		Success:    true,
		Message:    message,
		Data:       data,
		Pagination: meta,
	})
}

func Error(c echo.Context, code int, message string, errDetails interface{}) error {
	return c.JSON(code, ErrorResponse{
		Success: false,
		Message: message,
		Errors:  errDetails,
	})
}

type APIError struct {
	Code    int
	Message string
	Details interface{}
}

func (e *APIError) Error() string {
	return e.Message
}

func NewError(code int, message string, details interface{}) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

func CustomErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		Error(c, apiErr.Code, apiErr.Message, apiErr.Details)
		return
	}

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		var msg string
		if s, ok := echoErr.Message.(string); ok {
			msg = s
		} else {
			msg = "An error occurred" // Fallback
		}
		Error(c, echoErr.Code, msg, nil)
		return
	}
	c.Logger().Error(err)
	Error(c, http.StatusInternalServerError, "internal_server_error", nil)
}

func InternalServerError(err error) error {
	return &APIError{
		Code:    http.StatusInternalServerError,
		Message: "internal_server_error",
		Details: err,
	}
}
