// Package apperrors defines the typed business failures surfaced by the
// storefront core. Every failure carries an HTTP status and a stable
// machine-readable code so handlers can map errors without string
// matching.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"error"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match against the sentinel of the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

func New(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

var (
	ErrEmptyCart = New(http.StatusConflict, "empty_cart",
		"cart is empty")
	ErrOrderNumberConflict = New(http.StatusServiceUnavailable, "order_number_conflict",
		"could not allocate a unique order number, try again")
	ErrNotFound = New(http.StatusNotFound, "not_found",
		"resource not found")
	ErrValidation = New(http.StatusBadRequest, "validation_failed",
		"invalid input")
	ErrInsufficientStock = New(http.StatusConflict, "insufficient_stock",
		"insufficient stock")
)

// Validation returns a validation failure with a specific message.
func Validation(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: ErrValidation.Code, Message: message}
}

// NotFound returns a not-found failure naming the missing resource.
func NotFound(resource string) *Error {
	return &Error{Status: http.StatusNotFound, Code: ErrNotFound.Code, Message: resource + " not found"}
}

// InsufficientStock names the products that could not cover the
// requested quantities.
func InsufficientStock(products []string) *Error {
	return &Error{
		Status:  http.StatusConflict,
		Code:    ErrInsufficientStock.Code,
		Message: "insufficient stock for: " + strings.Join(products, ", "),
	}
}

// Respond writes err as a JSON response. Unknown errors become opaque
// 500s so internals never leak to callers.
func Respond(c *gin.Context, err error) {
	var appErr *Error
	if errors.As(err, &appErr) {
		c.JSON(appErr.Status, appErr)
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
