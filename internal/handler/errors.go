package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/notekeep/backend/internal/model"
	"github.com/notekeep/backend/internal/service"
)

const (
	msgUnauthenticated    = "Unauthenticated."
	msgForbidden          = "This action is unauthorized."
	msgInvalidCredentials = "The provided credentials are incorrect."
	msgEmailTaken         = "The email has already been taken."
	msgNotFound           = "Not found."
	msgServerError        = "server error"
	msgMalformedJSONBody  = "The request body must be valid JSON."
	msgMalformedPage      = "The page and per_page fields must be integers."
	msgLoggedOut          = "Logged out successfully"
	msgTokenValid         = "Token is valid"
	msgNoteDeleted        = "Note deleted successfully"
)

// writeError maps service errors onto status codes. Unknown errors are
// logged and reported as a bare 500.
func writeError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		writeValidation(c, verr.Fields)
	case errors.Is(err, service.ErrEmailTaken):
		writeValidation(c, map[string][]string{"email": {msgEmailTaken}})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnprocessableEntity, model.ErrorResponse{Message: msgInvalidCredentials})
	case errors.Is(err, service.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, model.ErrorResponse{Message: msgUnauthenticated})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, model.ErrorResponse{Message: msgNotFound})
	default:
		log.Printf("[HTTP] %s %s failed (request_id=%s): %v", c.Request.Method, c.FullPath(), c.GetString(requestIDKey), err)
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Message: msgServerError})
	}
}

func writeValidation(c *gin.Context, fields map[string][]string) {
	c.JSON(http.StatusUnprocessableEntity, model.ValidationErrorResponse{
		Message: summarize(fields),
		Errors:  fields,
	})
}

// writeBindError reports a failed ShouldBind* call as 422 with per-field messages.
func writeBindError(c *gin.Context, err error) {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		writeValidation(c, map[string][]string{"body": {msgMalformedJSONBody}})
		return
	}

	fields := map[string][]string{}
	for _, fe := range ves {
		name := snakeCase(fe.Field())
		if fe.Tag() == "eqfield" {
			target := snakeCase(fe.Param())
			fields[target] = append(fields[target], fmt.Sprintf("The %s field confirmation does not match.", target))
			continue
		}
		fields[name] = append(fields[name], fieldMessage(name, fe))
	}
	writeValidation(c, fields)
}

// writeQueryError reports unparsable page parameters.
func writeQueryError(c *gin.Context) {
	writeValidation(c, map[string][]string{"page": {msgMalformedPage}})
}

func fieldMessage(name string, fe validator.FieldError) string {
	label := strings.ReplaceAll(name, "_", " ")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", label)
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", label)
	case "min":
		return fmt.Sprintf("The %s field must be at least %s characters.", label, fe.Param())
	case "max":
		return fmt.Sprintf("The %s field must not be greater than %s characters.", label, fe.Param())
	default:
		return fmt.Sprintf("The %s field is invalid.", label)
	}
}

// summarize picks a deterministic headline message for a field map.
func summarize(fields map[string][]string) string {
	var (
		first string
		count int
	)
	for _, key := range sortedKeys(fields) {
		for _, msg := range fields[key] {
			if first == "" {
				first = msg
			}
			count++
		}
	}
	if first == "" {
		return "The given data was invalid."
	}
	if count > 1 {
		suffix := "error"
		if count > 2 {
			suffix = "errors"
		}
		return fmt.Sprintf("%s (and %d more %s)", first, count-1, suffix)
	}
	return first
}

func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
