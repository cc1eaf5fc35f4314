package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"alcyxob/fitgen/internal/apperr"
	"alcyxob/fitgen/internal/llm"
	"alcyxob/fitgen/internal/logger"
	"alcyxob/fitgen/internal/service"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"requestId,omitempty"`
	Details   any    `json:"details,omitempty"`
	Timestamp string `json:"timestamp"`
	// Debug carries the underlying cause in development mode only.
	Debug string `json:"debug,omitempty"`
}

// FieldError describes one failed validation rule.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// abortWithError hands err to ErrorHandler and stops the chain.
func abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// abortWithBindError marks a request decoding or validation failure.
func abortWithBindError(c *gin.Context, err error) {
	_ = c.Error(err).SetType(gin.ErrorTypeBind)
	c.Abort()
}

// ErrorHandler turns the last error recorded on the context into the JSON error payload.
// Every error is logged with the request id before the reply is written.
func ErrorHandler(log *logger.Logger, development bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		last := c.Errors.Last()
		if last == nil {
			return
		}
		ae := classify(last)
		fields := []any{
			"request_id", c.GetString(ContextRequestIDKey),
			"path", c.FullPath(),
			"status", ae.Status,
			"code", ae.Code,
			"error", last.Err,
		}
		if ae.Status >= http.StatusInternalServerError {
			log.Error("request failed", fields...)
		} else {
			log.Warn("request rejected", fields...)
		}

		if c.Writer.Written() {
			return
		}
		writeError(c, ae, development)
	}
}

func writeError(c *gin.Context, ae *apperr.Error, development bool) {
	resp := ErrorResponse{
		Error:     ae.Message,
		Code:      ae.Code,
		RequestID: c.GetString(ContextRequestIDKey),
		Details:   ae.Details,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if development && ae.Err != nil {
		resp.Debug = ae.Err.Error()
	}
	if ae.Status == http.StatusTooManyRequests {
		c.Header("Retry-After", "1")
	}
	c.AbortWithStatusJSON(ae.Status, resp)
}

// classify maps an error to its HTTP classification. Client-class messages are specific;
// server-class messages stay generic.
func classify(ge *gin.Error) *apperr.Error {
	err := ge.Err
	if ge.IsType(gin.ErrorTypeBind) {
		return validationError(err)
	}
	if ae, ok := apperr.As(err); ok {
		return ae
	}

	var genErr *llm.GenerationError
	if errors.As(err, &genErr) {
		if genErr.Kind == llm.KindTimeout {
			return apperr.AITimeout(err)
		}
		return apperr.AIService(err)
	}

	switch {
	case errors.Is(err, service.ErrPlanNotFound), errors.Is(err, service.ErrProfileNotFound):
		return apperr.NotFound(err.Error())
	case errors.Is(err, service.ErrPlanAccessDenied), errors.Is(err, service.ErrProfileAccessDenied):
		return apperr.Forbidden(err.Error())
	case errors.Is(err, service.ErrUserAlreadyExists), errors.Is(err, service.ErrProfileExists):
		return apperr.Conflict(err.Error())
	case errors.Is(err, service.ErrAuthenticationFailed), errors.Is(err, service.ErrInvalidToken):
		return apperr.Unauthorized(err.Error())
	case errors.Is(err, service.ErrFeedbackTooLong),
		errors.Is(err, service.ErrInvalidRating),
		errors.Is(err, service.ErrInvalidExperience),
		errors.Is(err, service.ErrInvalidRegistration):
		return apperr.Validation(err.Error(), nil)
	case errors.Is(err, context.DeadlineExceeded):
		return &apperr.Error{Status: http.StatusRequestTimeout, Code: apperr.CodeAITimeout, Message: "request timed out, please retry", Err: err}
	}
	return apperr.Internal(err)
}

func validationError(err error) *apperr.Error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, FieldError{Field: fe.Field(), Rule: fe.Tag(), Param: fe.Param()})
		}
		return apperr.Validation("request validation failed", details)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return apperr.Validation("request validation failed", []FieldError{{Field: typeErr.Field, Rule: "type", Param: typeErr.Type.String()}})
	}
	if ae, ok := apperr.As(err); ok {
		return ae
	}
	return apperr.Validation("malformed request body", nil)
}
