package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"alcyxob/fitgen/internal/apperr"
	"alcyxob/fitgen/internal/logger"
	"alcyxob/fitgen/internal/service"
)

// Constants for context keys
const (
	ContextUserIDKey    = "userID"
	ContextEmailKey     = "userEmail"
	ContextRequestIDKey = "requestID"
)

const headerRequestID = "X-Request-Id"

// RequestID takes the caller's X-Request-Id or mints one, and echoes it back.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := strings.TrimSpace(c.GetHeader(headerRequestID))
		if reqID == "" || len(reqID) > 128 {
			reqID = uuid.NewString()
		}
		c.Set(ContextRequestIDKey, reqID)
		c.Writer.Header().Set(headerRequestID, reqID)
		c.Next()
	}
}

// RequestLogger logs one line per request, at a level chosen by the status.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		fields := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", c.GetString(ContextRequestIDKey),
		}
		if spanCtx := trace.SpanContextFromContext(c.Request.Context()); spanCtx.HasTraceID() {
			fields = append(fields, "trace_id", spanCtx.TraceID().String())
		}
		if uid := c.GetString(ContextUserIDKey); uid != "" {
			fields = append(fields, "user_id", uid)
		}

		switch {
		case status >= 500:
			log.Error("HTTP request", fields...)
		case status >= 400:
			log.Warn("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}

// Recovery converts a panic into a 500 payload.
func Recovery(log *logger.Logger, development bool) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error("panic recovered", "request_id", c.GetString(ContextRequestIDKey), "panic", recovered)
		writeError(c, apperr.Internal(errors.New("panic recovered")), development)
	})
}

// CORS allows the configured browser origins. No origins means CORS is off.
func CORS(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowHeaders:     []string{"Authorization", "Content-Type", headerRequestID},
		ExposeHeaders:    []string{headerRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// AuthMiddleware resolves the bearer token to a user through the auth service.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, apperr.Unauthorized("authorization header is missing"))
			return
		}

		// Expecting "Bearer <token>"
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			abortWithError(c, apperr.Unauthorized("authorization header format must be Bearer {token}"))
			return
		}

		identity, err := authService.VerifyToken(c.Request.Context(), parts[1])
		if err != nil {
			if errors.Is(err, service.ErrInvalidToken) {
				abortWithError(c, apperr.Unauthorized("invalid or expired token"))
			} else {
				abortWithError(c, apperr.Persistence(err))
			}
			return
		}

		c.Set(ContextUserIDKey, identity.UserID)
		c.Set(ContextEmailKey, identity.Email)
		c.Next()
	}
}

// getUserIDFromContext returns the caller set by AuthMiddleware.
func getUserIDFromContext(c *gin.Context) (string, error) {
	idRaw, exists := c.Get(ContextUserIDKey)
	if !exists {
		return "", errors.New("user ID not found in context")
	}
	idStr, ok := idRaw.(string)
	if !ok || idStr == "" {
		return "", errors.New("invalid user ID type in context")
	}
	return idStr, nil
}

// callerID is getUserIDFromContext for handlers behind AuthMiddleware. It aborts with 401
// when no caller is present.
func callerID(c *gin.Context) (string, bool) {
	id, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, apperr.Unauthorized("unable to identify user from token"))
		return "", false
	}
	return id, true
}
