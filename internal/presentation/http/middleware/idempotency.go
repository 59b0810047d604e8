package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dukaanly/dukaanly-api/internal/domain/entity"
	"github.com/dukaanly/dukaanly-api/internal/domain/repository"
	"github.com/dukaanly/dukaanly-api/internal/presentation/http/dto/response"
)

const (
	// IdempotencyKeyHeader carries the client-generated retry key
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyKeyTTL is how long a stored key replays its response
	IdempotencyKeyTTL = 24 * time.Hour
)

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Repo repository.IdempotencyRepository
}

// bodyRecorder captures the response body so a retry can replay it
type bodyRecorder struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// replayIfSeen returns true when the key has already been processed and the
// stored response was replayed to the client.
func replayIfSeen(c *gin.Context, repo repository.IdempotencyRepository, key string, userID uuid.UUID) (bool, error) {
	existing, err := repo.GetByKey(c.Request.Context(), key, userID)
	if err != nil {
		return false, err
	}
	if existing == nil || existing.IsExpired() {
		return false, nil
	}
	c.Header("X-Idempotency-Replayed", "true")
	c.Data(existing.ResponseCode, "application/json", []byte(existing.ResponseBody))
	c.Abort()
	return true, nil
}

func recordResponse(c *gin.Context, repo repository.IdempotencyRepository, recorder *bodyRecorder, key string, userID uuid.UUID) {
	ikey := &entity.IdempotencyKey{
		Key:          key,
		UserID:       userID,
		Endpoint:     c.Request.Method + " " + c.FullPath(),
		ResponseCode: c.Writer.Status(),
		ResponseBody: recorder.body.String(),
		ExpiresAt:    time.Now().Add(IdempotencyKeyTTL),
	}
	_ = repo.Create(c.Request.Context(), ikey)
}

// Idempotency deduplicates writes when the client sends an Idempotency-Key.
// Requests without the header pass through untouched.
func Idempotency(config IdempotencyConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut {
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}

		userID, ok := userIDFromContext(c)
		if !ok {
			c.Next()
			return
		}

		// A lookup failure here must not block the request itself
		replayed, err := replayIfSeen(c, config.Repo, key, userID)
		if err != nil {
			c.Next()
			return
		}
		if replayed {
			return
		}

		recorder := &bodyRecorder{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = recorder
		c.Next()
		recordResponse(c, config.Repo, recorder, key, userID)
	}
}

// IdempotencyRequired refuses POST writes that arrive without a key. The
// money-moving endpoints use this so a network retry can never double-post
// a payment.
func IdempotencyRequired(config IdempotencyConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			response.BadRequest(c, "Idempotency-Key header is required for this request")
			c.Abort()
			return
		}

		userID, ok := userIDFromContext(c)
		if !ok {
			response.Unauthorized(c, "User not authenticated")
			c.Abort()
			return
		}

		replayed, err := replayIfSeen(c, config.Repo, key, userID)
		if err != nil {
			response.ErrorWithCode(c, http.StatusInternalServerError, "Failed to check idempotency key")
			c.Abort()
			return
		}
		if replayed {
			return
		}

		recorder := &bodyRecorder{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = recorder
		c.Next()

		// Only successful writes are worth replaying; a failed attempt
		// should be retryable with the same key
		if c.Writer.Status() >= 200 && c.Writer.Status() < 300 {
			recordResponse(c, config.Repo, recorder, key, userID)
		}
	}
}

func userIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, false
	}
	userID, ok := value.(uuid.UUID)
	return userID, ok
}
