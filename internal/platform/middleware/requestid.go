package middleware

import (
	"crypto/rand"
	"log"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
)

const HeaderRequestID = "X-Request-ID"

// CtxRequestIDKey は gin.Context に詰めるキー
const CtxRequestIDKey = "request_id"

// RequestID は X-Request-ID を引き継ぐか ULID を採番し、レスポンスヘッダに返す。
// 終了時に [REQ] 行を1行出す。
func RequestID() gin.HandlerFunc {
	var mu sync.Mutex
	entropy := ulid.Monotonic(rand.Reader, 0)

	newID := func(t time.Time) string {
		mu.Lock()
		defer mu.Unlock()
		id, err := ulid.New(ulid.Timestamp(t), entropy)
		if err != nil {
			return ulid.Make().String()
		}
		return id.String()
	}

	return func(c *gin.Context) {
		start := time.Now()

		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > 64 {
			id = newID(start.UTC())
		}
		c.Set(CtxRequestIDKey, id)
		c.Header(HeaderRequestID, id)

		c.Next()

		log.Printf("[REQ] id=%s method=%s path=%s status=%d dur=%s",
			id, c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
