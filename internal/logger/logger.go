package logger

import (
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	global *zap.Logger
	once   sync.Once
)

// Init builds the process-wide logger. Development mode uses a colored
// console encoder; production emits JSON with a service field attached.
// Repeated calls are no-ops.
func Init(isDev bool) {
	once.Do(func() {
		var cfg zap.Config
		if isDev {
			cfg = zap.NewDevelopmentConfig()
			cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		} else {
			cfg = zap.NewProductionConfig()
			cfg.InitialFields = map[string]interface{}{"service": "crumb-api"}
		}

		l, err := cfg.Build()
		if err != nil {
			panic("failed to initialize logger: " + err.Error())
		}
		global = l
	})
}

// Get returns the process-wide logger, or a no-op logger when Init has not
// run (tests mostly).
func Get() *zap.Logger {
	if global == nil {
		return zap.NewNop()
	}
	return global
}

// With returns a child logger with the given fields attached.
func With(fields ...zap.Field) *zap.Logger {
	return Get().With(fields...)
}

// RequestIDMiddleware tags each request with an ID, honoring one supplied by
// the client in X-Request-ID and generating a UUID otherwise. The ID is
// stored in the gin context under "request_id" and echoed in the response.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// Sync flushes buffered log entries. Call before the process exits.
func Sync() {
	if global != nil {
		_ = global.Sync()
	}
}
