package router

import (
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-game-store-go/internal/auth"
	authrepo "github.com/ovaphlow/pitchfork/service-game-store-go/internal/auth/repo"
	"github.com/ovaphlow/pitchfork/service-game-store-go/internal/game"
	gamerepo "github.com/ovaphlow/pitchfork/service-game-store-go/internal/game/repo"
	"github.com/ovaphlow/pitchfork/service-game-store-go/pkg/utilities"
)

// loggingResponseWriter wraps http.ResponseWriter to capture status and size.
type loggingResponseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.status = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	if lrw.status == 0 {
		lrw.status = http.StatusOK
	}
	n, err := lrw.ResponseWriter.Write(b)
	lrw.size += n
	return n, err
}

// LoggingMiddleware logs each request at debug level with its correlation ID.
func LoggingMiddleware(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lrw := &loggingResponseWriter{ResponseWriter: w}
			next.ServeHTTP(lrw, r)
			dur := time.Since(start)
			status := lrw.status
			if status == 0 {
				status = http.StatusOK
			}
			logger.Debugw("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"remote", r.RemoteAddr,
				"status", status,
				"duration_ms", float64(dur.Microseconds())/1000.0,
				"size", lrw.size,
				"request_id", w.Header().Get("X-Request-Id"),
			)
		})
	}
}

// RequestIDMiddleware stamps every response with a snowflake correlation ID.
func RequestIDMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Request-Id", utilities.NewRequestID())
			next.ServeHTTP(w, r)
		})
	}
}

// SecurityHeadersMiddleware sets common HTTP security headers.
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "no-referrer-when-downgrade")
			if r.TLS != nil {
				w.Header().Set("Strict-Transport-Security", "max-age=2592000; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CORSMiddleware allows cross-origin access from any origin and answers
// preflight requests directly.
func CORSMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RegisterRoutes wires repositories, services, and handlers onto a ServeMux
// and wraps it with the middleware chain.
func RegisterRoutes(logger *zap.SugaredLogger, db *sqlx.DB) (http.Handler, error) {
	tokenCfg, err := auth.TokenConfigFromEnv()
	if err != nil {
		return nil, err
	}

	authSvc := auth.NewService(authrepo.NewUserRepo(db), nil, auth.NewTokenIssuer(tokenCfg))
	authHandler := auth.NewHandler(authSvc, logger)

	gameSvc := game.NewService(gamerepo.NewGameRepo(db))
	gameHandler := game.NewHandler(gameSvc, logger)

	mux := http.NewServeMux()

	// health
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// auth routes
	mux.HandleFunc("POST /token", authHandler.Token)
	mux.HandleFunc("GET /users/me", authHandler.Me)

	// game routes
	mux.HandleFunc("POST /games/", gameHandler.Create)
	mux.HandleFunc("GET /games/", gameHandler.List)
	mux.HandleFunc("GET /games/{id}", gameHandler.Get)
	mux.HandleFunc("PUT /games/{id}", gameHandler.Update)
	mux.HandleFunc("DELETE /games/{id}", gameHandler.Delete)

	handler := LoggingMiddleware(logger)(RequestIDMiddleware()(CORSMiddleware()(SecurityHeadersMiddleware()(mux))))
	return handler, nil
}
