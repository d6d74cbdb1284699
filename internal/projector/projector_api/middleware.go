package projector_api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

type APILogger interface {
	LogAPI(method, path, status, duration string)
}

// RequestLogger logs one line per request through the service logger.
func RequestLogger(logger APILogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				logger.LogAPI(r.Method, r.URL.Path, strconv.Itoa(status), time.Since(start).String())
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
