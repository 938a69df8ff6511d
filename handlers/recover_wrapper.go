package handlers

import (
	"net/http"
	"runtime"

	"github.com/sirupsen/logrus"
)

// RecoverWrapper is router middleware that turns a handler panic into a 500
// and logs the panic with its stack.
func RecoverWrapper(logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					stack := make([]byte, 8*1024)
					stack = stack[:runtime.Stack(stack, false)]
					logger.WithFields(logrus.Fields{
						"module": moduleName,
						"method": r.Method,
						"path":   r.URL.Path,
						"stack":  string(stack),
					}).Errorf("panic recovered: %v", rec)
					writeJSON(w, http.StatusInternalServerError, ApiResponse{
						Success: false,
						Message: "internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
