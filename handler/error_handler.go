package handler

import (
	"net/http"
	"videotube-api/common"
)

// ErrorHandlingMiddleware adapts a handler that returns *common.AppError to http.HandlerFunc.
func ErrorHandlingMiddleware(next func(http.ResponseWriter, *http.Request) *common.AppError) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := next(w, r); err != nil {
			err.Send(w)
		}
	}
}
