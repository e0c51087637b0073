package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/tendant/simple-directory/pkg/errs"
)

// ErrorResponse is the JSON body returned on every failure path
type ErrorResponse struct {
	Code    errs.Code `json:"code"`
	Message string    `json:"message"`
}

func renderError(w http.ResponseWriter, r *http.Request, err error) {
	code := errs.GetCode(err)
	status := errs.MapCodeToHTTPStatus(code)
	if status == http.StatusInternalServerError {
		slog.Error("Request failed", "path", r.URL.Path, "err", err)
	}
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{
		Code:    code,
		Message: errs.GetMessage(err),
	})
}
