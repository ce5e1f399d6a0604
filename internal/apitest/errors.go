package apitest

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gaborage/stockdeal/validation"
)

// validationDetail mirrors one entry of a FastAPI 422 "detail" list.
type validationDetail struct {
	Type string   `json:"type"`
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
}

func notFound(format string, args ...any) error {
	return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf(format, args...))
}

func badRequest(format string, args ...any) error {
	return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf(format, args...))
}

func invalidParam(loc, name, msg string) error {
	return &validation.Error{Errors: []validation.FieldError{{Field: name, Path: loc + "." + name, Tag: "invalid", Message: msg}}}
}

// errorHandler writes errors in the shapes the real server uses:
// {"detail": "..."} for domain errors and a detail list for 422s.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var verr *validation.Error
	var herr *echo.HTTPError
	switch {
	case errors.As(err, &verr):
		details := make([]validationDetail, 0, len(verr.Errors))
		for _, fe := range verr.Errors {
			details = append(details, validationDetail{Type: fe.Tag, Loc: location(fe.Path), Msg: fe.Message})
		}
		_ = c.JSON(http.StatusUnprocessableEntity, map[string]any{"detail": details})
	case errors.As(err, &herr):
		_ = c.JSON(herr.Code, map[string]any{"detail": fmt.Sprint(herr.Message)})
	default:
		_ = c.JSON(http.StatusInternalServerError, map[string]any{"detail": "Internal Server Error"})
	}
}

func location(path string) []string {
	switch {
	case len(path) > 6 && path[:6] == "query.":
		return []string{"query", path[6:]}
	case len(path) > 5 && path[:5] == "path.":
		return []string{"path", path[5:]}
	default:
		return []string{"body", path}
	}
}
