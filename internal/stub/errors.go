package stub

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// PlainTextErrors renders errors as a bare text body, the way the quote
// service reports them.
func PlainTextErrors() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		if he, ok := err.(*echo.HTTPError); ok {
			_ = c.String(he.Code, http.StatusText(he.Code))
			return
		}

		_ = c.String(http.StatusInternalServerError, "internal server error")
	}
}
