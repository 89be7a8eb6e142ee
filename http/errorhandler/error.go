// Package errorhandler turns errors returned by the handlers into JSON
// responses of type api.Error.
package errorhandler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dragonwatch/dragonwatch/http/api"

	"github.com/labstack/echo/v4"
)

// HTTPErrorHandler is a genral handler for echo handler errors
func HTTPErrorHandler(err error, c echo.Context) {
	var code int = 0
	var details []string
	message := ""

	var apierr api.Error
	var httperr *echo.HTTPError

	if errors.As(err, &apierr) {
		code = apierr.Code
		message = apierr.Message
		details = apierr.Details
	} else if errors.As(err, &httperr) {
		if httperr.Internal != nil {
			if herr, ok := httperr.Internal.(*echo.HTTPError); ok {
				httperr = herr
			}
		}

		code = httperr.Code
		message = http.StatusText(httperr.Code)
		details = strings.Split(fmt.Sprintf("%v", httperr.Message), "\n")
	} else {
		code = http.StatusInternalServerError
		message = http.StatusText(http.StatusInternalServerError)
		details = strings.Split(err.Error(), "\n")
	}

	if c.Response().Committed {
		return
	}

	if c.Request().Method == http.MethodHead {
		c.NoContent(code)
		return
	}

	c.JSON(code, api.Error{
		Code:    code,
		Message: message,
		Details: details,
	})
}
