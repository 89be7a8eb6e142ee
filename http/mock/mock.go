// Package mock provides helpers for testing the HTTP handlers.
package mock

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/dragonwatch/dragonwatch/encoding/json"
	"github.com/dragonwatch/dragonwatch/http/api"
	"github.com/dragonwatch/dragonwatch/http/errorhandler"
	"github.com/dragonwatch/dragonwatch/http/validator"

	"github.com/invopop/jsonschema"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github.com/xeipuuv/gojsonschema"
)

// DummyEcho returns a router with the error handler and the validator of the
// status API and without any output.
func DummyEcho() *echo.Echo {
	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = errorhandler.HTTPErrorHandler
	router.Logger.SetOutput(io.Discard)
	router.Validator = validator.New()

	return router
}

// Response is a recorded response. Data is the decoded body for JSON
// responses, otherwise the raw body. Message is the message of an api.Error.
type Response struct {
	Code    int
	Message string
	Raw     []byte
	Data    interface{}
}

// Decode unmarshals the raw body into v.
func (r *Response) Decode(t require.TestingT, v interface{}) {
	require.NoError(t, json.Unmarshal(r.Raw, v))
}

// Request sends a request to the router and requires the given status code
// of the response. A body is sent as JSON.
func Request(t require.TestingT, httpstatus int, router *echo.Echo, method, path string, body io.Reader) *Response {
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	response := CheckResponse(t, rec.Result())

	require.Equal(t, httpstatus, response.Code, string(response.Raw))

	return response
}

// CheckResponse reads and decodes the body of res.
func CheckResponse(t require.TestingT, res *http.Response) *Response {
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	response := &Response{
		Code: res.StatusCode,
		Raw:  body,
		Data: body,
	}

	if strings.Contains(res.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		var data interface{}
		require.NoError(t, json.Unmarshal(body, &data))
		response.Data = data
	}

	if response.Code >= http.StatusBadRequest {
		apierr := api.Error{}
		if json.Unmarshal(body, &apierr) == nil {
			response.Message = apierr.Message
		}
	}

	return response
}

// Validate checks that data, usually the decoded body of a response, matches
// the JSON schema of datatype.
func Validate(t require.TestingT, datatype, data interface{}) bool {
	schema, err := jsonschema.Reflect(datatype).MarshalJSON()
	require.NoError(t, err)

	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schema), gojsonschema.NewGoLoader(data))
	require.NoError(t, err)
	require.True(t, result.Valid(), result.Errors())

	return true
}

// Body returns a reader with the JSON encoding of v.
func Body(t require.TestingT, v interface{}) io.Reader {
	data, err := json.Marshal(v)
	require.NoError(t, err)

	return bytes.NewReader(data)
}
