package api

import (
	"fmt"
	"net/http"
	"strings"
)

// Error is the body of every failed request
type Error struct {
	Code    int      `json:"code" jsonschema:"required" format:"int"`
	Message string   `json:"message" jsonschema:""`
	Details []string `json:"details" jsonschema:""`
}

func (e Error) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("%d %s", e.Code, e.Message)
	}

	return fmt.Sprintf("%d %s: %s", e.Code, e.Message, strings.Join(e.Details, "; "))
}

// Err creates a new API error with the given HTTP status code. An empty message is replaced
// by the status text of the code. If the first of the args is a string, it is used as format
// for the remaining args and the result, split into lines, becomes the details of the error.
func Err(code int, message string, args ...interface{}) Error {
	if len(message) == 0 {
		message = http.StatusText(code)
	}

	return Error{
		Code:    code,
		Message: message,
		Details: details(args),
	}
}

func details(args []interface{}) []string {
	lines := []string{}

	if len(args) == 0 {
		return lines
	}

	format, ok := args[0].(string)
	if !ok {
		return lines
	}

	for _, line := range strings.Split(fmt.Sprintf(format, args[1:]...), "\n") {
		if line = strings.TrimSpace(line); len(line) != 0 {
			lines = append(lines, line)
		}
	}

	return lines
}
