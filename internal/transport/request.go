package transport

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/agentstation/halloffame/pkg/errors"
)

// maxErrorMessage bounds how much of an error body ends up in an APIError.
const maxErrorMessage = 512

// decodeBody unmarshals a JSON body. Unknown fields are ignored.
func decodeBody(body []byte, target any) error {
	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", "response", err)
	}
	return nil
}

// errorMessage extracts a readable message from an error response body.
func errorMessage(body []byte) string {
	var payload struct {
		Message     string `json:"message"`
		Error       string `json:"error"`
		Description string `json:"description"`
	}
	if json.Unmarshal(body, &payload) == nil {
		for _, m := range []string{payload.Message, payload.Description, payload.Error} {
			if m != "" {
				return m
			}
		}
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > maxErrorMessage {
		msg = msg[:maxErrorMessage]
	}
	return msg
}

// URL joins base and path and encodes query. Parameters whose value is empty
// are dropped.
func URL(base, path string, query map[string]string) string {
	u := strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
	values := url.Values{}
	for k, v := range query {
		if v != "" {
			values.Set(k, v)
		}
	}
	if len(values) == 0 {
		return u
	}
	return u + "?" + values.Encode()
}
