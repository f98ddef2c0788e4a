package backend

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// envelope is the common response wrapper used by every backend endpoint.
type envelope struct {
	IsSuccess bool            `json:"isSuccess"`
	Code      string          `json:"code"`
	Message   string          `json:"message"`
	Result    json.RawMessage `json:"result"`
}

// PageMeta describes a paginated result.
type PageMeta struct {
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Size          int   `json:"size"`
	Number        int   `json:"number"`
}

// decodeEnvelope unwraps a backend response, surfacing failures as APIError
// and decoding the result payload into out when requested.
func decodeEnvelope(status int, raw []byte, out any) error {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if status >= http.StatusBadRequest {
			return &APIError{Status: status, Message: http.StatusText(status)}
		}
		return fmt.Errorf("decode response failed: %w", err)
	}

	if !env.IsSuccess || status >= http.StatusBadRequest {
		return &APIError{Status: status, Code: env.Code, Message: env.Message}
	}

	if out == nil || len(env.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Result, out); err != nil {
		return fmt.Errorf("decode result failed: %w", err)
	}
	return nil
}
