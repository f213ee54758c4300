package api

import (
	"encoding/json"
	"fmt"

	"github.com/presalesly/presalesly/internal/model"
)

// DecodeJSON decodes the body of resp into T.
func DecodeJSON[T any](resp *Response) (T, error) {
	var v T
	if resp == nil {
		return v, fmt.Errorf("decoding response: no response")
	}
	if err := json.Unmarshal(resp.Body, &v); err != nil {
		return v, fmt.Errorf("decoding response: %w", err)
	}
	return v, nil
}

// DecodePage decodes a paginated list response.
func DecodePage[T any](resp *Response) (model.Page[T], error) {
	return DecodeJSON[model.Page[T]](resp)
}

// Message is the {"message": ...} body of delete and upload responses.
type Message struct {
	Message string `json:"message"`
}
