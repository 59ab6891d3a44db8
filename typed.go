package antrean

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"
)

// Envelope is the standard success wire format: {success, data, message?}.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

// Get issues a GET and returns the unwrapped data field of the response
// envelope. All failures surface as normalized *Error values.
func Get[T any](ctx context.Context, c *Client, path string) (T, error) {
	return roundTrip[T](ctx, c, http.MethodGet, path, nil)
}

// Post issues a POST with a JSON body and unwraps the response envelope.
func Post[T any](ctx context.Context, c *Client, path string, body any) (T, error) {
	return roundTrip[T](ctx, c, http.MethodPost, path, body)
}

// Put issues a PUT with a JSON body and unwraps the response envelope.
func Put[T any](ctx context.Context, c *Client, path string, body any) (T, error) {
	return roundTrip[T](ctx, c, http.MethodPut, path, body)
}

// Patch issues a PATCH with a JSON body and unwraps the response envelope.
func Patch[T any](ctx context.Context, c *Client, path string, body any) (T, error) {
	return roundTrip[T](ctx, c, http.MethodPatch, path, body)
}

// Delete issues a DELETE and unwraps the response envelope.
func Delete[T any](ctx context.Context, c *Client, path string) (T, error) {
	return roundTrip[T](ctx, c, http.MethodDelete, path, nil)
}

// roundTrip is a pure pass-through adapter over the transport: it adds JSON
// encoding and envelope unwrapping, nothing else. Retry and caching policy
// live elsewhere.
func roundTrip[T any](ctx context.Context, c *Client, method, path string, body any) (T, error) {
	var zero T

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return zero, Normalize(err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := c.NewRequest(ctx, method, path, reader)
	if err != nil {
		return zero, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.Do(req)
	if err != nil {
		return zero, err
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, &Error{Kind: KindNetwork, Message: "reading response body failed", Timestamp: time.Now(), Cause: err}
	}
	if len(raw) == 0 {
		return zero, nil
	}

	var envelope Envelope[T]
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return zero, Normalize(&APIError{
			Message: "failed to unmarshal response",
			Code:    "DECODE_ERROR",
			Status:  resp.StatusCode,
		})
	}

	return envelope.Data, nil
}

// decodeAPIError recovers the wire error shape from an error response body,
// synthesizing one from the status code when the body is not parseable.
func decodeAPIError(body []byte, status int) *APIError {
	var apiErr APIError
	if len(body) > 0 && json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
		if apiErr.Status == 0 {
			apiErr.Status = status
		}
		return &apiErr
	}

	message := http.StatusText(status)
	if message == "" {
		message = unknownErrorMessage
	}
	return &APIError{Message: message, Code: "HTTP_ERROR", Status: status}
}
