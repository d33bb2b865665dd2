package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	apperrors "typesanitizer/pkg/errors"
	"typesanitizer/pkg/sanitizer"
)

// Client talks to a running sanitizer API.
type Client struct {
	http *HttpClient
}

func NewClient(baseURL string) *Client {
	return &Client{http: NewHttpClient(baseURL)}
}

// SanitizeRequest mirrors the POST /api/v1/sanitize body. Set exactly one of
// Fields and Type.
type SanitizeRequest struct {
	Data   any    `json:"data"`
	Fields any    `json:"fields,omitempty"` // sanitizer.Fields or sanitizer.FieldMap
	Type   string `json:"type,omitempty"`
	Policy string `json:"policy,omitempty"`
}

type TypeInfo struct {
	Name   string           `json:"name"`
	Fields sanitizer.Fields `json:"fields,omitempty"`
}

type HealthStatus struct {
	Status string `json:"status"`
	Types  int    `json:"types"`
}

// Sanitize returns the sanitized data as raw JSON. API failures come back as
// *apperrors.AppError carrying the server's code, message and status.
func (c *Client) Sanitize(ctx context.Context, req SanitizeRequest) (json.RawMessage, error) {
	resp, err := c.http.POST(ctx, "/api/v1/sanitize", req)
	if err != nil {
		return nil, err
	}

	var body struct {
		Data json.RawMessage `json:"data"`
	}
	if err := decode(resp, &body); err != nil {
		return nil, err
	}
	return body.Data, nil
}

// SanitizeInto sanitizes req and decodes the result into out.
func (c *Client) SanitizeInto(ctx context.Context, req SanitizeRequest, out any) error {
	data, err := c.Sanitize(ctx, req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode sanitized data: %w", err)
	}
	return nil
}

func (c *Client) Types(ctx context.Context, withFields bool) ([]TypeInfo, error) {
	path := "/api/v1/types"
	if withFields {
		path += "?fields=true"
	}
	resp, err := c.http.GET(ctx, path)
	if err != nil {
		return nil, err
	}

	var body struct {
		Data []TypeInfo `json:"data"`
	}
	if err := decode(resp, &body); err != nil {
		return nil, err
	}
	return body.Data, nil
}

func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	resp, err := c.http.GET(ctx, "/health")
	if err != nil {
		return nil, err
	}

	var status HealthStatus
	if err := decode(resp, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func decode(resp *Response, target any) error {
	if resp.StatusCode >= http.StatusBadRequest {
		return errorFromResponse(resp)
	}
	if err := resp.DecodeJSON(target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func errorFromResponse(resp *Response) *apperrors.AppError {
	var body apperrors.ErrorResponse
	if err := resp.DecodeJSON(&body); err != nil || body.Code == "" {
		return apperrors.New(apperrors.CodeInternal, fmt.Sprintf("unexpected response: %s", resp.Status), resp.StatusCode)
	}
	return apperrors.New(body.Code, body.Message, resp.StatusCode).WithDetails(body.Details)
}
