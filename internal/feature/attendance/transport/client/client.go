// Package client はattendance APIのHTTPクライアントです。一括登録ツールから利用します。
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"safari_backend/internal/api"
)

// APIError はAPIが2xx以外を返したときのエラーです。
type APIError struct {
	StatusCode int
	Message    string
	Reason     string
}

func (e *APIError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("api returned %d: %s: %s", e.StatusCode, e.Message, e.Reason)
	}
	return fmt.Sprintf("api returned %d: %s", e.StatusCode, e.Message)
}

// Client は管理者トークンでAPIを呼び出します。
type Client struct {
	baseURL string
	token   string
	hc      *http.Client
}

// New はClientを生成します。hcにはタイムアウト設定済みのクライアントを渡します。
func New(baseURL, token string, hc *http.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), token: token, hc: hc}
}

// EnrollStudent は POST /v1/biometric/enroll を呼び出します。
func (c *Client) EnrollStudent(ctx context.Context, studentID uint, image string) (*api.EnrollResponse, error) {
	body, err := json.Marshal(api.EnrollStudentJSONRequestBody{StudentId: int64(studentID), Image: image})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/biometric/enroll", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("enroll request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusCreated {
		var e api.ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&e)
		if e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode)
		}
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: e.Error}
		if e.Reason != nil {
			apiErr.Reason = *e.Reason
		}
		return nil, apiErr
	}

	var out api.EnrollResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &out, nil
}
