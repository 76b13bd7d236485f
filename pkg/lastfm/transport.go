package lastfm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// errorEnvelope is the JSON shape Last.fm uses to report failures.
// Success payloads never carry an "error" member.
type errorEnvelope struct {
	Error   int    `json:"error"`
	Message string `json:"message"`
}

// prepare merges method-specific parameters with the common ones and,
// for signed calls, appends the request signature. The signature covers
// every parameter except "format" and "api_sig" themselves; "format" is
// added afterwards so the wire request still asks for JSON.
func (c *Client) prepare(apiMethod string, params map[string]string, signed bool) (url.Values, error) {
	reqParams := make(map[string]string, len(params)+3)
	for k, v := range params {
		reqParams[k] = v
	}
	reqParams["method"] = apiMethod
	reqParams["api_key"] = c.apiKey

	if signed {
		sig, err := calculateSignature(reqParams, c.apiSecret)
		if err != nil {
			return nil, err
		}
		reqParams["api_sig"] = sig
	}
	reqParams["format"] = "json"

	values := url.Values{}
	for k, v := range reqParams {
		values.Set(k, v)
	}
	return values, nil
}

// call makes a single HTTP request to the Last.fm API.
//
// Reads go out as GET with query parameters, writes as POST with an
// urlencoded form body. There is exactly one network attempt: any
// failure is terminal for the invocation. API-reported failures come
// back as *Error with the remote code; connection, status, and decode
// failures come back as *Error with code 0.
func (c *Client) call(ctx context.Context, httpMethod, apiMethod string, params map[string]string, signed bool) ([]byte, error) {
	values, err := c.prepare(apiMethod, params, signed)
	if err != nil {
		return nil, err
	}

	var req *http.Request
	if httpMethod == http.MethodPost {
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(values.Encode()))
		if err != nil {
			return nil, transportError("failed to create request: %v", err)
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+values.Encode(), nil)
		if err != nil {
			return nil, transportError("failed to create request: %v", err)
		}
	}
	req.Header.Set("User-Agent", userAgent)

	c.logDebugf("lastfm: calling %s (%s)", apiMethod, httpMethod)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError("http request failed: %v", err)
	}

	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return nil, transportError("failed to read response: %v", err)
	}

	// API errors arrive as a JSON error envelope, sometimes on a
	// non-200 status. Decode the envelope before judging the status
	// so the remote code and message survive intact.
	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, transportError("failed to decode response: %v", err)
	}
	if envelope.Error != 0 {
		return nil, &Error{Code: envelope.Error, Message: envelope.Message}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, transportError("unexpected status code: %d", resp.StatusCode)
	}

	c.logDebugf("lastfm: %s succeeded", apiMethod)
	return body, nil
}
