package salesforce

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/oauth2"
)

// DefaultAPIVersion is the REST API version used for data requests.
const DefaultAPIVersion = "v59.0"

// APIError is a structured Salesforce API failure. Its Error text is the
// signature the workflow's failure classifier keys on, so the prefix must
// stay stable.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("Salesforce API Error (%d): %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("Salesforce API Error (%d): %s", e.StatusCode, e.Message)
}

// Client is an authenticated Salesforce REST client. Tokens come from an
// oauth2.TokenSource so refresh happens transparently; transient transport
// failures are retried a bounded number of times before an error surfaces.
type Client struct {
	http        *retryablehttp.Client
	instanceURL string
	source      oauth2.TokenSource
	apiVersion  string
}

// New builds a client for one connected org.
func New(instanceURL string, source oauth2.TokenSource) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.Logger = nil
	return &Client{
		http:        rc,
		instanceURL: strings.TrimRight(instanceURL, "/"),
		source:      source,
		apiVersion:  DefaultAPIVersion,
	}
}

// InstanceURL returns the org's base URL, used by tools that build record
// links.
func (c *Client) InstanceURL() string { return c.instanceURL }

// DataPath joins a suffix onto the versioned REST data root.
func (c *Client) DataPath(suffix string) string {
	return fmt.Sprintf("/services/data/%s/%s", c.apiVersion, strings.TrimLeft(suffix, "/"))
}

// Get issues a GET and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Patch issues a PATCH with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPatch, path, body, out)
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		payload = strings.NewReader(string(data))
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.instanceURL+path, payload)
	if err != nil {
		return err
	}
	token, err := c.source.Token()
	if err != nil {
		return fmt.Errorf("salesforce credentials unavailable: %w", err)
	}
	token.SetAuthHeader(req.Request)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("salesforce request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeAPIError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeAPIError handles the array-of-errors shape Salesforce returns.
func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: "Unknown API error"}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return apiErr
	}
	var list []struct {
		Message   string `json:"message"`
		ErrorCode string `json:"errorCode"`
	}
	if err := json.Unmarshal(data, &list); err == nil && len(list) > 0 {
		apiErr.Message = list[0].Message
		apiErr.Code = list[0].ErrorCode
		return apiErr
	}
	var single struct {
		Message   string `json:"message"`
		ErrorCode string `json:"errorCode"`
	}
	if err := json.Unmarshal(data, &single); err == nil && single.Message != "" {
		apiErr.Message = single.Message
		apiErr.Code = single.ErrorCode
	}
	return apiErr
}

// QueryResult is one page of a SOQL query response.
type QueryResult struct {
	TotalSize      int                      `json:"totalSize"`
	Done           bool                     `json:"done"`
	NextRecordsURL string                   `json:"nextRecordsUrl"`
	Records        []map[string]interface{} `json:"records"`
}

// Query runs a SOQL query and follows pagination until all records are
// collected.
func (c *Client) Query(ctx context.Context, soql string) ([]map[string]interface{}, error) {
	next := c.DataPath("query") + "?q=" + url.QueryEscape(soql)
	var records []map[string]interface{}
	for next != "" {
		var page QueryResult
		if err := c.Get(ctx, next, &page); err != nil {
			return nil, err
		}
		records = append(records, page.Records...)
		next = page.NextRecordsURL
	}
	return records, nil
}

// ToolingExecute runs anonymous Apex through the Tooling API.
func (c *Client) ToolingExecute(ctx context.Context, apex string) (map[string]interface{}, error) {
	path := fmt.Sprintf("/services/data/%s/tooling/executeAnonymous?anonymousBody=%s",
		c.apiVersion, url.QueryEscape(apex))
	var out map[string]interface{}
	if err := c.Get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}
