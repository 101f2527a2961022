package salesforce

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func staticSource() oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "token-123"})
}

func TestClientQueryPagination(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/services/data/v59.0/query" {
			_, _ = w.Write([]byte(`{"totalSize":3,"done":false,"nextRecordsUrl":"/services/data/v59.0/query/next-2000","records":[{"Id":"001A"},{"Id":"001B"}]}`))
			return
		}
		_, _ = w.Write([]byte(`{"totalSize":3,"done":true,"records":[{"Id":"001C"}]}`))
	}))
	defer server.Close()

	client := New(server.URL, staticSource())
	records, err := client.Query(context.Background(), "SELECT Id FROM Account")
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "001C", records[2]["Id"])
}

func TestClientDecodesAPIErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`[{"message":"No such column 'Bogus' on entity 'Account'","errorCode":"INVALID_FIELD"}]`))
	}))
	defer server.Close()

	client := New(server.URL, staticSource())
	_, err := client.Query(context.Background(), "SELECT Bogus FROM Account")
	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "INVALID_FIELD", apiErr.Code)
	assert.Contains(t, apiErr.Error(), "Salesforce API Error (400)")
}

func TestClientRetriesServerErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"totalSize":0,"done":true,"records":[]}`))
	}))
	defer server.Close()

	client := New(server.URL, staticSource())
	client.http.RetryWaitMin = 0
	client.http.RetryWaitMax = 0
	records, err := client.Query(context.Background(), "SELECT Id FROM Lead")
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, 3, attempts)
}

func TestClientCreateRecord(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/services/data/v59.0/sobjects/Account", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"001NEW","success":true}`))
	}))
	defer server.Close()

	client := New(server.URL, staticSource())
	var out map[string]interface{}
	err := client.Post(context.Background(), client.DataPath("sobjects/Account"),
		map[string]interface{}{"Name": "Acme"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "001NEW", out["id"])
}
