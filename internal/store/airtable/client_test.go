package airtable

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"go-jobscout-automation/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRecords(t *testing.T) {
	var got createRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/appBase/Saudi%20Jobs", r.URL.EscapedPath())
		assert.Equal(t, "Bearer key123", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"records":[]}`))
	}))
	defer srv.Close()

	c := New(Config{APIKey: "key123", BaseID: "appBase", BaseURL: srv.URL, RequestsPerSecond: 100})
	err := c.CreateRecords(context.Background(), "Saudi Jobs", []store.Record{
		{"Job Title": "Web Developer"},
		{"Job Title": "Graphic Designer"},
	})
	require.NoError(t, err)
	require.Len(t, got.Records, 2)
	assert.Equal(t, "Graphic Designer", got.Records[1].Fields["Job Title"])
}

func TestCreateRecordsReturnsDiagnostic(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":{"type":"INVALID_VALUE_FOR_COLUMN"}}`))
	}))
	defer srv.Close()

	c := New(Config{APIKey: "k", BaseID: "b", BaseURL: srv.URL, RequestsPerSecond: 100})
	err := c.CreateRecords(context.Background(), "Jobs", []store.Record{{"a": 1}})

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	assert.Contains(t, apiErr.Body, "INVALID_VALUE_FOR_COLUMN")
}

func TestCreateRunRecord(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/appBase/tblRuns", r.URL.Path)
		var body createRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if assert.Len(t, body.Records, 1) {
			assert.Equal(t, "Failed", body.Records[0].Fields["fldStatus"])
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(Config{APIKey: "k", BaseID: "appBase", RunsTable: "tblRuns", BaseURL: srv.URL, RequestsPerSecond: 100})
	require.NoError(t, c.CreateRunRecord(context.Background(), store.Record{"fldStatus": "Failed"}))
	assert.Equal(t, int32(1), hits.Load())

	unset := New(Config{APIKey: "k", BaseID: "appBase", BaseURL: srv.URL})
	assert.Error(t, unset.CreateRunRecord(context.Background(), store.Record{}))
	assert.Equal(t, int32(1), hits.Load())
}
