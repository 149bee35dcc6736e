package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"memebot/internal/domain"
	"memebot/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCaptionService(endpoint string) *CaptionService {
	return NewCaptionService(NewDefaultCatalogService(), CaptionConfig{
		URL:      endpoint,
		Username: "user",
		Password: "pass",
		Timeout:  time.Second,
	}, testutil.NewTestLogger())
}

func TestCaptionService_GenerateCaption(t *testing.T) {
	tests := []struct {
		name            string
		status          int
		body            string
		expectedKind    domain.ResultKind
		expectedURL     string
		expectedMessage string
	}{
		{
			name:         "success",
			status:       http.StatusOK,
			body:         `{"success":true,"data":{"url":"https://i.imgflip.com/x.jpg","page_url":"https://imgflip.com/i/x"}}`,
			expectedKind: domain.ResultImage,
			expectedURL:  "https://i.imgflip.com/x.jpg",
		},
		{
			name:            "service rejection",
			status:          http.StatusOK,
			body:            `{"success":false,"error_message":"bad template"}`,
			expectedKind:    domain.ResultServiceError,
			expectedMessage: "bad template",
		},
		{
			name:            "rejection without message",
			status:          http.StatusOK,
			body:            `{"success":false}`,
			expectedKind:    domain.ResultServiceError,
			expectedMessage: "Unknown error",
		},
		{
			name:            "malformed json",
			status:          http.StatusOK,
			body:            `<html>`,
			expectedKind:    domain.ResultServiceError,
			expectedMessage: captionFailedMessage,
		},
		{
			name:            "success without url",
			status:          http.StatusOK,
			body:            `{"success":true,"data":{}}`,
			expectedKind:    domain.ResultServiceError,
			expectedMessage: captionFailedMessage,
		},
		{
			name:            "server error",
			status:          http.StatusBadGateway,
			body:            ``,
			expectedKind:    domain.ResultTransportFault,
			expectedMessage: captionFailedMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			result := newTestCaptionService(server.URL).GenerateCaption(context.Background(), "drake", "A", "B")

			assert.Equal(t, tt.expectedKind, result.Kind)
			assert.Equal(t, tt.expectedURL, result.URL)
			assert.Equal(t, tt.expectedMessage, result.Message)
		})
	}
}

func TestCaptionService_GenerateCaption_RequestForm(t *testing.T) {
	longText := "this top text is deliberately longer than fifty characters in total"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "129242436", r.PostForm.Get("template_id"))
		assert.Equal(t, "user", r.PostForm.Get("username"))
		assert.Equal(t, "pass", r.PostForm.Get("password"))
		assert.Equal(t, longText, r.PostForm.Get("text0"))
		assert.Equal(t, "bottom", r.PostForm.Get("text1"))
		w.Write([]byte(`{"success":true,"data":{"url":"https://i.imgflip.com/y.jpg"}}`))
	}))
	defer server.Close()

	result := newTestCaptionService(server.URL).GenerateCaption(context.Background(), "Change My Mind", longText, "bottom")

	assert.True(t, result.Ok())
}

func TestCaptionService_GenerateCaption_InvalidCategoryNoNetwork(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	svc := newTestCaptionService(server.URL)

	for _, category := range []string{"cats", "", "drakes", "dark-humor"} {
		result := svc.GenerateCaption(context.Background(), category, "A", "B")
		assert.Equal(t, domain.ResultInvalidCategory, result.Kind)
		assert.ErrorIs(t, result.Err, domain.ErrInvalidCategory)
	}

	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestCaptionService_GenerateCaption_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := server.URL
	server.Close()

	result := newTestCaptionService(endpoint).GenerateCaption(context.Background(), "drake", "A", "B")

	assert.Equal(t, domain.ResultTransportFault, result.Kind)
	assert.Equal(t, captionFailedMessage, result.Message)
	assert.Error(t, result.Err)
}
