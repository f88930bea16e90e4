package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vavassoriluca/MongoDB-RAG/internal/llm"
	store_mocks "github.com/vavassoriluca/MongoDB-RAG/internal/store/mocks"

	"go.uber.org/mock/gomock"
)

func TestHealthHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name           string
		storePingErr   error
		llmStatus      int
		expectedStatus int
		expectedHealth string
	}{
		{
			name:           "all dependencies healthy",
			storePingErr:   nil,
			llmStatus:      http.StatusOK,
			expectedStatus: http.StatusOK,
			expectedHealth: "healthy",
		},
		{
			name:           "store down is unhealthy",
			storePingErr:   errors.New("connection refused"),
			llmStatus:      http.StatusOK,
			expectedStatus: http.StatusServiceUnavailable,
			expectedHealth: "unhealthy",
		},
		{
			name:           "llm down is degraded",
			storePingErr:   nil,
			llmStatus:      http.StatusInternalServerError,
			expectedStatus: http.StatusServiceUnavailable,
			expectedHealth: "degraded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockStore := store_mocks.NewMockDocumentStore(ctrl)
			mockStore.EXPECT().Ping(gomock.Any()).Return(tt.storePingErr)

			ollama := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.llmStatus)
			}))
			defer ollama.Close()

			llmClient := llm.NewClient(ollama.URL, "llama3", 5*time.Second)
			handler := NewHealthHandler(mockStore, llmClient)

			req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			var resp HealthResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Status != tt.expectedHealth {
				t.Errorf("expected health %q, got %q", tt.expectedHealth, resp.Status)
			}
			if resp.Timestamp == "" {
				t.Error("expected timestamp to be set")
			}
		})
	}
}
