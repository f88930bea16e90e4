package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vavassoriluca/MongoDB-RAG/internal/storage"
	storage_mocks "github.com/vavassoriluca/MongoDB-RAG/internal/storage/mocks"

	"go.uber.org/mock/gomock"
)

func TestSourcesHandler_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSources := storage_mocks.NewMockSourceStore(ctrl)
	mockSources.EXPECT().ListAll(gomock.Any()).Return([]storage.Source{
		{ID: "src-2", Name: "newer.md", ChunkCount: 4, UploadedAt: time.Now().UTC()},
		{ID: "src-1", Name: "older.txt", ChunkCount: 2, UploadedAt: time.Now().UTC().Add(-time.Hour)},
	}, nil)

	handler := NewSourcesHandler(mockSources)

	req := httptest.NewRequest(http.MethodGet, "/api/sources", nil)
	w := httptest.NewRecorder()
	handler.List(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var resp SourcesResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(resp.Sources))
	}
	if resp.Sources[0].Name != "newer.md" {
		t.Errorf("expected newest source first, got %q", resp.Sources[0].Name)
	}
}

func TestSourcesHandler_List_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSources := storage_mocks.NewMockSourceStore(ctrl)
	mockSources.EXPECT().ListAll(gomock.Any()).Return(nil, nil)

	handler := NewSourcesHandler(mockSources)

	req := httptest.NewRequest(http.MethodGet, "/api/sources", nil)
	w := httptest.NewRecorder()
	handler.List(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(w.Body).Decode(&raw); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if string(raw["sources"]) != "[]" {
		t.Errorf("expected empty array, got %s", raw["sources"])
	}
}

func TestSourcesHandler_List_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSources := storage_mocks.NewMockSourceStore(ctrl)
	mockSources.EXPECT().ListAll(gomock.Any()).Return(nil, errors.New("database is locked"))

	handler := NewSourcesHandler(mockSources)

	req := httptest.NewRequest(http.MethodGet, "/api/sources", nil)
	w := httptest.NewRecorder()
	handler.List(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
}
