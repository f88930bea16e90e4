package retrieval

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/vavassoriluca/MongoDB-RAG/internal/service"
	"github.com/vavassoriluca/MongoDB-RAG/internal/store"
	"github.com/vavassoriluca/MongoDB-RAG/internal/store/mocks"
)

var testOpts = Options{VectorK: 5, LexicalK: 5, FinalK: 10, NumCandidates: 100}

func TestRetriever_VectorOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockDocumentStore(ctrl)
	queryVector := []float64{0.1, 0.2}

	mockStore.EXPECT().
		VectorSearch(gomock.Any(), queryVector, 10, 100).
		Return([]store.SearchResult{
			{Text: "hit", Source: "s", Score: 0.8},
		}, nil)

	r := NewRetriever(mockStore, testOpts)
	got, err := r.Retrieve(context.Background(), "", queryVector, false)
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if len(got) != 1 || got[0].Origin != OriginVector {
		t.Errorf("Retrieve() = %v, want one vector-origin candidate", got)
	}
}

func TestRetriever_HybridMergesBranches(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockDocumentStore(ctrl)
	queryVector := []float64{0.3}

	mockStore.EXPECT().
		VectorSearch(gomock.Any(), queryVector, 5, 100).
		Return([]store.SearchResult{
			{Text: "semantic", Score: 0.9},
			{Text: "shared", Score: 0.4},
		}, nil)
	mockStore.EXPECT().
		LexicalSearch(gomock.Any(), "who ran?", 5).
		Return([]store.SearchResult{
			{Text: "shared", Score: 7.0},
			{Text: "keyword", Score: 3.0},
		}, nil)

	r := NewRetriever(mockStore, testOpts)
	got, err := r.Retrieve(context.Background(), "who ran?", queryVector, true)
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("Retrieve() returned %d candidates, want 3: %v", len(got), got)
	}
	if got[0].Text != "shared" || got[0].Origin != OriginBoth {
		t.Errorf("first candidate = %+v, want both-branch 'shared'", got[0])
	}
	if got[1].Text != "semantic" || got[2].Text != "keyword" {
		t.Errorf("candidate order = %v, want semantic then keyword", got)
	}
}

func TestRetriever_HybridRequiresQueryText(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	r := NewRetriever(mocks.NewMockDocumentStore(ctrl), testOpts)
	_, err := r.Retrieve(context.Background(), "", []float64{1}, true)

	var ve *service.ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("error = %v, want ValidationError for missing query text", err)
	}
}

func TestRetriever_EmptyQueryVector(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	r := NewRetriever(mocks.NewMockDocumentStore(ctrl), testOpts)
	_, err := r.Retrieve(context.Background(), "q", nil, false)

	var ve *service.ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("error = %v, want ValidationError for empty vector", err)
	}
}

func TestRetriever_DegradesWhenLexicalUnsupported(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockDocumentStore(ctrl)
	queryVector := []float64{0.5}

	mockStore.EXPECT().
		VectorSearch(gomock.Any(), queryVector, 5, 100).
		Return([]store.SearchResult{{Text: "hit", Score: 0.7}}, nil)
	mockStore.EXPECT().
		LexicalSearch(gomock.Any(), "q", 5).
		Return(nil, store.ErrLexicalUnsupported)

	r := NewRetriever(mockStore, testOpts)
	got, err := r.Retrieve(context.Background(), "q", queryVector, true)
	if err != nil {
		t.Fatalf("Retrieve() error = %v, want graceful degradation", err)
	}
	if len(got) != 1 || got[0].Origin != OriginVector {
		t.Errorf("Retrieve() = %v, want the vector branch result", got)
	}
}

func TestRetriever_PropagatesStoreErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockDocumentStore(ctrl)
	storeErr := &service.StoreError{Op: "vector search", Err: errors.New("down")}

	mockStore.EXPECT().
		VectorSearch(gomock.Any(), gomock.Any(), 10, 100).
		Return(nil, storeErr)

	r := NewRetriever(mockStore, testOpts)
	_, err := r.Retrieve(context.Background(), "", []float64{1}, false)

	var se *service.StoreError
	if !errors.As(err, &se) {
		t.Errorf("error = %v, want wrapped StoreError", err)
	}
}
