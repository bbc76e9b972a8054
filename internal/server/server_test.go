package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/factify-ai/factify/internal/providers"
	"github.com/factify-ai/factify/internal/server/endpoints"
	"github.com/factify-ai/factify/internal/types"
)

func newTestServer(t *testing.T, mock *providers.MockClient) (*Server, *httptest.Server) {
	t.Helper()
	srv, err := New(Config{
		Client: mock,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func getJSON(t *testing.T, url string, wantStatus int, result any) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("GET %s status = %d, want %d (body %s)", url, resp.StatusCode, wantStatus, body)
	}
	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
}

func uploadFile(t *testing.T, url, filename string, content []byte) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatal(err)
	}
	mw.Close()

	resp, err := http.Post(url, mw.FormDataContentType(), &buf)
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func TestServer_Endpoints(t *testing.T) {
	mock := providers.NewMockClient()
	mock.Responses = []providers.MockResponse{
		// classification attempt, then extraction attempt
		{Candidates: []providers.TokenCandidate{
			{Token: "Invoice", LogProb: -0.1},
			{Token: "Other", LogProb: -3.5},
		}},
		{Content: `{"vendor": "Acme Corp", "amount": 512.5, "due_date": "2024-05-01", "line_items": []}`},
	}
	_, ts := newTestServer(t, mock)

	t.Run("health", func(t *testing.T) {
		var health endpoints.HealthResponse
		getJSON(t, ts.URL+"/health", http.StatusOK, &health)
		if health.Status != "ok" {
			t.Errorf("Status = %q", health.Status)
		}
		if health.Pipeline != "ready" {
			t.Errorf("Pipeline = %q", health.Pipeline)
		}
	})

	t.Run("types", func(t *testing.T) {
		var resp endpoints.TypesResponse
		getJSON(t, ts.URL+"/api/types", http.StatusOK, &resp)
		if len(resp.Types) != 4 {
			t.Fatalf("types = %d, want 4", len(resp.Types))
		}
		if resp.Types[0].Name != "Invoice" || resp.Types[0].Description == "" {
			t.Errorf("first type = %+v", resp.Types[0])
		}
	})

	t.Run("list empty", func(t *testing.T) {
		var resp endpoints.ListDocumentsResponse
		getJSON(t, ts.URL+"/api/documents", http.StatusOK, &resp)
		if len(resp.Documents) != 0 {
			t.Errorf("documents = %d, want 0", len(resp.Documents))
		}
	})

	var docID string
	t.Run("analyze", func(t *testing.T) {
		resp := uploadFile(t, ts.URL+"/api/documents/analyze", "invoice.txt",
			[]byte("INVOICE #42\nVendor: Acme Corp\nTotal due: $512.50 by 2024-05-01"))
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			t.Fatalf("status = %d (body %s)", resp.StatusCode, body)
		}

		var result struct {
			ID             string                     `json:"id"`
			Classification types.ClassificationResult `json:"classification"`
			Metadata       types.InvoiceMetadata      `json:"metadata"`
			Actions        []types.Action             `json:"actions"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			t.Fatalf("decode: %v", err)
		}

		if result.ID == "" {
			t.Error("empty document ID")
		}
		if result.Classification.Type != types.DocTypeInvoice {
			t.Errorf("Type = %s", result.Classification.Type)
		}
		if result.Metadata.Vendor == nil || *result.Metadata.Vendor != "Acme Corp" {
			t.Errorf("Vendor = %v", result.Metadata.Vendor)
		}
		// due date present, so both invoice actions fire
		if len(result.Actions) != 2 {
			t.Fatalf("actions = %+v", result.Actions)
		}
		if result.Actions[0].Type != "talk_to_finance_team" || result.Actions[1].Type != "payment_due" {
			t.Errorf("action types = %s, %s", result.Actions[0].Type, result.Actions[1].Type)
		}
		docID = result.ID
	})

	t.Run("get document", func(t *testing.T) {
		var result endpoints.DocumentResponse
		getJSON(t, ts.URL+"/api/documents/"+docID, http.StatusOK, &result)
		if result.ID != docID {
			t.Errorf("ID = %s", result.ID)
		}
	})

	t.Run("get missing document", func(t *testing.T) {
		getJSON(t, ts.URL+"/api/documents/not-a-real-id", http.StatusNotFound, nil)
	})

	t.Run("list after analyze", func(t *testing.T) {
		var resp endpoints.ListDocumentsResponse
		getJSON(t, ts.URL+"/api/documents", http.StatusOK, &resp)
		if len(resp.Documents) != 1 {
			t.Fatalf("documents = %d, want 1", len(resp.Documents))
		}
		if resp.Documents[0].Type != types.DocTypeInvoice {
			t.Errorf("Type = %s", resp.Documents[0].Type)
		}
	})

	t.Run("actions with priority filter", func(t *testing.T) {
		var resp endpoints.ActionsResponse
		getJSON(t, ts.URL+"/api/documents/"+docID+"/actions", http.StatusOK, &resp)
		if len(resp.Actions) != 2 {
			t.Fatalf("actions = %d, want 2", len(resp.Actions))
		}

		getJSON(t, ts.URL+"/api/documents/"+docID+"/actions?priority=high", http.StatusOK, &resp)
		if len(resp.Actions) != 1 || resp.Actions[0].Type != "payment_due" {
			t.Errorf("high actions = %+v", resp.Actions)
		}

		// Filter matching is exact, not case-folded.
		getJSON(t, ts.URL+"/api/documents/"+docID+"/actions?priority=HIGH", http.StatusOK, &resp)
		if len(resp.Actions) != 0 {
			t.Errorf("HIGH actions = %+v", resp.Actions)
		}
	})

	t.Run("usage", func(t *testing.T) {
		var resp endpoints.UsageResponse
		getJSON(t, ts.URL+"/api/usage", http.StatusOK, &resp)
		// Two oracle calls happened (classify + extract).
		if resp.InputTokens != 2*mock.PromptTokens {
			t.Errorf("InputTokens = %d", resp.InputTokens)
		}
		if resp.EstimatedCost <= 0 {
			t.Error("EstimatedCost not positive")
		}
	})

	t.Run("analyze without file", func(t *testing.T) {
		resp, err := http.Post(ts.URL+"/api/documents/analyze", "application/json", bytes.NewReader([]byte("{}")))
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})
}

func TestServer_AnalyzeOracleFailure(t *testing.T) {
	mock := providers.NewMockClient()
	mock.Candidates = nil // classification gets no logprob structure
	_, ts := newTestServer(t, mock)

	resp := uploadFile(t, ts.URL+"/api/documents/analyze", "doc.txt", []byte("some text"))
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", resp.StatusCode)
	}
	var errResp endpoints.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if errResp.Error == "" {
		t.Error("empty error message")
	}
}

func TestServer_RequiresClient(t *testing.T) {
	_, err := New(Config{})
	if err == nil {
		t.Error("New() without client or config should fail")
	}
}

func TestServer_Lifecycle(t *testing.T) {
	srv, err := New(Config{
		Client: providers.NewMockClient(),
		Port:   18090,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start(ctx)
	}()

	// Wait for the listener to come up.
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get("http://" + srv.Addr() + "/health")
		if err == nil {
			resp.Body.Close()
			break
		}
		time.Sleep(50 * time.Millisecond)
	}

	if !srv.IsRunning() {
		t.Error("IsRunning() = false while serving")
	}

	// Second Start must refuse.
	if err := srv.Start(ctx); err == nil {
		t.Error("second Start() should return error")
	}

	cancel()
	select {
	case err := <-serverErr:
		if err != nil {
			t.Errorf("Start() returned error on shutdown: %v", err)
		}
	case <-time.After(40 * time.Second):
		t.Fatal("server did not shut down")
	}

	if srv.IsRunning() {
		t.Error("IsRunning() = true after shutdown")
	}
}
