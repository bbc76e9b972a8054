package endpoints

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/factify-ai/factify/internal/actions"
	"github.com/factify-ai/factify/internal/api"
	"github.com/factify-ai/factify/internal/svcctx"
	"github.com/factify-ai/factify/internal/types"
)

// DocumentResponse is the full analysis result for one document.
type DocumentResponse struct {
	ID             string                     `json:"id"`
	Classification types.ClassificationResult `json:"classification"`
	Metadata       types.Metadata             `json:"metadata"`
	Actions        []types.Action             `json:"actions"`
}

// AnalyzeEndpoint handles POST /api/documents/analyze.
// It accepts a multipart upload (field "file"), runs the full pipeline, and
// stores the result.
type AnalyzeEndpoint struct{}

func (e *AnalyzeEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/documents/analyze", e.handler
}

func (e *AnalyzeEndpoint) RequiresPipeline() bool { return true }

// handler godoc
//
//	@Summary		Analyze a document
//	@Description	Classify an uploaded document, extract typed metadata, and derive follow-up actions
//	@Tags			documents
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file	true	"Document to analyze (PDF or plain text)"
//	@Success		200		{object}	DocumentResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/api/documents/analyze [post]
func (e *AnalyzeEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file upload is required")
		return
	}
	defer file.Close()

	// The loader dispatches on extension, so keep it.
	tmp, err := os.CreateTemp("", "factify-upload-*"+filepath.Ext(header.Filename))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	tmp.Close()

	pipe := svcctx.PipelineFrom(r.Context())
	docStore := svcctx.StoreFrom(r.Context())
	logger := svcctx.LoggerFrom(r.Context())

	pages, err := pipe.Load(tmp.Name())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	classification, err := pipe.Classify(r.Context(), pages)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	metadata, err := pipe.ExtractMetadata(r.Context(), pages, classification.Type)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	entry := docStore.Put(classification, metadata)
	if logger != nil {
		logger.Info("document analyzed",
			"id", entry.ID,
			"file", header.Filename,
			"type", classification.Type)
	}

	writeJSON(w, http.StatusOK, DocumentResponse{
		ID:             entry.ID,
		Classification: entry.Classification,
		Metadata:       entry.Metadata,
		Actions:        actions.Derive(entry.Classification.Type, entry.Metadata),
	})
}

func (e *AnalyzeEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <file>",
		Short: "Analyze a document through the running server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client := api.NewClient(getServerURL())
			var resp map[string]any
			if err := client.PostFile(ctx, "/api/documents/analyze", args[0], &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// ListDocumentsResponse is the response for listing analyzed documents.
type ListDocumentsResponse struct {
	Documents []DocumentSummary `json:"documents"`
}

// DocumentSummary is one row in the document listing.
type DocumentSummary struct {
	ID         string        `json:"id"`
	Type       types.DocType `json:"type"`
	Confidence float64       `json:"confidence"`
}

// ListDocumentsEndpoint handles GET /api/documents.
type ListDocumentsEndpoint struct{}

func (e *ListDocumentsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/documents", e.handler
}

func (e *ListDocumentsEndpoint) RequiresPipeline() bool { return false }

// handler godoc
//
//	@Summary		List analyzed documents
//	@Tags			documents
//	@Produce		json
//	@Success		200	{object}	ListDocumentsResponse
//	@Router			/api/documents [get]
func (e *ListDocumentsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	docStore := svcctx.StoreFrom(r.Context())
	if docStore == nil {
		writeError(w, http.StatusServiceUnavailable, "document store not initialized")
		return
	}

	entries := docStore.List()
	summaries := make([]DocumentSummary, 0, len(entries))
	for _, entry := range entries {
		summaries = append(summaries, DocumentSummary{
			ID:         entry.ID,
			Type:       entry.Classification.Type,
			Confidence: entry.Classification.Confidence,
		})
	}

	writeJSON(w, http.StatusOK, ListDocumentsResponse{Documents: summaries})
}

func (e *ListDocumentsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "documents",
		Short: "List analyzed documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client := api.NewClient(getServerURL())
			var resp ListDocumentsResponse
			if err := client.Get(ctx, "/api/documents", &resp); err != nil {
				return err
			}

			if len(resp.Documents) == 0 {
				fmt.Println("No documents analyzed yet")
				return nil
			}
			for _, doc := range resp.Documents {
				fmt.Printf("%s  %-9s  %.3f\n", doc.ID, doc.Type, doc.Confidence)
			}
			return nil
		},
	}
}

// GetDocumentEndpoint handles GET /api/documents/{id}.
type GetDocumentEndpoint struct{}

func (e *GetDocumentEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/documents/{id}", e.handler
}

func (e *GetDocumentEndpoint) RequiresPipeline() bool { return false }

// handler godoc
//
//	@Summary		Get an analyzed document
//	@Tags			documents
//	@Produce		json
//	@Param			id	path		string	true	"Document ID"
//	@Success		200	{object}	DocumentResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/api/documents/{id} [get]
func (e *GetDocumentEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "document id is required")
		return
	}

	docStore := svcctx.StoreFrom(r.Context())
	if docStore == nil {
		writeError(w, http.StatusServiceUnavailable, "document store not initialized")
		return
	}

	entry, ok := docStore.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}

	writeJSON(w, http.StatusOK, DocumentResponse{
		ID:             entry.ID,
		Classification: entry.Classification,
		Metadata:       entry.Metadata,
		Actions:        actions.Derive(entry.Classification.Type, entry.Metadata),
	})
}

func (e *GetDocumentEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "document <id>",
		Short: "Get an analyzed document by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client := api.NewClient(getServerURL())
			var resp map[string]any
			if err := client.Get(ctx, "/api/documents/"+args[0], &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
