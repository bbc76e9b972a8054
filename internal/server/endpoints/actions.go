package endpoints

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/factify-ai/factify/internal/actions"
	"github.com/factify-ai/factify/internal/api"
	"github.com/factify-ai/factify/internal/svcctx"
	"github.com/factify-ai/factify/internal/types"
)

// ActionsResponse lists the actions derived for a document.
type ActionsResponse struct {
	DocumentID string         `json:"document_id"`
	Actions    []types.Action `json:"actions"`
}

// DocumentActionsEndpoint handles GET /api/documents/{id}/actions.
// Actions are derived on read from the stored classification and metadata;
// an optional ?priority= query filters by exact priority value.
type DocumentActionsEndpoint struct{}

func (e *DocumentActionsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/documents/{id}/actions", e.handler
}

func (e *DocumentActionsEndpoint) RequiresPipeline() bool { return false }

// handler godoc
//
//	@Summary		List actions for a document
//	@Description	Derive follow-up actions from the stored analysis, optionally filtered by priority
//	@Tags			documents
//	@Produce		json
//	@Param			id			path		string	true	"Document ID"
//	@Param			priority	query		string	false	"Exact priority filter (low, medium, high)"
//	@Success		200			{object}	ActionsResponse
//	@Failure		404			{object}	ErrorResponse
//	@Router			/api/documents/{id}/actions [get]
func (e *DocumentActionsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
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

	derived := actions.Derive(entry.Classification.Type, entry.Metadata)
	derived = actions.Filter(derived, r.URL.Query().Get("priority"))

	writeJSON(w, http.StatusOK, ActionsResponse{
		DocumentID: entry.ID,
		Actions:    derived,
	})
}

func (e *DocumentActionsEndpoint) Command(getServerURL func() string) *cobra.Command {
	var priority string
	cmd := &cobra.Command{
		Use:   "actions <document-id>",
		Short: "List actions derived for a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client := api.NewClient(getServerURL())

			path := "/api/documents/" + args[0] + "/actions"
			if priority != "" {
				path += "?priority=" + priority
			}

			var resp ActionsResponse
			if err := client.Get(ctx, path, &resp); err != nil {
				return err
			}

			if len(resp.Actions) == 0 {
				fmt.Println("No actions")
				return nil
			}
			for _, a := range resp.Actions {
				line := fmt.Sprintf("[%s] %s: %s", a.Priority, a.Type, a.Description)
				if a.Deadline != nil {
					line += fmt.Sprintf(" (deadline %s)", *a.Deadline)
				}
				fmt.Println(line)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&priority, "priority", "", "Exact priority filter (low, medium, high)")
	return cmd
}
