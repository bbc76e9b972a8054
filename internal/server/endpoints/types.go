package endpoints

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/factify-ai/factify/internal/api"
	"github.com/factify-ai/factify/internal/types"
)

// TypesResponse lists the supported document types.
type TypesResponse struct {
	Types []TypeInfo `json:"types"`
}

// TypeInfo describes one supported document type.
type TypeInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// TypesEndpoint handles GET /api/types.
type TypesEndpoint struct{}

func (e *TypesEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/types", e.handler
}

func (e *TypesEndpoint) RequiresPipeline() bool { return false }

// handler godoc
//
//	@Summary		List supported document types
//	@Tags			types
//	@Produce		json
//	@Success		200	{object}	TypesResponse
//	@Router			/api/types [get]
func (e *TypesEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	all := types.AllDocTypes()
	infos := make([]TypeInfo, 0, len(all))
	for _, dt := range all {
		infos = append(infos, TypeInfo{
			Name:        string(dt),
			Description: dt.Description(),
		})
	}
	writeJSON(w, http.StatusOK, TypesResponse{Types: infos})
}

func (e *TypesEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List supported document types",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client := api.NewClient(getServerURL())
			var resp TypesResponse
			if err := client.Get(ctx, "/api/types", &resp); err != nil {
				return err
			}
			for _, t := range resp.Types {
				fmt.Printf("%-9s  %s\n", t.Name, t.Description)
			}
			return nil
		},
	}
}
