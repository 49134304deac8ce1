package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog/log"

	contractx "deckpilot/pipeline/contract"
	recordx "deckpilot/pipeline/record"
)

// Handlers execute tool calls against the bridge and the assembler. Every
// outcome, failure included, is reported as plain text content: the calling
// model interprets prose, not error codes.
type Handlers struct {
	store contractx.Store
	deck  contractx.Deck
}

func NewHandlers(store contractx.Store, deck contractx.Deck) *Handlers {
	return &Handlers{store: store, deck: deck}
}

func (h *Handlers) FetchData(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	records, err := h.store.Refresh(ctx)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("Could not fetch records from the source database: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Fetched %d company records into the staging cache.", len(records))), nil
}

func (h *Handlers) ExtractCompanyData(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	companyName := stringArg(req, "companyName")
	if companyName == "" {
		return mcp.NewToolResultText("companyName is required."), nil
	}

	rec, err := h.store.Lookup(companyName)
	switch {
	case errors.Is(err, contractx.ErrNotStaged):
		return mcp.NewToolResultText("The record cache is not staged yet. Run fetch-data first."), nil
	case errors.Is(err, contractx.ErrNotFound):
		return mcp.NewToolResultText(fmt.Sprintf("No company named %q was found in the staged records.", companyName)), nil
	case err != nil:
		return mcp.NewToolResultText(fmt.Sprintf("Could not read the staged records: %v", err)), nil
	}

	raw, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("Could not encode the record: %v", err)), nil
	}
	return mcp.NewToolResultText(string(raw)), nil
}

func (h *Handlers) CreatePresentation(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, ok := req.GetArguments()["data"].(map[string]any)
	if !ok || len(raw) == 0 {
		return mcp.NewToolResultText("data is required: pass the company record returned by extract-company-data."), nil
	}

	rec, err := recordx.FromArgs(raw)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("The data argument does not look like a company record: %v", err)), nil
	}
	if strings.TrimSpace(rec.CompanyName) == "" {
		return mcp.NewToolResultText("data.companyName is required."), nil
	}

	presentationID, err := h.deck.BuildDeck(ctx, rec)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("Could not build the presentation for %s: %v", rec.CompanyName, err)), nil
	}

	// Best effort: the deck exists either way, and the id is in the reply.
	if err := h.store.AttachPresentation(rec.CompanyName, presentationID); err != nil {
		log.Warn().Err(err).Str("company", rec.CompanyName).Msg("could not attach presentation id to cached record")
	}

	return mcp.NewToolResultText(fmt.Sprintf("Created a presentation for %s. %s %s", rec.CompanyName, PresentationIDLabel, presentationID)), nil
}

func (h *Handlers) AddCustomSlide(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title := stringArg(req, "slideTitle")
	content := stringArg(req, "slideContent")
	presentationID := stringArg(req, "presentationId")
	if title == "" || content == "" || presentationID == "" {
		return mcp.NewToolResultText("slideTitle, slideContent, and presentationId are all required."), nil
	}

	if err := h.deck.AppendCustomSlide(ctx, presentationID, title, content); err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("Could not add the slide to presentation %s: %v", presentationID, err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Added slide %q to presentation %s.", title, presentationID)), nil
}

// stringArg extracts a trimmed string argument; missing or mistyped values
// come back empty.
func stringArg(req mcp.CallToolRequest, key string) string {
	v, ok := req.GetArguments()[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(v)
}
