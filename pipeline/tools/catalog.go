// Package tools declares the callable server operations and their input
// schemas, and binds them to the record store bridge and the slide assembler.
package tools

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	ToolFetchData          = "fetch-data"
	ToolExtractCompanyData = "extract-company-data"
	ToolCreatePresentation = "create-presentation"
	ToolAddCustomSlide     = "add-custom-slide"
)

// PresentationIDLabel prefixes the identifier in create-presentation's reply.
// Clients that need the id back out of the prose key on this label.
const PresentationIDLabel = "presentationId:"

// Declarations returns every tool advertised by the server, in a stable
// order.
func Declarations() []mcp.Tool {
	return []mcp.Tool{
		mcp.NewTool(ToolFetchData,
			mcp.WithDescription("Fetch all company records from the source database into the local staging cache. Must run before any lookup."),
		),
		mcp.NewTool(ToolExtractCompanyData,
			mcp.WithDescription("Return the staged record for one company as JSON. The match is exact but ignores case and surrounding whitespace."),
			mcp.WithString("companyName",
				mcp.Required(),
				mcp.Description("Name of the company to look up."),
			),
		),
		mcp.NewTool(ToolCreatePresentation,
			mcp.WithDescription("Create a slide deck for one company record and return the presentation identifier."),
			mcp.WithObject("data",
				mcp.Required(),
				mcp.Description("The company record, as returned by extract-company-data."),
				mcp.Properties(map[string]any{
					"companyName":      map[string]any{"type": "string"},
					"location":         map[string]any{"type": "string"},
					"foundingYear":     map[string]any{"type": "integer"},
					"revenue":          map[string]any{"type": "number"},
					"industry":         map[string]any{"type": "string"},
					"burnRate":         map[string]any{"type": "number"},
					"exitStrategy":     map[string]any{"type": "string"},
					"dealStatus":       map[string]any{"type": "string"},
					"fundingStage":     map[string]any{"type": "string"},
					"investmentAmount": map[string]any{"type": "number"},
					"investmentDate":   map[string]any{"type": "string"},
					"notes":            map[string]any{"type": "string"},
				}),
			),
		),
		mcp.NewTool(ToolAddCustomSlide,
			mcp.WithDescription("Append one free-text slide to an existing presentation."),
			mcp.WithString("slideTitle",
				mcp.Required(),
				mcp.Description("Title of the new slide."),
			),
			mcp.WithString("slideContent",
				mcp.Required(),
				mcp.Description("Body text of the new slide."),
			),
			mcp.WithString("presentationId",
				mcp.Required(),
				mcp.Description("Identifier returned by create-presentation."),
			),
		),
	}
}

// Register attaches the catalog to an MCP server.
func Register(s *server.MCPServer, h *Handlers) {
	decls := Declarations()
	s.AddTool(decls[0], h.FetchData)
	s.AddTool(decls[1], h.ExtractCompanyData)
	s.AddTool(decls[2], h.CreatePresentation)
	s.AddTool(decls[3], h.AddCustomSlide)
}
