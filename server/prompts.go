package server

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jonwraymond/docmcp/operations"
)

// Prompt names.
const (
	PromptFormat    = "format"
	PromptSummarize = "summarize"
)

func (s *Server) addPrompts() {
	docArg := []*mcp.PromptArgument{{
		Name:        "doc_id",
		Description: "Id of the document",
		Required:    true,
	}}

	s.mcp.AddPrompt(&mcp.Prompt{
		Name:        PromptFormat,
		Description: "Rewrites the contents of a document in Markdown format.",
		Arguments:   docArg,
	}, s.formatPrompt)

	s.mcp.AddPrompt(&mcp.Prompt{
		Name:        PromptSummarize,
		Description: "Summarizes the contents of a document.",
		Arguments:   docArg,
	}, s.summarizePrompt)
}

func (s *Server) formatPrompt(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	docID, content, err := s.promptDocument(ctx, req)
	if err != nil {
		return nil, err
	}

	text := fmt.Sprintf(`Your goal is to reformat a document to be written with markdown syntax.

The id of the document you need to reformat is:
<document_id>
%s
</document_id>

Its current contents are:
<document>
%s
</document>

Add in headers, bullet points, tables, etc as necessary. Feel free to add in extra text, but don't change the meaning of the report.
Use the '%s' tool to save the reformatted document.`, docID, content, operations.ToolEdit)

	return promptResult("Reformat "+docID+" as Markdown", text), nil
}

func (s *Server) summarizePrompt(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	docID, content, err := s.promptDocument(ctx, req)
	if err != nil {
		return nil, err
	}

	text := fmt.Sprintf(`Your goal is to summarize the contents of a document.

<document id=%q>
%s
</document>

Write a concise summary of the document. Keep the key facts and figures and leave out anything else.`, docID, content)

	return promptResult("Summarize "+docID, text), nil
}

// promptDocument resolves the doc_id argument exactly as given, like the
// tools do. Unknown ids come back wrapping store.ErrNotFound.
func (s *Server) promptDocument(ctx context.Context, req *mcp.GetPromptRequest) (string, string, error) {
	var name, docID string
	if req.Params != nil {
		name = req.Params.Name
		docID = req.Params.Arguments["doc_id"]
	}
	if docID == "" {
		return "", "", fmt.Errorf("prompt %s: missing doc_id", name)
	}

	content, err := s.svc.Read(ctx, docID)
	if err != nil {
		return "", "", fmt.Errorf("prompt %s: %w", name, err)
	}
	return docID, content, nil
}

func promptResult(description, text string) *mcp.GetPromptResult {
	return &mcp.GetPromptResult{
		Description: description,
		Messages: []*mcp.PromptMessage{{
			Role:    "user",
			Content: &mcp.TextContent{Text: text},
		}},
	}
}
