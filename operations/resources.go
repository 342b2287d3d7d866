package operations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jonwraymond/docmcp/registry"
	"github.com/jonwraymond/docmcp/store"
)

// Resource URIs.
const (
	DocumentsURI        = "docs://documents"
	DocumentTemplateURI = "docs://documents/{doc_id}"
)

// DocumentURI returns the resource URI of one document.
func DocumentURI(docID string) string {
	return DocumentsURI + "/" + url.PathEscape(docID)
}

func (s *Service) registerResources(reg *registry.Registry) error {
	if err := reg.RegisterResource(mcp.Resource{
		URI:         DocumentsURI,
		Name:        "documents",
		Description: "Ids of every document, as a JSON array.",
		MIMEType:    "application/json",
	}, s.readDocumentList); err != nil {
		return err
	}

	return reg.RegisterResourceTemplate(mcp.ResourceTemplate{
		URITemplate: DocumentTemplateURI,
		Name:        "document",
		Description: "Contents of a single document.",
		MIMEType:    "text/plain",
	}, s.readDocument)
}

func (s *Service) readDocumentList(ctx context.Context, _ string, _ map[string]string) (string, error) {
	data, err := json.Marshal(s.List(ctx))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (s *Service) readDocument(ctx context.Context, uri string, vars map[string]string) (string, error) {
	content, err := s.Read(ctx, vars["doc_id"])
	if errors.Is(err, store.ErrNotFound) {
		return "", fmt.Errorf("%w: %w", registry.ErrResourceNotFound, err)
	}
	return content, err
}
