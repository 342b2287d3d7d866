package registry

import (
	"context"
	"fmt"
	"net/url"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/yosida95/uritemplate/v3"
	"go.uber.org/zap"
)

// ResourceReader returns the text at uri. vars holds the variables matched
// from a resource template and is empty for static resources.
type ResourceReader func(ctx context.Context, uri string, vars map[string]string) (string, error)

// ResourceContent is the body of one resource read.
type ResourceContent struct {
	URI      string `json:"uri"`
	MIMEType string `json:"mimeType,omitempty"`
	Text     string `json:"text"`
}

type registeredResource struct {
	resource mcp.Resource
	read     ResourceReader
}

type registeredTemplate struct {
	template mcp.ResourceTemplate
	pattern  *uritemplate.Template
	read     ResourceReader
}

// RegisterResource adds a resource with a fixed, absolute URI.
func (r *Registry) RegisterResource(res mcp.Resource, read ResourceReader) error {
	if read == nil {
		return fmt.Errorf("%w: nil reader for %s", ErrInvalidRequest, res.URI)
	}
	u, err := url.Parse(res.URI)
	if err != nil || u.Scheme == "" {
		return fmt.Errorf("%w: resource uri %q must be absolute", ErrInvalidRequest, res.URI)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.resources[res.URI]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateResource, res.URI)
	}
	r.resources[res.URI] = registeredResource{resource: res, read: read}
	return nil
}

// RegisterResourceTemplate adds an RFC 6570 resource template. Reads of any
// URI matching the template go to read with the matched variables.
func (r *Registry) RegisterResourceTemplate(tmpl mcp.ResourceTemplate, read ResourceReader) error {
	if read == nil {
		return fmt.Errorf("%w: nil reader for %s", ErrInvalidRequest, tmpl.URITemplate)
	}
	pattern, err := uritemplate.New(tmpl.URITemplate)
	if err != nil {
		return fmt.Errorf("%w: uri template %q: %v", ErrInvalidRequest, tmpl.URITemplate, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.templates[tmpl.URITemplate]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateResource, tmpl.URITemplate)
	}
	r.templates[tmpl.URITemplate] = registeredTemplate{template: tmpl, pattern: pattern, read: read}
	return nil
}

// ListResources returns the static resources ordered by URI.
func (r *Registry) ListResources(ctx context.Context) []mcp.Resource {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]mcp.Resource, 0, len(r.resources))
	for _, uri := range sortedKeys(r.resources) {
		out = append(out, r.resources[uri].resource)
	}
	return out
}

// ListResourceTemplates returns the resource templates ordered by template.
func (r *Registry) ListResourceTemplates(ctx context.Context) []mcp.ResourceTemplate {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]mcp.ResourceTemplate, 0, len(r.templates))
	for _, key := range sortedKeys(r.templates) {
		out = append(out, r.templates[key].template)
	}
	return out
}

// ReadResource reads uri. Static resources win over templates; among
// templates the first match in template order is used. A URI nothing
// matches fails with ErrResourceNotFound, and readers report missing
// entries the same way.
func (r *Registry) ReadResource(ctx context.Context, uri string) (ResourceContent, error) {
	read, vars, mimeType, ok := r.lookupResource(uri)
	if !ok {
		return ResourceContent{}, fmt.Errorf("%w: %s", ErrResourceNotFound, uri)
	}

	r.reads.Add(1)
	text, err := read(ctx, uri, vars)
	if err != nil {
		r.logger.Debug("resource read failed", zap.String("uri", uri), zap.Error(err))
		return ResourceContent{}, err
	}
	return ResourceContent{URI: uri, MIMEType: mimeType, Text: text}, nil
}

func (r *Registry) lookupResource(uri string) (ResourceReader, map[string]string, string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if res, ok := r.resources[uri]; ok {
		return res.read, map[string]string{}, res.resource.MIMEType, true
	}

	for _, key := range sortedKeys(r.templates) {
		tmpl := r.templates[key]
		values := tmpl.pattern.Match(uri)
		if values == nil {
			continue
		}
		vars := make(map[string]string, len(values))
		for name, v := range values {
			vars[name] = v.String()
		}
		return tmpl.read, vars, tmpl.template.MIMEType, true
	}
	return nil, nil, "", false
}
