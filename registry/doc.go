// Package registry is the explicit table of remote-callable operations.
//
// Tools are registered with a handler over a plain argument map. Resources
// are registered either at a fixed URI or as an RFC 6570 template with a
// reader. Neither kind knows anything about JSON-RPC or HTTP.
//
// Two ways to serve a Registry:
//   - Mount binds everything into a modelcontextprotocol/go-sdk server, which
//     then owns the protocol and the transport.
//   - HandleRequest is a small JSON-RPC dispatcher for initialize, ping,
//     tools/list, tools/call, resources/list, resources/templates/list and
//     resources/read. ServeStream, ServeHTTP and ServeSSE put it on a
//     wire.
//
// Example:
//
//	reg := registry.New(registry.Config{
//	    ServerInfo: registry.ServerInfo{Name: "DocumentMCP", Version: "1.0.0"},
//	})
//
//	_ = reg.RegisterFunc("read_doc_contents", "Read a document",
//	    map[string]any{"type": "object"},
//	    func(ctx context.Context, args map[string]any) (any, error) {
//	        return st.Get(args["doc_id"].(string))
//	    },
//	    registry.WithTags("documents"),
//	)
//
//	server := mcp.NewServer(&mcp.Implementation{Name: "DocumentMCP"}, nil)
//	if err := reg.Mount(server); err != nil {
//	    log.Fatal(err)
//	}
package registry
