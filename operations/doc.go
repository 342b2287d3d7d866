// Package operations implements the document operations exposed by docmcp:
// read, edit, list and search, plus the docs:// resources. A [Service] is
// built around an injected [store.Store] and registered into a
// [registry.Registry] with [Service.Register].
package operations
