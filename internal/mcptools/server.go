package mcptools

import (
	"context"
	"errors"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set by the linker at build time.
var version = "dev"

// Version returns the build version reported to MCP clients.
func Version() string { return version }

// NewMCPServer creates an MCP server with the srclens tools registered.
// find_dependents and index_repository are only exposed when svc has a
// graph store.
func NewMCPServer(svc *Service) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "srclens",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "scan_dependencies",
		Description: "Extract the import dependencies of a source file. External packages are prefixed with external:, local imports are reported relative to the workspace root.",
	}, svc.ScanDependencies)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "strip_comments",
		Description: "Remove comments from source code and collapse whitespace while keeping string, template and regex literals intact.",
	}, svc.StripComments)

	if svc.HasStore() {
		mcp.AddTool(server, &mcp.Tool{
			Name:        "find_dependents",
			Description: "List the indexed files that depend on a dependency token.",
		}, svc.FindDependents)

		mcp.AddTool(server, &mcp.Tool{
			Name:        "index_repository",
			Description: "Walk a repository, scan the dependencies of every recognised source file and store them in the dependency graph.",
		}, svc.IndexRepository)
	}

	return server
}

// RunMCPServer starts an HTTP server exposing the srclens MCP tools.
func RunMCPServer(ctx context.Context, svc *Service, addr string) error {
	server := NewMCPServer(svc)

	handler := mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Shutdown gracefully when context is cancelled.
	stop := context.AfterFunc(ctx, func() {
		_ = httpServer.Shutdown(context.Background())
	})
	defer stop()

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// RunMCPServerStdio runs the MCP server on stdio transport, blocking until
// stdin is closed or the context is cancelled.
func RunMCPServerStdio(ctx context.Context, svc *Service) error {
	return NewMCPServer(svc).Run(ctx, &mcp.StdioTransport{})
}
