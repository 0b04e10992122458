package mcp

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Version is the MCP server version.
const Version = "0.1.0"

// Server is the MCP server for intentmatch.
type Server struct {
	ports        *Ports
	server       *mcp.Server
	instructions string
}

// NewServer creates a new MCP server with the given ports.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	impl := &mcp.Implementation{
		Name:    "intentmatch",
		Version: Version,
	}

	s := &Server{
		ports:        ports,
		instructions: instructions(ports),
	}
	s.server = mcp.NewServer(impl, &mcp.ServerOptions{Instructions: s.instructions})

	s.registerTools()
	s.registerResources()

	return s, nil
}

// instructions tells the client how to drive match_product. The resource
// paragraph is only included when a catalog service backs the resources.
func instructions(ports *Ports) string {
	var b strings.Builder
	b.WriteString("intentmatch recommends one product from a loaded catalog for a free-text shopping query. ")
	b.WriteString("Call match_product with the user's request as query. ")
	b.WriteString("The result names the detected intent, which is one of the catalog categories, and its confidence. ")
	b.WriteString("found=false means no product in that category resembled the query; " +
		"report that rather than retrying with the same query. ")
	b.WriteString("A catalog must be loaded first with 'intentmatch catalog load <file>'.")
	if ports.Catalog != nil {
		b.WriteString("\n\nResources: " + uriScheme + "catalog summarises the loaded catalog, " +
			uriScheme + "categories lists the intents a query can resolve to, and " +
			uriScheme + "products/{productId} returns a product by the id in a match result.")
	}
	return b.String()
}

// Instructions returns the usage instructions sent to clients on initialise.
func (s *Server) Instructions() string {
	return s.instructions
}

// Run starts the MCP server over stdio.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP starts the MCP server over HTTP on the specified address.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown when context is cancelled
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background()) //nolint:errcheck
	}()

	err := httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
