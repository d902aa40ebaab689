// Package mcpserver exposes a session.Session to Model Context Protocol
// clients.
package mcpserver

import (
	"context"
	"log/slog"

	"github.com/ltrel/liasp/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server serves evaluation tools backed by a single session.
type Server struct {
	sess   *session.Session
	mcp    *server.MCPServer
	logger *slog.Logger
}

// New returns a Server named liasp reporting version.
func New(sess *session.Session, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		sess:   sess,
		logger: logger,
		mcp: server.NewMCPServer(
			"liasp",
			version,
			server.WithToolCapabilities(false),
		),
	}
	s.mcp.AddTool(
		mcp.NewTool("liasp_eval",
			mcp.WithDescription("Evaluate liasp expressions in the session. Returns the value of each expression, one per line."),
			mcp.WithString("expr",
				mcp.Required(),
				mcp.Description("Source to evaluate, e.g. (+ (* 2 3) 1)"),
			),
		),
		s.handleEval,
	)
	s.mcp.AddTool(
		mcp.NewTool("liasp_reset",
			mcp.WithDescription("Discard every definition made in the session."),
		),
		s.handleReset,
	)
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// ServeStdio serves requests on standard input and output until input ends.
func (s *Server) ServeStdio() error {
	s.logger.Info("serving mcp on stdio", slog.String("session", s.sess.ID()))
	return server.ServeStdio(s.mcp)
}

func (s *Server) handleEval(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	expr, err := request.RequireString("expr")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	vs, err := s.sess.Eval(ctx, expr)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(session.FormatResults(vs)), nil
}

func (s *Server) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.sess.Reset(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("ok"), nil
}
