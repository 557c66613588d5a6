package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/a3tai/project-alpha/internal/config"
	"github.com/a3tai/project-alpha/internal/formatters"
	"github.com/a3tai/project-alpha/internal/pdf"
	"github.com/a3tai/project-alpha/internal/scan"
	"github.com/a3tai/project-alpha/internal/security"
	"github.com/a3tai/project-alpha/internal/source"
)

const shutdownTimeout = 5 * time.Second

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	paths     *security.PathValidator
	mcpServer *server.MCPServer

	// stdio streams, replaced in tests
	stdin  io.Reader
	stdout io.Writer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	paths, err := security.NewPathValidator(cfg.Directory)
	if err != nil {
		return nil, err
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		config:    cfg,
		paths:     paths,
		mcpServer: mcpServer,
		stdin:     os.Stdin,
		stdout:    os.Stdout,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	scanDatesTool := mcp.NewTool(
		"scan_dates",
		mcp.WithDescription("Split text at day-month dates (e.g. 14-Jan) and return each date with the text that follows it. "+
			"The last date in the text has no description and is dropped."),
		mcp.WithString("text",
			mcp.Description("Text to scan; takes priority over path"),
		),
		mcp.WithString("path",
			mcp.Description("Plain text file inside the configured directory"),
		),
		mcp.WithBoolean("pretty",
			mcp.Description("Indent the JSON result by four spaces"),
		),
		mcp.WithBoolean("pairs",
			mcp.Description("Return an ordered [date, description] list that keeps repeated dates"),
		),
	)
	s.mcpServer.AddTool(scanDatesTool, s.handleScanDates)

	scanTimesTool := mcp.NewTool(
		"scan_times",
		mcp.WithDescription("Find H:MM and HH:MM times, including overlapping matches, with their character offsets"),
		mcp.WithString("text",
			mcp.Description("Text to scan; takes priority over path"),
		),
		mcp.WithString("path",
			mcp.Description("PDF file inside the configured directory; the first page is scanned"),
		),
	)
	s.mcpServer.AddTool(scanTimesTool, s.handleScanTimes)

	extractPagesTool := mcp.NewTool(
		"extract_pages",
		mcp.WithDescription("Extract ASCII page text from a PDF. The last page is skipped unless include_last_page is set."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("PDF file inside the configured directory"),
		),
		mcp.WithBoolean("include_last_page",
			mcp.Description("Extract every page"),
			mcp.DefaultBool(false),
		),
	)
	s.mcpServer.AddTool(extractPagesTool, s.handleExtractPages)
}

func (s *Server) reader(includeLastPage bool) *pdf.Reader {
	policy := pdf.SkipLastPage
	if includeLastPage || s.config.IncludeLastPage {
		policy = pdf.AllPages
	}
	return pdf.NewReader(s.config.MaxFileSize, policy)
}

// loadText resolves the text/path arguments the same way the CLI resolves -text and a document
func (s *Server) loadText(request mcp.CallToolRequest, fileType string) (*source.Text, error) {
	text := request.GetString("text", "")
	path := request.GetString("path", "")

	if text == "" && path == "" {
		return nil, errors.New("either text or path is required")
	}

	req := source.Request{Text: text, FileType: fileType}
	if text == "" {
		resolved, err := s.paths.ValidateFile(path)
		if err != nil {
			return nil, err
		}
		req.Path = resolved
	}

	return source.Load(req, s.reader(false))
}

func (s *Server) handleScanDates(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	src, err := s.loadText(request, source.FileTypeTxt)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	report := &formatters.Report{Kind: formatters.KindDates, Pairs: scan.SegmentDates(src.Body)}
	return s.render(report, formatters.Options{
		Pretty: request.GetBool("pretty", false),
		Pairs:  request.GetBool("pairs", false),
	})
}

func (s *Server) handleScanTimes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	src, err := s.loadText(request, source.FileTypePDF)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	report := &formatters.Report{Kind: formatters.KindTimes, Times: scan.CollectTimes(src.Body)}
	return s.render(report, formatters.Options{})
}

func (s *Server) handleExtractPages(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resolved, err := s.paths.ValidateFile(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	doc, err := s.reader(request.GetBool("include_last_page", false)).ReadFile(resolved)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return s.render(&formatters.Report{Kind: formatters.KindPages, Document: doc}, formatters.Options{})
}

func (s *Server) render(report *formatters.Report, options formatters.Options) (*mcp.CallToolResult, error) {
	out, err := formatters.NewJSONFormatter().Format(report, options)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(out), nil
}

// Run starts the MCP server in the configured mode and blocks until ctx is done
func (s *Server) Run(ctx context.Context) error {
	switch {
	case s.config.IsServerMode():
		return s.runServerMode(ctx)
	case s.config.IsStdioMode():
		return s.runStdioMode(ctx)
	default:
		return fmt.Errorf("mode %q does not serve MCP", s.config.Mode)
	}
}

// runStdioMode serves JSON-RPC over the stdio streams
func (s *Server) runStdioMode(ctx context.Context) error {
	logrus.WithField("dir", s.paths.Directory()).Debug("starting MCP server in stdio mode")

	stdio := server.NewStdioServer(s.mcpServer)
	stdio.SetErrorLogger(log.New(logrus.StandardLogger().WriterLevel(logrus.ErrorLevel), "", 0))

	err := stdio.Listen(ctx, s.stdin, s.stdout)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode serves the SSE transport until ctx is cancelled
func (s *Server) runServerMode(ctx context.Context) error {
	addr := s.config.Address()
	httpServer := &http.Server{Addr: addr, ReadHeaderTimeout: 10 * time.Second}
	sse := server.NewSSEServer(s.mcpServer,
		server.WithHTTPServer(httpServer),
		server.WithBaseURL("http://"+addr),
	)
	httpServer.Handler = sse

	logrus.WithFields(logrus.Fields{
		"addr": addr,
		"dir":  s.paths.Directory(),
	}).Info("starting MCP server in SSE mode")

	errCh := make(chan error, 1)
	go func() {
		errCh <- sse.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve SSE: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := sse.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down SSE server: %w", err)
	}
	logrus.Info("MCP server stopped")
	return nil
}
