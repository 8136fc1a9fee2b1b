package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/ironsheep/ocr-keyword-mcp/internal/imaging"
	"github.com/ironsheep/ocr-keyword-mcp/internal/intake"
	"github.com/ironsheep/ocr-keyword-mcp/internal/ocr"
	"github.com/ironsheep/ocr-keyword-mcp/internal/view"
)

// maxRequestBytes bounds a single request line. Inline images arrive base64
// encoded, so lines can be large.
const maxRequestBytes = 64 << 20

// Server handles MCP protocol communication
type Server struct {
	controller *intake.Controller
	gallery    *imaging.Gallery
	engineInfo func() ocr.Info
	logger     *slog.Logger
	version    string

	in  io.Reader
	out io.Writer

	schemas map[string]*jsonschema.Schema

	// mu serializes writes to out; responses and surface notifications
	// share the stream.
	mu      sync.Mutex
	encoder *json.Encoder
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// MCPNotification represents an outgoing notification (no ID)
type MCPNotification struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server's logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithIO replaces stdin and stdout.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(s *Server) {
		s.in = in
		s.out = out
	}
}

// WithVersion sets the version reported in serverInfo.
func WithVersion(v string) Option {
	return func(s *Server) {
		if v != "" {
			s.version = v
		}
	}
}

// WithEngineInfo sets the function backing the ocr_info tool.
func WithEngineInfo(fn func() ocr.Info) Option {
	return func(s *Server) {
		s.engineInfo = fn
	}
}

// New creates a new MCP server instance driving controller. gallery must be
// the gallery the controller's previews are inserted into.
func New(controller *intake.Controller, gallery *imaging.Gallery, opts ...Option) (*Server, error) {
	s := &Server{
		controller: controller,
		gallery:    gallery,
		logger:     slog.Default(),
		version:    "0.1.0",
		in:         os.Stdin,
		out:        os.Stdout,
	}
	for _, o := range opts {
		o(s)
	}
	s.encoder = json.NewEncoder(s.out)

	schemas, err := compileSchemas(GetToolDefinitions())
	if err != nil {
		return nil, err
	}
	s.schemas = schemas

	controller.Surface().Subscribe(s.notifySurface)
	return s, nil
}

// Run reads requests until in is exhausted or ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, maxRequestBytes)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.logger.Warn("failed to parse request", "error", err)
			s.write(s.errorResponse(nil, -32700, "Parse error", err.Error()))
			continue
		}

		resp := s.handleRequest(ctx, &req)
		if resp != nil {
			s.write(resp)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}

	return nil
}

func (s *Server) write(v interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.encoder.Encode(v); err != nil {
		s.logger.Error("failed to encode message", "error", err)
	}
}

// notifySurface forwards surface changes to the client as log messages.
func (s *Server) notifySurface(e view.Event) {
	s.write(&MCPNotification{
		JSONRPC: "2.0",
		Method:  "notifications/message",
		Params: map[string]interface{}{
			"level":  "info",
			"logger": "surface",
			"data":   e,
		},
	})
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(ctx context.Context, req *MCPRequest) *MCPResponse {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(ctx, req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &MCPError{
				Code:    -32601,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

// handleInitialize responds to the initialize request
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools":   map[string]interface{}{},
				"logging": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    "ocr-keyword-mcp",
				"version": s.version,
			},
		},
	}
}

