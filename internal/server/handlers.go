package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ironsheep/ocr-keyword-mcp/internal/imaging"
	"github.com/ironsheep/ocr-keyword-mcp/internal/intake"
	"github.com/ironsheep/ocr-keyword-mcp/internal/view"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "scan_files", "keywords_set").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Arguments that do not match the tool's input schema return -32602. Tool
// execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	if _, ok := s.schemas[params.Name]; ok {
		if err := s.validateArgs(params.Name, params.Arguments); err != nil {
			return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
		}
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn("tool failed", "tool", params.Name, "error", err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
// Arguments have already been validated against the tool's schema.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "keywords_set":
		return s.handleKeywordsSet(args)

	case "scan_files":
		return s.handleScanFiles(ctx, args)
	case "scan_state":
		return s.handleScanState(args)

	case "gallery_thumbnail":
		return s.handleGalleryThumbnail(args)
	case "gallery_clear":
		return s.handleGalleryClear()

	case "ocr_info":
		return s.handleOCRInfo()

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// unmarshalArgs decodes args into v, treating missing arguments as {}.
func unmarshalArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	return json.Unmarshal(args, v)
}

// === Keyword Handlers ===

type keywordsSetArgs struct {
	Value string `json:"value"`
}

type keywordsSetResult struct {
	Value   string   `json:"value"`
	Pattern string   `json:"pattern"`
	Tokens  []string `json:"tokens"`
}

func (s *Server) handleKeywordsSet(args json.RawMessage) (interface{}, error) {
	var a keywordsSetArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}

	p, err := s.controller.BlurKeywords(a.Value)
	if err != nil {
		return nil, fmt.Errorf("%w (previous pattern %q still active)", err, p.String())
	}
	return &keywordsSetResult{
		Value:   a.Value,
		Pattern: p.String(),
		Tokens:  p.Tokens(),
	}, nil
}

// === Batch Handlers ===

type scanFile struct {
	Path       string `json:"path,omitempty"`
	Name       string `json:"name,omitempty"`
	MediaType  string `json:"media_type,omitempty"`
	DataBase64 string `json:"data_base64,omitempty"`
}

type scanFilesArgs struct {
	Files []scanFile `json:"files"`
	Wait  *bool      `json:"wait"`
}

// fileResult is the wire form of intake.FileResult.
type fileResult struct {
	Index      int      `json:"index"`
	Name       string   `json:"name"`
	EntryID    string   `json:"entry_id,omitempty"`
	Recognized bool     `json:"recognized"`
	Matches    []string `json:"matches"`
	Error      string   `json:"error,omitempty"`
}

// batchResult is the wire form of intake.BatchResult.
type batchResult struct {
	BatchID    string       `json:"batch_id"`
	Running    bool         `json:"running"`
	Skipped    bool         `json:"skipped,omitempty"`
	Success    bool         `json:"success"`
	QueueLen   int          `json:"queue_len"`
	Matches    []string     `json:"matches"`
	Files      []fileResult `json:"files,omitempty"`
	Error      string       `json:"error,omitempty"`
	DurationMs int64        `json:"duration_ms,omitempty"`
}

func newBatchResult(res intake.BatchResult, running bool) *batchResult {
	out := &batchResult{
		BatchID:  res.ID,
		Running:  running,
		Skipped:  res.Skipped,
		Success:  res.Success,
		QueueLen: res.QueueLen,
		Matches:  res.Matches(),
	}
	if out.Matches == nil {
		out.Matches = []string{}
	}
	if running {
		return out
	}

	for _, f := range res.Files {
		fr := fileResult{
			Index:      f.Index,
			Name:       f.Name,
			EntryID:    f.EntryID,
			Recognized: f.Recognized(),
			Matches:    f.Matches,
		}
		if fr.Matches == nil {
			fr.Matches = []string{}
		}
		if err := f.Err(); err != nil {
			fr.Error = err.Error()
		}
		out.Files = append(out.Files, fr)
	}
	if err := res.Err(); err != nil {
		out.Error = err.Error()
	} else if !res.Success && !res.Skipped {
		out.Error = fmt.Sprintf("%s: %d job(s) waiting", intake.ErrQueueNotEmpty, res.QueueLen)
	}
	if !res.Finished.IsZero() {
		out.DurationMs = res.Finished.Sub(res.Started).Milliseconds()
	}
	return out
}

// fileHandles converts tool arguments into file handles. Inline data that is
// not valid base64 is an argument error; it never reaches the batch.
func fileHandles(files []scanFile) ([]imaging.FileHandle, error) {
	out := make([]imaging.FileHandle, 0, len(files))
	for i, f := range files {
		if f.Path != "" {
			out = append(out, imaging.NewPathFile(f.Path))
			continue
		}
		data, err := base64.StdEncoding.DecodeString(f.DataBase64)
		if err != nil {
			return nil, fmt.Errorf("file %d (%s): invalid base64: %w", i, f.Name, err)
		}
		out = append(out, &imaging.BytesFile{FileName: f.Name, Type: f.MediaType, Data: data})
	}
	return out, nil
}

func (s *Server) handleScanFiles(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a scanFilesArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	files, err := fileHandles(a.Files)
	if err != nil {
		return nil, err
	}

	if a.Wait != nil && !*a.Wait {
		// The batch outlives this request.
		id := s.controller.Start(context.WithoutCancel(ctx), files)
		res, running, _ := s.controller.Batch(id)
		return newBatchResult(res, running), nil
	}

	res := s.controller.RunBatch(ctx, files)
	return newBatchResult(res, false), nil
}

type scanStateArgs struct {
	BatchID           string `json:"batch_id"`
	IncludeThumbnails bool   `json:"include_thumbnails"`
}

type galleryItem struct {
	view.GalleryItem
	Thumbnail string `json:"thumbnail,omitempty"`
}

type scanStateResult struct {
	Processing    bool          `json:"processing"`
	Error         bool          `json:"error"`
	Classes       []string      `json:"classes"`
	InputDisabled bool          `json:"input_disabled"`
	Status        string        `json:"status"`
	Keywords      string        `json:"keywords"`
	Pattern       string        `json:"pattern,omitempty"`
	Gallery       []galleryItem `json:"gallery"`
	Matches       []string      `json:"matches"`
	Batch         *batchResult  `json:"batch,omitempty"`
}

func (s *Server) handleScanState(args json.RawMessage) (interface{}, error) {
	var a scanStateArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}

	snap := s.controller.Surface().Snapshot()
	out := &scanStateResult{
		Processing:    snap.HasClass(view.ClassProcessing),
		Error:         snap.HasClass(view.ClassError),
		Classes:       snap.Classes,
		InputDisabled: snap.InputDisabled,
		Status:        snap.Status,
		Keywords:      s.controller.Keywords().Value(),
		Pattern:       s.controller.Keywords().Pattern().String(),
		Gallery:       make([]galleryItem, 0, len(snap.Gallery)),
		Matches:       snap.Matches,
	}

	for _, item := range snap.Gallery {
		gi := galleryItem{GalleryItem: item}
		if a.IncludeThumbnails {
			// Entries cleared since the snapshot are listed without a thumbnail.
			if e, err := s.gallery.Get(item.ID); err == nil {
				thumb, err := imaging.EncodeThumbnail(e)
				if err != nil {
					return nil, err
				}
				gi.Thumbnail = thumb.DataURL()
			}
		}
		out.Gallery = append(out.Gallery, gi)
	}

	if a.BatchID != "" {
		res, running, ok := s.controller.Batch(a.BatchID)
		if !ok {
			return nil, fmt.Errorf("batch not found: %s", a.BatchID)
		}
		out.Batch = newBatchResult(res, running)
	}
	return out, nil
}

// === Gallery Handlers ===

type galleryThumbnailArgs struct {
	ID string `json:"id"`
}

func (s *Server) handleGalleryThumbnail(args json.RawMessage) (interface{}, error) {
	var a galleryThumbnailArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	e, err := s.gallery.Get(a.ID)
	if err != nil {
		return nil, err
	}
	return imaging.EncodeThumbnail(e)
}

func (s *Server) handleGalleryClear() (interface{}, error) {
	n := s.gallery.Clear()
	s.controller.Surface().ClearGallery()
	return map[string]interface{}{"removed": n}, nil
}

// === Engine Handlers ===

var errNoEngineInfo = errors.New("OCR engine information not available")

func (s *Server) handleOCRInfo() (interface{}, error) {
	if s.engineInfo == nil {
		return nil, errNoEngineInfo
	}
	return s.engineInfo(), nil
}
