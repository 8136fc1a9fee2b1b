// Package server implements the MCP (Model Context Protocol) server for OCR
// keyword scanning.
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses and notifications on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - keywords_set: Set the keyword list, as when the keyword input loses focus
//   - scan_files: Submit a batch of images for preview, OCR and keyword matching
//   - scan_state: Read the page state and, optionally, one batch's result
//   - gallery_thumbnail: Fetch one gallery entry's thumbnail
//   - gallery_clear: Empty the gallery
//   - ocr_info: Report engine version and queue depth
//
// Tool arguments are validated against each tool's input schema before the
// tool runs.
//
// # Notifications
//
// Every change to the page state (processing and error indicators, keyword
// input enabled, status line, gallery, matches) is pushed to the client as a
// notifications/message with logger "surface". Responses and notifications
// share stdout and are written one message at a time.
//
// # Error Handling
//
//   - -32700: the request line is not JSON
//   - -32601: unknown method
//   - -32602: malformed params or arguments that fail schema validation
//   - -32000: the tool ran and failed
//
// A batch that fails is not a tool error: scan_files returns the batch result
// with success=false and per-file errors.
package server
