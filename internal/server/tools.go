package server

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Keyword field
		{
			Name:        "keywords_set",
			Description: "Set the comma-separated keyword list, as when the keyword input loses focus. Each keyword is matched as a whole word, case-sensitively. An invalid pattern is rejected and the previous one stays active.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"value": map[string]interface{}{
						"type":        "string",
						"description": "Raw keyword field text, e.g. \"invoice, total, due\"",
					},
				},
				"required":             []string{"value"},
				"additionalProperties": false,
			},
		},

		// Batch intake
		{
			Name:        "scan_files",
			Description: "Submit a batch of JPEG or PNG images. Each image is previewed into the gallery, recognized with OCR and searched for the current keywords. Matches replace the previous batch's matches. Any unsupported or unreadable file fails the whole batch.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"files": map[string]interface{}{
						"type":        "array",
						"description": "Files of the batch. Each is either a path on disk or inline base64 data with a media type.",
						"items": map[string]interface{}{
							"oneOf": []interface{}{
								map[string]interface{}{
									"type": "object",
									"properties": map[string]interface{}{
										"path": map[string]interface{}{
											"type":        "string",
											"description": "Absolute path to the image file; the media type is derived from the extension",
										},
									},
									"required":             []string{"path"},
									"additionalProperties": false,
								},
								map[string]interface{}{
									"type": "object",
									"properties": map[string]interface{}{
										"name": map[string]interface{}{
											"type":        "string",
											"description": "Display name of the file",
										},
										"media_type": map[string]interface{}{
											"type":        "string",
											"description": "Declared media type, e.g. image/png",
										},
										"data_base64": map[string]interface{}{
											"type":        "string",
											"description": "File contents, base64 encoded",
										},
									},
									"required":             []string{"name", "media_type", "data_base64"},
									"additionalProperties": false,
								},
							},
						},
					},
					"wait": map[string]interface{}{
						"type":        "boolean",
						"description": "Wait for the batch to finish (default true). When false the batch ID is returned immediately; poll it with scan_state.",
						"default":     true,
					},
				},
				"required": []string{"files"},
			},
		},

		// Page state
		{
			Name:        "scan_state",
			Description: "Return the current page state: processing and error indicators, whether keyword input is disabled, the status line, the gallery and the matched keywords. Optionally report one batch's result.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"batch_id": map[string]interface{}{
						"type":        "string",
						"description": "Batch ID returned by scan_files",
					},
					"include_thumbnails": map[string]interface{}{
						"type":        "boolean",
						"description": "Attach each gallery entry's thumbnail as a data URL (default false)",
						"default":     false,
					},
				},
				"additionalProperties": false,
			},
		},

		// Gallery
		{
			Name:        "gallery_thumbnail",
			Description: "Return one gallery entry's thumbnail as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id": map[string]interface{}{
						"type":        "string",
						"description": "Gallery entry ID",
					},
				},
				"required":             []string{"id"},
				"additionalProperties": false,
			},
		},
		{
			Name:        "gallery_clear",
			Description: "Remove every entry from the gallery.",
			InputSchema: map[string]interface{}{
				"type":                 "object",
				"properties":           map[string]interface{}{},
				"additionalProperties": false,
			},
		},

		// Engine
		{
			Name:        "ocr_info",
			Description: "Report the OCR engine version, language, worker count and queue depth.",
			InputSchema: map[string]interface{}{
				"type":                 "object",
				"properties":           map[string]interface{}{},
				"additionalProperties": false,
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}

// compileSchemas compiles every tool's input schema, keyed by tool name.
func compileSchemas(tools []Tool) (map[string]*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	for _, t := range tools {
		b, err := json.Marshal(t.InputSchema)
		if err != nil {
			return nil, fmt.Errorf("marshal schema for %s: %w", t.Name, err)
		}
		if err := compiler.AddResource(schemaURL(t.Name), bytes.NewReader(b)); err != nil {
			return nil, fmt.Errorf("add schema for %s: %w", t.Name, err)
		}
	}

	schemas := make(map[string]*jsonschema.Schema, len(tools))
	for _, t := range tools {
		sch, err := compiler.Compile(schemaURL(t.Name))
		if err != nil {
			return nil, fmt.Errorf("compile schema for %s: %w", t.Name, err)
		}
		schemas[t.Name] = sch
	}
	return schemas, nil
}

func schemaURL(tool string) string {
	return tool + ".json"
}

// validateArgs checks raw tool arguments against the tool's schema. Missing
// arguments are validated as an empty object.
func (s *Server) validateArgs(name string, args json.RawMessage) error {
	sch, ok := s.schemas[name]
	if !ok {
		return fmt.Errorf("unknown tool: %s", name)
	}

	var v interface{} = map[string]interface{}{}
	if len(bytes.TrimSpace(args)) > 0 && !bytes.Equal(bytes.TrimSpace(args), []byte("null")) {
		if err := json.Unmarshal(args, &v); err != nil {
			return fmt.Errorf("unmarshal arguments: %w", err)
		}
	}
	if err := sch.Validate(v); err != nil {
		return fmt.Errorf("arguments do not match schema: %w", err)
	}
	return nil
}
