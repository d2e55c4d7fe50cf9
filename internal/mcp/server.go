// Package mcp exposes term recognition as Model Context Protocol tools over
// stdio.
package mcp

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Alishbarana/InnoLearn/internal/config"
	"github.com/Alishbarana/InnoLearn/internal/recognition"
	"github.com/Alishbarana/InnoLearn/internal/version"
	"github.com/Alishbarana/InnoLearn/internal/vocabulary"
)

// Tool names
const (
	ToolRecognizeText  = "recognize_text"
	ToolClassifyScores = "classify_scores"
	ToolLookupTerm     = "lookup_term"
	ToolListTerms      = "list_terms"
	ToolInfo           = "info"
)

type Server struct {
	recognizer       *recognition.Recognizer
	vocab            *vocabulary.Holder
	cfg              *config.Config
	server           *mcp.Server
	diagnosticLogger *DiagnosticLogger
}

// NewServer wires a recognizer and the vocabulary holder it reads from into
// an MCP server. cfg may be nil, in which case defaults are used.
func NewServer(recognizer *recognition.Recognizer, vocab *vocabulary.Holder, cfg *config.Config) (*Server, error) {
	if recognizer == nil || vocab == nil {
		return nil, fmt.Errorf("mcp server needs a recognizer and a vocabulary holder")
	}
	if cfg == nil {
		cfg = config.Default()
	}

	// stdout carries the protocol, diagnostics go to a file
	diagnosticLogger := NewDiagnosticLogger(true)

	s := &Server{
		recognizer:       recognizer,
		vocab:            vocab,
		cfg:              cfg,
		diagnosticLogger: diagnosticLogger,
	}

	s.server = mcp.NewServer(&mcp.Implementation{
		Name:    cfg.Server.Name,
		Version: version.Version,
	}, nil)
	s.registerTools()

	diagnosticLogger.Printf("MCP server initialized with %s", vocab.Current())
	return s, nil
}

func (s *Server) registerTools() {
	s.server.AddTool(&mcp.Tool{
		Name:        ToolInfo,
		Description: "Describe the available tools. Use {\"tool\": \"version\"} for build info or {\"tool\": \"stats\"} for recognition counters.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"tool": {
					Type:        "string",
					Description: "Tool name to describe, or 'version' / 'stats'",
				},
			},
		},
	}, s.wrap(ToolInfo, s.handleInfo))

	s.server.AddTool(&mcp.Tool{
		Name:        ToolRecognizeText,
		Description: "Match OCR or free-form text against the technical-term vocabulary. Returns the recognized category, confidence (0-100), match type and ranked alternatives.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"text": {
					Type:        "string",
					Description: "Text to recognize",
				},
				"texts": {
					Type:        "array",
					Items:       &jsonschema.Schema{Type: "string"},
					Description: "Several texts to recognize in one call; results keep input order",
				},
			},
		},
	}, s.wrap(ToolRecognizeText, s.handleRecognizeText))

	s.server.AddTool(&mcp.Tool{
		Name:        ToolClassifyScores,
		Description: "Turn a classifier's raw score vector into a recognized label with percent confidence and a ranked probability table.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"scores": {
					Type:        "array",
					Items:       &jsonschema.Schema{Type: "number"},
					Description: "Raw logits, one per label",
				},
				"labels": {
					Type:        "array",
					Items:       &jsonschema.Schema{Type: "string"},
					Description: "Label order of the scores; defaults to the configured labels",
				},
			},
			Required: []string{"scores"},
		},
	}, s.wrap(ToolClassifyScores, s.handleClassifyScores))

	s.server.AddTool(&mcp.Tool{
		Name:        ToolLookupTerm,
		Description: "Find the vocabulary category whose surface forms contain the given term (case-insensitive).",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"term": {
					Type:        "string",
					Description: "Surface form to look up, e.g. 'push operation'",
				},
			},
			Required: []string{"term"},
		},
	}, s.wrap(ToolLookupTerm, s.handleLookupTerm))

	s.server.AddTool(&mcp.Tool{
		Name:        ToolListTerms,
		Description: "List vocabulary categories with display names, topics and surface forms.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"category": {
					Type:        "string",
					Description: "Only this category id",
				},
				"topic": {
					Type:        "string",
					Description: "Only categories of this topic, e.g. 'Computer Networking'",
				},
			},
		},
	}, s.wrap(ToolListTerms, s.handleListTerms))
}

type toolHandler = func(context.Context, *mcp.CallToolRequest) (*mcp.CallToolResult, error)

// wrap adds panic recovery and error logging around a handler. Handler
// errors become IsError results instead of protocol errors.
func (s *Server) wrap(operation string, handler toolHandler) toolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (result *mcp.CallToolResult, err error) {
		defer func() {
			if r := recover(); r != nil {
				s.diagnosticLogger.Errorf("PANIC RECOVERED in %s: %v\n%s", operation, r, debug.Stack())
				result, err = createErrorResponse(operation, fmt.Errorf("internal error: %v", r))
			}
		}()

		result, err = handler(ctx, req)
		if err != nil {
			s.diagnosticLogger.Errorf("%s: %v", operation, err)
			return createErrorResponse(operation, err)
		}
		return result, nil
	}
}

// Start serves MCP over stdio until ctx is cancelled or the client disconnects
func (s *Server) Start(ctx context.Context) error {
	s.diagnosticLogger.Printf("Starting MCP server with stdio transport")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Shutdown flushes diagnostics
func (s *Server) Shutdown(ctx context.Context) error {
	s.diagnosticLogger.Printf("MCP server shutdown: %s", s.recognizer.Stats())
	return s.diagnosticLogger.Close()
}

// GetHandlerForTesting returns the wrapped handler for a tool name
func (s *Server) GetHandlerForTesting(toolName string) func(context.Context, *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	switch toolName {
	case ToolInfo:
		return s.wrap(ToolInfo, s.handleInfo)
	case ToolRecognizeText:
		return s.wrap(ToolRecognizeText, s.handleRecognizeText)
	case ToolClassifyScores:
		return s.wrap(ToolClassifyScores, s.handleClassifyScores)
	case ToolLookupTerm:
		return s.wrap(ToolLookupTerm, s.handleLookupTerm)
	case ToolListTerms:
		return s.wrap(ToolListTerms, s.handleListTerms)
	default:
		return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return createErrorResponse("GetHandlerForTesting", fmt.Errorf("unknown tool: %s", toolName))
		}
	}
}
