package mcp

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Alishbarana/InnoLearn/internal/classifier"
	"github.com/Alishbarana/InnoLearn/internal/types"
	"github.com/Alishbarana/InnoLearn/internal/version"
	"github.com/Alishbarana/InnoLearn/internal/vocabulary"
)

type InfoParams struct {
	Tool string `json:"tool,omitempty"`
}

type RecognizeTextParams struct {
	Text  string   `json:"text,omitempty"`
	Texts []string `json:"texts,omitempty"`
}

type ClassifyScoresParams struct {
	Scores []float64 `json:"scores"`
	Labels []string  `json:"labels,omitempty"`
}

type LookupTermParams struct {
	Term string `json:"term"`
}

type ListTermsParams struct {
	Category string `json:"category,omitempty"`
	Topic    string `json:"topic,omitempty"`
}

// CategoryInfo describes one vocabulary category
type CategoryInfo struct {
	ID           string   `json:"id"`
	DisplayName  string   `json:"displayName"`
	Topic        string   `json:"topic,omitempty"`
	SurfaceForms []string `json:"surfaceForms"`
}

// LookupResponse answers lookup_term
type LookupResponse struct {
	Term     string        `json:"term"`
	Found    bool          `json:"found"`
	Category *CategoryInfo `json:"category,omitempty"`
}

// BatchResponse answers recognize_text with several texts
type BatchResponse struct {
	Results []*types.RecognitionResult `json:"results"`
}

var toolDescriptions = map[string]string{
	ToolRecognizeText:  `Lexical recognition. {"text": "binary search tree"} or {"texts": ["...", "..."]}. Match types: exact, keyword, fuzzy, partial, none, no_text.`,
	ToolClassifyScores: `Classifier adaptation. {"scores": [2.1, 0.3, ...], "labels": ["array", ...]}. Softmax over raw logits, argmax with first-wins ties.`,
	ToolLookupTerm:     `Category lookup. {"term": "push operation"} returns the first category with a surface form containing the term.`,
	ToolListTerms:      `Vocabulary listing. {} for everything, {"category": "stack"} or {"topic": "Data Structures"} to filter.`,
	ToolInfo:           `This help. {"tool": "<name>"}, {"tool": "version"} or {"tool": "stats"}.`,
}

func (s *Server) handleInfo(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params InfoParams
	if err := decodeParams(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	tool := strings.ToLower(strings.TrimSpace(params.Tool))
	switch tool {
	case "":
		return createJSONResponse(map[string]interface{}{
			"server":     s.cfg.Server.Name,
			"version":    version.Version,
			"vocabulary": s.vocab.Current().String(),
			"tools":      toolDescriptions,
		})
	case "version":
		return createJSONResponse(map[string]interface{}{
			"server_name":    s.cfg.Server.Name,
			"server_version": version.FullInfo(),
			"go_version":     runtime.Version(),
			"platform":       runtime.GOOS + "/" + runtime.GOARCH,
			"capabilities": []string{
				"stdio_transport",
				"lexical_recognition",
				"classifier_adaptation",
				"vocabulary_lookup",
			},
		})
	case "stats":
		return createJSONResponse(s.recognizer.Stats())
	}

	desc, ok := toolDescriptions[tool]
	if !ok {
		return nil, fmt.Errorf("unknown tool %q", params.Tool)
	}
	return createJSONResponse(map[string]string{"tool": tool, "usage": desc})
}

func (s *Server) handleRecognizeText(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params RecognizeTextParams
	if err := decodeParams(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	if len(params.Texts) > 0 {
		results, err := s.recognizer.RecognizeBatch(ctx, params.Texts)
		if err != nil {
			return nil, err
		}
		return createJSONResponse(BatchResponse{Results: results})
	}

	// Blank text is a no_text result, not a tool error
	return createJSONResponse(s.recognizer.RecognizeFromText(ctx, params.Text))
}

func (s *Server) handleClassifyScores(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params ClassifyScoresParams
	if err := decodeParams(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	labels := params.Labels
	if len(labels) == 0 {
		labels = s.cfg.Classifier.Labels
	}

	result, err := classifier.Adapt(classifier.Output{Labels: labels, RawScores: params.Scores},
		classifier.Options{StableSoftmax: s.cfg.Classifier.StableSoftmax})
	if err != nil {
		return nil, err
	}
	return createJSONResponse(result)
}

func (s *Server) handleLookupTerm(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params LookupTermParams
	if err := decodeParams(req.Params.Arguments, &params); err != nil {
		return nil, err
	}
	if strings.TrimSpace(params.Term) == "" {
		return nil, fmt.Errorf("term is required")
	}

	table := s.vocab.Current()
	resp := LookupResponse{Term: params.Term}
	if id, ok := table.CategoryForSurfaceForm(params.Term); ok {
		info := categoryInfo(table, id)
		resp.Found = true
		resp.Category = &info
	}
	return createJSONResponse(resp)
}

func (s *Server) handleListTerms(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params ListTermsParams
	if err := decodeParams(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	table := s.vocab.Current()
	if params.Category != "" {
		if _, ok := table.Category(params.Category); !ok {
			return nil, fmt.Errorf("unknown category %q (known: %s)", params.Category, strings.Join(table.Categories(), ", "))
		}
		return createJSONResponse(categoryInfo(table, params.Category))
	}

	out := make([]CategoryInfo, 0, table.Len())
	for _, id := range table.Categories() {
		if params.Topic != "" && !strings.EqualFold(table.Topic(id), params.Topic) {
			continue
		}
		out = append(out, categoryInfo(table, id))
	}
	return createJSONResponse(map[string]interface{}{
		"count":      len(out),
		"categories": out,
	})
}

func categoryInfo(table *vocabulary.Table, id string) CategoryInfo {
	return CategoryInfo{
		ID:           id,
		DisplayName:  table.DisplayName(id),
		Topic:        table.Topic(id),
		SurfaceForms: table.TermsForCategory(id),
	}
}
