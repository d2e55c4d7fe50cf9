package mcp

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alishbarana/InnoLearn/internal/config"
	"github.com/Alishbarana/InnoLearn/internal/recognition"
	"github.com/Alishbarana/InnoLearn/internal/types"
	"github.com/Alishbarana/InnoLearn/internal/vocabulary"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	holder := vocabulary.NewHolder(nil)
	rec := recognition.New(holder, nil, nil, recognition.DefaultOptions())
	s, err := NewServer(rec, holder, config.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })
	return s
}

func callTool(t *testing.T, s *Server, tool string, args interface{}) *mcp.CallToolResult {
	t.Helper()
	raw, err := json.Marshal(args)
	require.NoError(t, err)
	result, err := s.GetHandlerForTesting(tool)(context.Background(), &mcp.CallToolRequest{
		Params: &mcp.CallToolParamsRaw{Arguments: raw},
	})
	require.NoError(t, err, "tool errors belong in the result")
	require.NotNil(t, result)
	require.Len(t, result.Content, 1)
	return result
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text
}

func decodeResult(t *testing.T, result *mcp.CallToolResult, dst interface{}) {
	t.Helper()
	require.False(t, result.IsError, resultText(t, result))
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), dst))
}

func TestNewServer(t *testing.T) {
	s := newTestServer(t)
	assert.NotNil(t, s.server)
	assert.NotNil(t, s.diagnosticLogger)
	assert.Equal(t, "innolearn", s.cfg.Server.Name)

	_, err := NewServer(nil, vocabulary.NewHolder(nil), nil)
	assert.Error(t, err)
}

func TestRecognizeTextTool(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		text      string
		matchType types.MatchType
		term      string
	}{
		{"The Stack Overflow occurred during push operation", types.MatchExact, "stack"},
		{"inspections packets", types.MatchKeyword, "firewall"},
		{"fierwal", types.MatchFuzzy, "firewall"},
		{"photosynthesis in plants", types.MatchNone, ""},
		{"   ", types.MatchNoText, ""},
	}
	for _, tc := range tests {
		t.Run(tc.text, func(t *testing.T) {
			var result types.RecognitionResult
			decodeResult(t, callTool(t, s, ToolRecognizeText, RecognizeTextParams{Text: tc.text}), &result)
			assert.Equal(t, tc.matchType, result.MatchType)
			assert.Equal(t, tc.term, result.RecognizedTerm)
		})
	}
}

func TestRecognizeTextTool_Batch(t *testing.T) {
	s := newTestServer(t)

	var resp BatchResponse
	decodeResult(t, callTool(t, s, ToolRecognizeText, RecognizeTextParams{
		Texts: []string{"router", "queue", ""},
	}), &resp)

	require.Len(t, resp.Results, 3)
	assert.Equal(t, "router", resp.Results[0].RecognizedTerm)
	assert.Equal(t, "queue", resp.Results[1].RecognizedTerm)
	assert.Equal(t, types.MatchNoText, resp.Results[2].MatchType)
}

func TestRecognizeTextTool_NullTermInJSON(t *testing.T) {
	s := newTestServer(t)
	text := resultText(t, callTool(t, s, ToolRecognizeText, RecognizeTextParams{Text: "photosynthesis"}))
	assert.Contains(t, text, `"recognizedTerm":null`)
}

func TestClassifyScoresTool(t *testing.T) {
	s := newTestServer(t)

	scores := make([]float64, 10)
	scores[9] = 1
	var result types.RecognitionResult
	decodeResult(t, callTool(t, s, ToolClassifyScores, ClassifyScoresParams{Scores: scores}), &result)

	assert.Equal(t, types.MatchClassified, result.MatchType)
	assert.Equal(t, "stack", result.RecognizedTerm, "default labels end with stack")
	require.Len(t, result.AllProbabilities, 10)
	assert.Equal(t, "stack", result.AllProbabilities[0].Label)

	decodeResult(t, callTool(t, s, ToolClassifyScores, ClassifyScoresParams{
		Scores: []float64{0.5, 3},
		Labels: []string{"router", "firewall"},
	}), &result)
	assert.Equal(t, "firewall", result.RecognizedTerm)
}

func TestClassifyScoresTool_Errors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		params ClassifyScoresParams
	}{
		{"empty", ClassifyScoresParams{}},
		{"length mismatch", ClassifyScoresParams{Scores: []float64{1, 2}, Labels: []string{"a"}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := callTool(t, s, ToolClassifyScores, tc.params)
			assert.True(t, result.IsError)
			assert.Contains(t, resultText(t, result), `"operation":"classify_scores"`)
		})
	}
}

func TestLookupTermTool(t *testing.T) {
	s := newTestServer(t)

	var resp LookupResponse
	decodeResult(t, callTool(t, s, ToolLookupTerm, LookupTermParams{Term: "Push Operation"}), &resp)
	assert.True(t, resp.Found)
	require.NotNil(t, resp.Category)
	assert.Equal(t, "stack", resp.Category.ID)
	assert.Equal(t, "Stack", resp.Category.DisplayName)
	assert.Equal(t, vocabulary.TopicDataStructures, resp.Category.Topic)

	decodeResult(t, callTool(t, s, ToolLookupTerm, LookupTermParams{Term: "photosynthesis"}), &resp)
	assert.False(t, resp.Found)
	assert.Nil(t, resp.Category)

	assert.True(t, callTool(t, s, ToolLookupTerm, LookupTermParams{}).IsError)
}

func TestListTermsTool(t *testing.T) {
	s := newTestServer(t)

	var all struct {
		Count      int            `json:"count"`
		Categories []CategoryInfo `json:"categories"`
	}
	decodeResult(t, callTool(t, s, ToolListTerms, ListTermsParams{}), &all)
	assert.Equal(t, 10, all.Count)
	assert.Equal(t, "array", all.Categories[0].ID)

	decodeResult(t, callTool(t, s, ToolListTerms, ListTermsParams{Topic: "computer networking"}), &all)
	assert.Equal(t, 4, all.Count)

	var one CategoryInfo
	decodeResult(t, callTool(t, s, ToolListTerms, ListTermsParams{Category: "osi_model"}), &one)
	assert.Equal(t, "OSI Model", one.DisplayName)
	assert.Contains(t, one.SurfaceForms, "osi model")

	result := callTool(t, s, ToolListTerms, ListTermsParams{Category: "heap"})
	assert.True(t, result.IsError)
}

func TestInfoTool(t *testing.T) {
	s := newTestServer(t)

	var overview map[string]interface{}
	decodeResult(t, callTool(t, s, ToolInfo, InfoParams{}), &overview)
	tools, ok := overview["tools"].(map[string]interface{})
	require.True(t, ok)
	assert.Len(t, tools, 5)

	var ver map[string]interface{}
	decodeResult(t, callTool(t, s, ToolInfo, InfoParams{Tool: "version"}), &ver)
	assert.Contains(t, ver["server_version"], "InnoLearn")

	callTool(t, s, ToolRecognizeText, RecognizeTextParams{Text: "stack"})
	var stats recognition.Stats
	decodeResult(t, callTool(t, s, ToolInfo, InfoParams{Tool: "stats"}), &stats)
	assert.Equal(t, int64(1), stats.Total)

	assert.True(t, callTool(t, s, ToolInfo, InfoParams{Tool: "nope"}).IsError)
}

func TestInvalidParams(t *testing.T) {
	s := newTestServer(t)
	result, err := s.GetHandlerForTesting(ToolRecognizeText)(context.Background(), &mcp.CallToolRequest{
		Params: &mcp.CallToolParamsRaw{Arguments: json.RawMessage(`{"text": 42}`)},
	})
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "invalid parameters")
}

func TestVocabularySwapVisibleToTools(t *testing.T) {
	holder := vocabulary.NewHolder(nil)
	rec := recognition.New(holder, nil, nil, recognition.DefaultOptions())
	s, err := NewServer(rec, holder, nil)
	require.NoError(t, err)
	defer s.Shutdown(context.Background())

	heap, err := vocabulary.New([]vocabulary.Category{{ID: "heap", SurfaceForms: []string{"min heap"}}}, nil, nil)
	require.NoError(t, err)
	holder.Swap(heap)

	var resp LookupResponse
	decodeResult(t, callTool(t, s, ToolLookupTerm, LookupTermParams{Term: "heap"}), &resp)
	require.True(t, resp.Found)
	assert.Equal(t, "heap", resp.Category.ID)

	var result types.RecognitionResult
	decodeResult(t, callTool(t, s, ToolRecognizeText, RecognizeTextParams{Text: "building a min heap"}), &result)
	assert.Equal(t, "heap", result.RecognizedTerm)
}

func TestClientSession(t *testing.T) {
	s := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serverSession, err := s.server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	defer serverSession.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "innolearn-test", Version: "0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer session.Close()

	tools, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	names := make(map[string]bool)
	for _, tool := range tools.Tools {
		names[tool.Name] = true
	}
	for _, expected := range []string{ToolRecognizeText, ToolClassifyScores, ToolLookupTerm, ToolListTerms, ToolInfo} {
		assert.True(t, names[expected], "expected tool %q", expected)
	}

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      ToolRecognizeText,
		Arguments: map[string]any{"text": "circular queue implementation"},
	})
	require.NoError(t, err)
	var recognized types.RecognitionResult
	decodeResult(t, result, &recognized)
	assert.Equal(t, "queue", recognized.RecognizedTerm)
}
