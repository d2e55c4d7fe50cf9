package debug

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// saveAndRestoreState saves the debug package state and returns a cleanup function
func saveAndRestoreState() func() {
	originalDebug := EnableDebug
	originalMode := MCPMode
	originalOutput := debugOutput
	originalFile := debugFile
	return func() {
		EnableDebug = originalDebug
		MCPMode = originalMode
		debugOutput = originalOutput
		debugFile = originalFile
	}
}

func TestSetMCPMode(t *testing.T) {
	defer saveAndRestoreState()()

	SetMCPMode(true)
	assert.True(t, MCPMode)

	SetMCPMode(false)
	assert.False(t, MCPMode)
}

func TestIsDebugEnabled(t *testing.T) {
	defer saveAndRestoreState()()
	t.Setenv("DEBUG", "")
	t.Setenv("INNOLEARN_DEBUG", "")

	EnableDebug = "false"
	MCPMode = false
	assert.False(t, IsDebugEnabled())

	EnableDebug = "true"
	assert.True(t, IsDebugEnabled())

	// MCP mode always wins
	MCPMode = true
	assert.False(t, IsDebugEnabled())
	MCPMode = false

	EnableDebug = "invalid"
	assert.False(t, IsDebugEnabled())

	t.Setenv("INNOLEARN_DEBUG", "1")
	assert.True(t, IsDebugEnabled())
}

func TestLogComponents(t *testing.T) {
	defer saveAndRestoreState()()

	var buf bytes.Buffer
	SetDebugOutput(&buf)
	EnableDebug = "true"
	MCPMode = false

	LogMatch("exact %s\n", "stack")
	LogClassifier("argmax %d\n", 3)
	LogVocabulary("loaded %d categories\n", 10)

	output := buf.String()
	assert.Contains(t, output, "[DEBUG:MATCH] exact stack")
	assert.Contains(t, output, "[DEBUG:CLASSIFY] argmax 3")
	assert.Contains(t, output, "[DEBUG:VOCAB] loaded 10 categories")
}

func TestLog_MCPMode(t *testing.T) {
	defer saveAndRestoreState()()

	var buf bytes.Buffer
	SetDebugOutput(&buf)
	EnableDebug = "true"
	MCPMode = true
	LogServer("tool call %s\n", "recognize_text")

	assert.Empty(t, buf.String())
}

func TestLog_NoWriter(t *testing.T) {
	defer saveAndRestoreState()()

	SetDebugOutput(nil)
	EnableDebug = "true"
	MCPMode = false

	assert.NotPanics(t, func() {
		Printf("nothing %d", 1)
		Log("TEST", "nothing")
	})
}

func TestFatal(t *testing.T) {
	defer saveAndRestoreState()()

	var buf bytes.Buffer
	SetDebugOutput(&buf)
	MCPMode = false

	err := Fatal("vocabulary %s missing", "terms.kdl")
	require.Error(t, err)
	assert.Equal(t, "fatal error: vocabulary terms.kdl missing", err.Error())
	assert.Contains(t, buf.String(), "[FATAL] vocabulary terms.kdl missing")
}

func TestInitDebugLogFile(t *testing.T) {
	defer saveAndRestoreState()()

	path, err := InitDebugLogFile()
	require.NoError(t, err)
	defer os.Remove(path)

	EnableDebug = "true"
	MCPMode = false
	Log("TEST", "to file\n")
	require.NoError(t, CloseDebugLog())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "[DEBUG:TEST] to file"))
}
