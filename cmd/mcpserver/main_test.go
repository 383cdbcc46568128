package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToolsCommand(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"tools"})
	require.NoError(t, cmd.Execute())

	var descs []struct {
		Name        string         `json:"name"`
		InputSchema map[string]any `json:"inputSchema"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &descs))
	require.Len(t, descs, 5)
	assert.Equal(t, "rsi", descs[0].Name)
	assert.Equal(t, "bbands", descs[4].Name)
}

func TestServeCommand_MissingKey(t *testing.T) {
	t.Setenv("MCP_API_KEY", "")
	t.Setenv("CONFIG_FILE", "")
	cmd := newRootCmd()
	cmd.SetArgs([]string{"serve", "--addr", "127.0.0.1:0"})
	assert.Error(t, cmd.Execute())
}
