package commands

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anatolykoptev/go_recap/internal/engine"
	"github.com/anatolykoptev/go_recap/internal/pipeline"
)

func sampleRecap() *pipeline.Recap {
	return &pipeline.Recap{
		Title:       "Why the sky is blue",
		Summary:     "Rayleigh scattering explains it.",
		VideoURL:    "https://www.youtube.com/watch?v=abc",
		ChannelName: "Veritasium",
		Provider:    "groq",
		WordCount:   5,
	}
}

func TestWriteResultText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeResult(&buf, formatText, sampleRecap(), nil))

	want := "\nVideo Summary:\n" +
		"=============\n" +
		"Channel: Veritasium\n" +
		"Title: Why the sky is blue\n" +
		"URL: https://www.youtube.com/watch?v=abc\n" +
		"Provider: groq (5 words)\n" +
		"\nSummary:\n" +
		"Rayleigh scattering explains it.\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteResultTextVideoOnly(t *testing.T) {
	r := sampleRecap()
	r.ChannelName = ""
	r.Expanded = true

	var buf bytes.Buffer
	require.NoError(t, writeResult(&buf, formatText, r, nil))
	assert.NotContains(t, buf.String(), "Channel:")
	assert.Contains(t, buf.String(), "Provider: groq (5 words, expanded)")
}

func TestWriteResultTextErrorPrintsNothing(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeResult(&buf, formatText, nil, engine.NotFound("Channel not found: x")))
	assert.Empty(t, buf.String())
}

func TestWriteResultJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeResult(&buf, formatJSON, nil, engine.NotFound("Channel not found: x")))

	var env map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
	assert.Equal(t, false, env["success"])
	assert.Equal(t, "Channel not found: x", env["error"])
	assert.NotContains(t, env, "data")

	buf.Reset()
	require.NoError(t, writeResult(&buf, formatJSON, sampleRecap(), nil))
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
	assert.Equal(t, true, env["success"])
	assert.Equal(t, "Veritasium", env["data"].(map[string]any)["channelName"])
}

func TestValidateFormat(t *testing.T) {
	assert.NoError(t, validateFormat("text"))
	assert.NoError(t, validateFormat("json"))
	assert.Error(t, validateFormat("yaml"))
}
