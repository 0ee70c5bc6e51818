package main

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadPassword(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"newline", "hunter2\n", "hunter2"},
		{"crlf", "hunter2\r\n", "hunter2"},
		{"no newline", "hunter2", "hunter2"},
		{"keeps spaces", " pass word \n", " pass word "},
		{"first line only", "first\nsecond\n", "first"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readPassword(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveNetwork_ExplicitInterface(t *testing.T) {
	network, err := resolveNetwork("wlan0")

	require.NoError(t, err)
	assert.Equal(t, "wlan0", network.Interface)
}

func TestPromptPassword_NonTerminalReadsLine(t *testing.T) {
	for _, fromStdin := range []bool{true, false} {
		got, err := promptPassword(strings.NewReader("hunter2\n"), fromStdin)

		require.NoError(t, err)
		assert.Equal(t, "hunter2", got)
	}
}

func TestPromptPassword_PipeIsNotATerminal(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	_, err = w.WriteString("s3cret\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	got, err := promptPassword(r, false)

	require.NoError(t, err)
	assert.Equal(t, "s3cret", got)
}
