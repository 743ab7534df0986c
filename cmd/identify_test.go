package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentifyRejectsBadIdentifier(t *testing.T) {
	tests := []struct {
		name       string
		identifier string
	}{
		{"no colon", "17003"},
		{"empty site", ":17003"},
		{"empty id", "dmsguild:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &IdentifyCmd{Identifier: tt.identifier}
			err := cmd.Run()
			assert.ErrorContains(t, err, "identifier must be site:id")
		})
	}
}

func TestIdentifyRequiresTitleOrIdentifier(t *testing.T) {
	cmd := &IdentifyCmd{}
	err := cmd.Run()
	assert.ErrorContains(t, err, "a title or an identifier is required")
}

func TestCoverRejectsBadIdentifier(t *testing.T) {
	cmd := &CoverCmd{Identifier: "just-an-id"}
	err := cmd.Run()
	assert.ErrorContains(t, err, "identifier must be site:id")
}

func TestCoverRefusesToOverwrite(t *testing.T) {
	output := filepath.Join(t.TempDir(), "cover.jpg")
	require.NoError(t, os.WriteFile(output, []byte("existing"), 0o644))

	cmd := &CoverCmd{Identifier: "dmsguild:17003", Output: output}
	err := cmd.Run()
	assert.ErrorContains(t, err, "already exists")

	// The existing file is untouched.
	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, []byte("existing"), data)
}
