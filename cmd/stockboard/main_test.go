package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/stockboard/internal/app"
)

func TestVersionCommand(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "stockboard "+app.Version+"\n", out.String())
}

func TestFlagsToOptions(t *testing.T) {
	f := flags{configPath: "c.toml", sourceURL: "https://example.test/x.json", pollSeconds: 15}
	opts := f.options()
	assert.Equal(t, "c.toml", opts.ConfigPath)
	assert.Equal(t, "https://example.test/x.json", opts.SourceURL)
	assert.Equal(t, 15*time.Second, opts.Poll)

	assert.Zero(t, flags{pollSeconds: -1}.options().Poll)
}

func TestRejectsPositionalArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"print", "extra"})
	require.Error(t, cmd.Execute())
}
