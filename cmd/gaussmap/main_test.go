package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gaussmap"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("gaussmap", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestLoadFlagsOverridesConfig(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: sphere\nu_steps: 5\nformat: json\n"), 0o600))

	cfg, interactive, list, err := loadFlags(newFlagSet(), []string{"-config", path, "-usteps", "7", "-surface", "cone"})
	require.NoError(t, err)
	assert.False(t, interactive)
	assert.False(t, list)
	assert.Equal(t, "cone", cfg.Name)
	assert.Equal(t, 7, cfg.USteps)
	assert.Equal(t, gaussmap.FormatJSON, cfg.Format)
}

func TestLoadFlagsExpressionsReplaceCatalogName(t *testing.T) {
	t.Parallel()
	cfg, _, _, err := loadFlags(newFlagSet(), []string{
		"-surface", "sphere",
		"-x", "u", "-y", "v", "-z", "u*v",
		"-umin", "-1", "-umax", "1", "-vmin", "-1", "-vmax", "1",
	})
	require.NoError(t, err)
	assert.Empty(t, cfg.Name)
	assert.Equal(t, "u*v", cfg.Surface.Z)
}

func TestLoadFlagsRejectsBadFormat(t *testing.T) {
	t.Parallel()
	_, _, _, err := loadFlags(newFlagSet(), []string{"-format", "xml"})
	assert.True(t, errors.Is(err, gaussmap.ErrConfig))
}

func TestPromptRetriesInvalidFields(t *testing.T) {
	t.Parallel()
	input := strings.Join([]string{
		"u**", // rejected
		"u", "v", "u^2 - v^2",
		"-1", "1", "-1", "1",
		"n",
		"u", "v", "u*v",
		"0", "1", "0", "1",
		"y",
	}, "\n") + "\n"
	var out bytes.Buffer
	in, err := prompt(bufio.NewReader(strings.NewReader(input)), &out)
	require.NoError(t, err)
	assert.Equal(t, "u*v", in.Z)
	assert.Contains(t, out.String(), "invalid input")
	assert.Contains(t, out.String(), "Proceed? [y/n]")
}

func TestPromptEOF(t *testing.T) {
	t.Parallel()
	_, err := prompt(bufio.NewReader(strings.NewReader("u\n")), io.Discard)
	assert.ErrorIs(t, err, io.EOF)
}

func TestRunText(t *testing.T) {
	t.Parallel()
	cfg := gaussmap.DefaultConfig()
	cfg.Name = "hyperbolic_paraboloid"
	cfg.USteps, cfg.VSteps = 3, 3

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), cfg, &out))
	assert.Contains(t, out.String(), "x_u = (1, 0, v)")
	assert.Contains(t, out.String(), "Gauss map dimension: 2")
}

func TestRunJSON(t *testing.T) {
	t.Parallel()
	cfg := gaussmap.DefaultConfig()
	cfg.Name = "cylinder"
	cfg.USteps, cfg.VSteps = 4, 2
	cfg.Format = gaussmap.FormatJSON

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), cfg, &out))
	var rep report
	require.NoError(t, json.Unmarshal(out.Bytes(), &rep))
	assert.Equal(t, 1, rep.Dim)
	assert.Len(t, rep.Samples, 8)
}
