package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1F47E/geobox/pkg/geobox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv(envConfigPath, "")
	t.Setenv(envLogFlavour, "")

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)

	err := cmd.Execute()
	return out.String(), err
}

func writeUnitGrid(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "grid.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scopes: [\"1.0\"]\nmargin: 0.3\n"), 0o644))
	return path
}

func lines(s string) []string {
	return strings.Split(strings.TrimSpace(s), "\n")
}

func TestStorageCommand(t *testing.T) {
	out, err := execute(t, "--config", writeUnitGrid(t), "storage", "--lat", "42.2", "--lon=-83.8")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"43.000|-84.000|42.000|-83.000",
		"42.000|-84.000|41.000|-83.000",
		"43.000|-85.000|42.000|-84.000",
		"42.000|-85.000|41.000|-84.000",
	}, lines(out))
}

func TestStorageCommandConfigFromEnv(t *testing.T) {
	path := writeUnitGrid(t)

	var out bytes.Buffer
	t.Setenv(envConfigPath, path)
	cmd := newRootCmd()
	cmd.SetArgs([]string{"storage", "--lat", "42.5", "--lon=-83.5"})
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, []string{"43.000|-84.000|42.000|-83.000"}, lines(out.String()))
}

func TestStorageCommandGeoJSON(t *testing.T) {
	out, err := execute(t, "--config", writeUnitGrid(t), "storage", "--lat", "42.5", "--lon=-83.8", "--geojson")
	require.NoError(t, err)

	var doc struct {
		Type     string `json:"type"`
		Features []struct {
			Properties map[string]string `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "FeatureCollection", doc.Type)
	require.Len(t, doc.Features, 2)
	assert.Equal(t, "43.000|-85.000|42.000|-84.000", doc.Features[1].Properties["geobox"])
}

func TestSearchCommand(t *testing.T) {
	out, err := execute(t, "search", "--lat", "43.16956", "--lon=-77.61139", "--scope", "0.01")
	require.NoError(t, err)
	assert.Equal(t, "43.175|-77.613|43.163|-77.600", strings.TrimSpace(out))
}

func TestDecodeCommand(t *testing.T) {
	out, err := execute(t, "decode", "43.000|-84.000|42.000|-83.000", "43.175|-77.613|43.163|-77.600")
	require.NoError(t, err)

	got := lines(out)
	require.Len(t, got, 2)
	assert.Contains(t, got[0], "top=43 left=-84 bottom=42 right=-83 scope=1")
	assert.Contains(t, got[1], "scope=0.012")
}

func TestDemoCommand(t *testing.T) {
	out, err := execute(t, "demo")
	require.NoError(t, err)

	assert.Contains(t, out, "43.16956")
	assert.Contains(t, out, "-43.16956")
	assert.Contains(t, out, "margin size: 0.001875")
	assert.Contains(t, out, "rounded: 43.1625 <= lat: 43.16956")
	assert.Contains(t, out, "diagnostics finished")
}

func TestBenchCommand(t *testing.T) {
	out, err := execute(t, "bench", "--points", "500", "--workers", "3", "--seed", "1")
	require.NoError(t, err)

	assert.Contains(t, out, "Points: 500")
	assert.Contains(t, out, "Workers: 3")
	assert.Contains(t, out, "Parse failures: 0")
	assert.Contains(t, out, "Containment violations: 0")

	_, err = execute(t, "bench", "--points", "0")
	assert.Error(t, err)
}

func TestCommandErrors(t *testing.T) {
	_, err := execute(t, "storage", "--lat", "north", "--lon", "1")
	assert.True(t, errors.Is(err, geobox.ErrConversion), "%v", err)

	_, err = execute(t, "search", "--lat", "1", "--lon", "1", "--scope", "wide")
	assert.True(t, errors.Is(err, geobox.ErrConversion), "%v", err)

	_, err = execute(t, "decode", "1|2|3")
	assert.True(t, errors.Is(err, geobox.ErrConversion), "%v", err)

	_, err = execute(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "demo")
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = execute(t, "storage", "--lat", "1")
	assert.Error(t, err)
}

func TestRandomPointsAreDeterministic(t *testing.T) {
	a := generateRandomPoints(100, 4, 42)
	b := generateRandomPoints(100, 4, 42)
	assert.Equal(t, a, b)
	for _, p := range a {
		assert.NotEmpty(t, p.lat)
		assert.NotEmpty(t, p.lon)
	}
}
