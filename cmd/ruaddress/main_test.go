package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iEmiya/ruaddress/internal/source"
	"github.com/iEmiya/ruaddress/model"
)

func writeCSV(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		source.KladrFile: "NAME;SOCR;CODE;INDEX\n" +
			"Московская;обл;5000000000000;\n" +
			"Балашиха;г;5000000100000;143900\n",
		source.StreetFile: "NAME;SOCR;CODE;INDEX\n" +
			"Фадеева;ул;50000001000012300;143900\n",
		source.SocrbaseFile: "LEVEL;SCNAME;SOCRNAME\n" +
			"1;обл;Область\n3;г;Город\n5;ул;Улица\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0600))
	}
	return dir
}

// run executes the root command against dataDir and returns its stdout.
func run(t *testing.T, dataDir string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(io.Discard)
	base := []string{
		"--config", filepath.Join(t.TempDir(), "missing.yaml"),
		"--env-file", "",
		"--data-dir", dataDir,
	}
	cmd.SetArgs(append(base, args...))
	err := cmd.Execute()
	return buf.String(), err
}

func buildStore(t *testing.T) string {
	t.Helper()
	dataDir := filepath.Join(t.TempDir(), "data")
	out, err := run(t, dataDir, "build", "--driver", "csv", "--dir", writeCSV(t))
	require.NoError(t, err)
	require.Contains(t, out, "Documents:  3")
	return dataDir
}

func TestRootCommand(t *testing.T) {
	cmd := newRootCmd()
	assert.Equal(t, "ruaddress", cmd.Use)

	names := make([]string, 0)
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"serve", "build", "search", "code", "postal", "level", "children", "reduction"} {
		assert.Contains(t, names, want)
	}

	for _, flag := range []string{"config", "env-file", "data-dir"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), flag)
	}
}

func TestArgsValidation(t *testing.T) {
	dataDir := t.TempDir()
	tests := []struct {
		name string
		args []string
	}{
		{"search without text", []string{"search"}},
		{"code with two codes", []string{"code", "1", "2"}},
		{"reduction without short", []string{"reduction", "1"}},
		{"serve with argument", []string{"serve", "extra"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, dataDir, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestBuildJSON(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "data")
	out, err := run(t, dataDir, "build", "--driver", "csv", "--dir", writeCSV(t), "--json")
	require.NoError(t, err)

	var stats model.BuildStats
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, 3, stats.Records)
	assert.Equal(t, 3, stats.Documents)
	assert.NotEmpty(t, stats.BuildID)
}

func TestBuildMissingFiles(t *testing.T) {
	_, err := run(t, t.TempDir(), "build", "--driver", "csv", "--dir", t.TempDir())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestQueryCommands(t *testing.T) {
	dataDir := buildStore(t)

	t.Run("code", func(t *testing.T) {
		out, err := run(t, dataDir, "code", "50000001000012300")
		require.NoError(t, err)
		assert.Equal(t, "143900, Московская область, Балашиха город, Фадеева улица", strings.TrimSpace(out))
	})

	t.Run("code not found", func(t *testing.T) {
		_, err := run(t, dataDir, "code", "7700000000000")
		assert.ErrorIs(t, err, errNotFound)
	})

	t.Run("search", func(t *testing.T) {
		out, err := run(t, dataDir, "search", "Балашиха")
		require.NoError(t, err)
		assert.Contains(t, out, "Балашиха")
	})

	t.Run("search json", func(t *testing.T) {
		out, err := run(t, dataDir, "search", "Фадеева", "--json", "-n", "1")
		require.NoError(t, err)
		var results []model.SearchResult
		require.NoError(t, json.Unmarshal([]byte(out), &results))
		require.Len(t, results, 1)
		assert.Equal(t, "500000010000123", results[0].ID)
	})

	t.Run("level", func(t *testing.T) {
		out, err := run(t, dataDir, "level", "50000001000012300")
		require.NoError(t, err)
		assert.Equal(t, "5", strings.TrimSpace(out))
	})

	t.Run("level of malformed code", func(t *testing.T) {
		_, err := run(t, dataDir, "level", "123")
		assert.ErrorIs(t, err, errNotFound)
	})

	t.Run("postal", func(t *testing.T) {
		out, err := run(t, dataDir, "postal", "143900", "--json")
		require.NoError(t, err)
		var addrs []model.ParsedAddress
		require.NoError(t, json.Unmarshal([]byte(out), &addrs))
		assert.NotEmpty(t, addrs)
		for _, a := range addrs {
			assert.Equal(t, "143900", a.PostalCode)
		}
	})

	t.Run("postal rejects bad index", func(t *testing.T) {
		_, err := run(t, dataDir, "postal", "14390")
		assert.Error(t, err)
	})

	t.Run("reduction", func(t *testing.T) {
		out, err := run(t, dataDir, "reduction", "1", "обл")
		require.NoError(t, err)
		assert.Equal(t, "Область", strings.TrimSpace(out))
	})

	t.Run("reduction with bad level", func(t *testing.T) {
		_, err := run(t, dataDir, "reduction", "x", "обл")
		assert.Error(t, err)
	})
}

func TestQueryBeforeBuild(t *testing.T) {
	out, err := run(t, filepath.Join(t.TempDir(), "data"), "search", "Балашиха")
	require.NoError(t, err)
	assert.Equal(t, "No results", strings.TrimSpace(out))
}
