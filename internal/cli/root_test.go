package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/esterpost/internal/config"
	"github.com/roach88/esterpost/internal/star"
	"github.com/roach88/esterpost/internal/testutil"
)

// execute runs the root command with fresh options and returns stdout and
// the log output.
func execute(t *testing.T, reader star.Reader, args ...string) (string, string, error) {
	t.Helper()
	opts := &RootOptions{Reader: reader}
	cmd := NewRootCommandWithOptions(opts)
	out := &bytes.Buffer{}
	logs := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(logs)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), logs.String(), err
}

// sphere builds a synthetic model at dir/name and registers it.
func sphere(t *testing.T, reader *testutil.Reader, dir, name string, nth int, p testutil.Params) string {
	t.Helper()
	path := testutil.Touch(t, dir, name)[0]
	m, err := testutil.UniformSphere(path, nth, p)
	require.NoError(t, err)
	reader.Add(m)
	return path
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "esterpost", cmd.Use)
	assert.Contains(t, cmd.Long, "ESTER")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := [][]string{{"core-mass"}, {"radius"}, {"scatter"}, {"profile"}, {"cache"}, {"cache", "list"}}

	for _, path := range commands {
		name := path[len(path)-1]
		t.Run(name, func(t *testing.T) {
			subCmd, _, err := cmd.Find(path)
			require.NoError(t, err, "Command %v should exist", path)
			require.NotNil(t, subCmd)
			assert.Equal(t, name, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "3", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	cacheFlag := cmd.PersistentFlags().Lookup("cache")
	require.NotNil(t, cacheFlag)
	assert.Equal(t, ".esterpost.db", cacheFlag.DefValue)

	require.NotNil(t, cmd.PersistentFlags().Lookup("config"))
}

func TestScatterCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	scatterCmd, _, err := cmd.Find([]string{"scatter"})
	require.NoError(t, err)

	tests := []struct {
		name      string
		shorthand string
		def       string
	}{
		{"folders", "f", "[.]"},
		{"ester", "e", "1"},
		{"plot", "", DefaultPlot},
		{"scatterplot3d", "3", "false"},
		{"recursive", "r", "false"},
		{"print", "p", "false"},
		{"filter", "", ""},
		{"where", "", ""},
		{"save", "", "false"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := scatterCmd.Flags().Lookup(tt.name)
			require.NotNil(t, flag)
			assert.Equal(t, tt.shorthand, flag.Shorthand)
			assert.Equal(t, tt.def, flag.DefValue)
		})
	}
}

func TestInvalidFormat(t *testing.T) {
	_, _, err := execute(t, testutil.NewReader(), "cache", "list", "--format", "xml")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "invalid format")
}

func TestInvalidVerbosity(t *testing.T) {
	for _, v := range []string{"-1", "5"} {
		_, _, err := execute(t, testutil.NewReader(), "cache", "list", "-v", v,
			"--cache", filepath.Join(t.TempDir(), "cache.db"))
		require.Error(t, err, "verbose %s", v)
		assert.Equal(t, ExitFailure, GetExitCode(err))
	}
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	cachePath := filepath.Join(dir, "from-config", "cache.db")
	cfgPath := filepath.Join(dir, "esterpost.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("verbose: 4\ncache: "+cachePath+"\n"), 0o644))

	reader := testutil.NewReader()
	sphere(t, reader, dir, "M1.h5", 1, testutil.Params{})

	_, logs, err := execute(t, reader, "radius", "--config", cfgPath, "--folder", dir)
	require.NoError(t, err)
	assert.Contains(t, logs, "[DEBUG]", "verbose from config file")

	_, _, err = execute(t, reader, "cache", "list", "--config", cfgPath)
	require.NoError(t, err)
	_, err = os.Stat(cachePath)
	assert.NoError(t, err, "cache path from config file")
}

func TestConfigFile_FlagsWin(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "esterpost.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("verbose: 4\n"), 0o644))
	reader := testutil.NewReader()
	sphere(t, reader, dir, "M1.h5", 1, testutil.Params{})

	_, logs, err := execute(t, reader, "radius", "--config", cfgPath, "-v", "0", "--folder", dir)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestConfigFile_Invalid(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "esterpost.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("scatter:\n  plot: [M, R]\n"), 0o644))

	_, _, err := execute(t, testutil.NewReader(), "radius", "--config", cfgPath)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestOutputPath(t *testing.T) {
	opts := &RootOptions{}
	assert.Equal(t, "fig.png", opts.outputPath("fig.png"))

	opts.Config = &config.Config{OutputDir: "figures"}
	assert.Equal(t, filepath.Join("figures", "fig.png"), opts.outputPath("fig.png"))
	assert.Equal(t, "/tmp/fig.png", opts.outputPath("/tmp/fig.png"))
}

// decodeData unmarshals the data of a JSON success response into v.
func decodeData(t *testing.T, out string, v any) {
	t.Helper()
	var resp struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp), "output: %s", out)
	require.Equal(t, "ok", resp.Status)
	require.NoError(t, json.Unmarshal(resp.Data, v))
}
