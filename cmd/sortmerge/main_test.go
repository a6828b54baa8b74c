package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"go.cubebuild.tech/sortmerge/merge"
	"go.cubebuild.tech/sortmerge/rows"
	"go.cubebuild.tech/sortmerge/sparkjob"
)

func TestNewExecutable(t *testing.T) {
	e, err := newExecutable("org.cube.BuildCuboid", "", []string{"segment=seg-1", "filter=a=b"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"-className", "org.cube.BuildCuboid",
		"-segment", "seg-1",
		"-filter", "a=b",
	}, e.FormatArgs())

	_, ok := e.Param("jars")
	assert.False(t, ok)

	_, err = newExecutable("org.cube.BuildCuboid", "", []string{"segment"})
	require.Error(t, err)

	_, err = newExecutable("org.cube.BuildCuboid", "", []string{"=x"})
	require.Error(t, err)
}

func TestPrintResult(t *testing.T) {
	var buf bytes.Buffer
	printResult(&buf, &sparkjob.Result{
		State: sparkjob.StateSucceed,
		Info: map[string]string{
			sparkjob.InfoTrackingURL:   "http://rm:8088/proxy/application_1_2/",
			sparkjob.InfoFinalStatus:   "SUCCEEDED",
			sparkjob.InfoApplicationID: "application_1_2",
		},
	})

	assert.Equal(t, "final_status: SUCCEEDED\n"+
		"tracking_url: http://rm:8088/proxy/application_1_2/\n"+
		"yarn_application_id: application_1_2\n"+
		"state: succeed\n", buf.String())
}

func TestStderrLogger(t *testing.T) {
	defer func() { flagVerbose = false }()

	l := newStderrLogger("reduce")
	assert.False(t, l.L.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, l.L.Core().Enabled(zapcore.InfoLevel))

	flagVerbose = true
	l = newStderrLogger("submit")
	assert.True(t, l.L.Core().Enabled(zapcore.DebugLevel))
}

func TestReduceCommand(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.yson")
	output := filepath.Join(dir, "out.yson")
	metricsOut := filepath.Join(dir, "metrics.txt")

	require.NoError(t, os.WriteFile(input, []byte(`
{key=a;value=x;};
{key=a;value=y;};
{key=b;value=z;};
`), 0o644))

	rootCmd.SetArgs([]string{
		"reduce",
		"--log-to-stderr",
		"--reducer", "concat",
		"--params", "{separator=\",\"}",
		"--input", input,
		"--output", output,
		"--format", "binary",
		"--metrics-out", metricsOut,
	})
	require.NoError(t, rootCmd.Execute())

	content, err := os.ReadFile(output)
	require.NoError(t, err)

	out, err := merge.Collect[any, any](rows.NewReader(bytes.NewReader(content)))
	require.NoError(t, err)
	assert.Equal(t, []merge.Pair[any, any]{
		{Key: "a", Value: "x,y"},
		{Key: "b", Value: "z"},
	}, out)

	metrics, err := os.ReadFile(metricsOut)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "groups_written")
}

func TestReducersCommand(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	defer rootCmd.SetOut(nil)

	rootCmd.SetArgs([]string{"reducers"})
	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, buf.String(), "concat\n")
	assert.Contains(t, buf.String(), "distinct\n")
}
