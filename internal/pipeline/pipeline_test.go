package pipeline

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelora-dev/kelora/internal/config"
	"github.com/kelora-dev/kelora/internal/reader"
	"github.com/kelora-dev/kelora/internal/sink"
	"github.com/kelora-dev/kelora/internal/stats"
	"github.com/kelora-dev/kelora/internal/testutil"
)

func runLines(t *testing.T, cfg *config.Config, input string) (stats.Report, string) {
	t.Helper()

	var buf bytes.Buffer
	out := sink.NewWriter(&buf)
	p, err := New(cfg, out, testutil.NewTestLogger())
	require.NoError(t, err)

	src := reader.NewScanner(strings.NewReader(input))
	report, err := p.Run(context.Background(), src)
	require.NoError(t, err)
	require.NoError(t, out.Close())
	return report, buf.String()
}

func baseConfig(inFormat, outFormat string) *config.Config {
	return &config.Config{
		Input:  config.InputConfig{Format: inFormat},
		Output: config.OutputConfig{Format: outFormat},
	}
}

func TestRunJSONLScenario(t *testing.T) {
	input := `{"level":"ERROR","message":"x"}
{bad}
{"level":"INFO","message":"y"}
`
	report, out := runLines(t, baseConfig("jsonl", "jsonl"), input)

	assert.Equal(t, 2, report.EventsShown)
	assert.Equal(t, 1, report.ParseErrors)
	assert.Equal(t, 3, report.LinesSeen)
	assert.Equal(t, 0, report.Filtered)

	require.Len(t, report.Levels, 2)
	assert.Equal(t, stats.LevelCount{Level: "ERROR", Count: 1}, report.Levels[0])
	assert.Equal(t, stats.LevelCount{Level: "INFO", Count: 1}, report.Levels[1])

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `{"level":"ERROR","message":"x"}`, lines[0])
	assert.Equal(t, `{"level":"INFO","message":"y"}`, lines[1])
}

func TestRunSkipsBlankLines(t *testing.T) {
	input := "a=1\n\n   \nb=2\n"
	report, out := runLines(t, baseConfig("logfmt", "default"), input)

	assert.Equal(t, 4, report.LinesSeen)
	assert.Equal(t, 2, report.EventsShown)
	assert.Equal(t, 0, report.ParseErrors)
	assert.Equal(t, "a=1\nb=2\n", out)
}

func TestRunLevelFilterCounts(t *testing.T) {
	cfg := baseConfig("logfmt", "default")
	cfg.Filter.Levels = []string{"error"}

	input := `level=error msg=boom
level=info msg=fine
msg=nolevel
`
	report, out := runLines(t, cfg, input)

	assert.Equal(t, 1, report.EventsShown)
	assert.Equal(t, 2, report.Filtered) // info and the level-less event
	assert.Equal(t, 0, report.ParseErrors)
	assert.Equal(t, `level="error" msg="boom"`+"\n", out)
}

func TestRunCrossFormatRendering(t *testing.T) {
	cfg := baseConfig("logfmt", "jsonl")
	_, out := runLines(t, cfg, "b=1 a=two\n")

	// JSONL output keeps the mapping's parse order.
	assert.Equal(t, `{"b":1,"a":"two"}`+"\n", out)
}

func TestRunIncludeOnlyProjection(t *testing.T) {
	cfg := baseConfig("logfmt", "default")
	cfg.Filter.Keys = []string{"msg"}
	cfg.Filter.IncludeOnly = true

	report, out := runLines(t, cfg, "level=info msg=hello user=ada\n")

	// Projection changes shape, not inclusion: still shown, histogram still
	// sees the pre-projection level.
	assert.Equal(t, 1, report.EventsShown)
	assert.Equal(t, 0, report.Filtered)
	require.Len(t, report.Levels, 1)
	assert.Equal(t, "INFO", report.Levels[0].Level)
	assert.Equal(t, `msg="hello"`+"\n", out)
}

func TestRunCommonFieldsProjection(t *testing.T) {
	cfg := baseConfig("logfmt", "default")
	cfg.Filter.CommonOnly = true

	_, out := runLines(t, cfg, "ts=2024-03-05T10:30:00Z level=info user=ada msg=hi\n")
	assert.Equal(t, `level="info" msg="hi" ts="2024-03-05T10:30:00Z"`+"\n", out)
}

func TestRunParseErrorsAreRecoverable(t *testing.T) {
	input := `ok=1
="broken
ok=2
`
	report, out := runLines(t, baseConfig("logfmt", "default"), input)

	assert.Equal(t, 2, report.EventsShown)
	assert.Equal(t, 1, report.ParseErrors)
	assert.Equal(t, "ok=1\nok=2\n", out)
}

func TestRunCounterInvariant(t *testing.T) {
	cfg := baseConfig("jsonl", "jsonl")
	cfg.Filter.Levels = []string{"warn"}

	input := `{"level":"warn"}

{"level":"info"}
not json
{"level":"WARN"}
`
	report, _ := runLines(t, cfg, input)

	blank := 1
	assert.Equal(t, report.LinesSeen-blank,
		report.EventsShown+report.Filtered+report.ParseErrors)
	assert.Equal(t, 2, report.EventsShown)
	assert.Equal(t, 1, report.Filtered)
	assert.Equal(t, 1, report.ParseErrors)
}

func TestRunHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	p, err := New(baseConfig("logfmt", "default"), sink.NewWriter(&buf), testutil.NewTestLogger())
	require.NoError(t, err)

	_, err = p.Run(ctx, reader.NewScanner(strings.NewReader("a=1\n")))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, buf.String())
}

func TestNewRejectsUnknownFormats(t *testing.T) {
	_, err := New(baseConfig("csv", "default"), sink.NewWriter(&bytes.Buffer{}), testutil.NewTestLogger())
	assert.Error(t, err)

	_, err = New(baseConfig("logfmt", "xml"), sink.NewWriter(&bytes.Buffer{}), testutil.NewTestLogger())
	assert.Error(t, err)
}
