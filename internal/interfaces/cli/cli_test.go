package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/pickem-standings/internal/config"
	"github.com/riskibarqy/pickem-standings/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/pickem-standings/internal/platform/logging"
)

func testConfig() config.Config {
	return config.Config{
		AppEnv:                  config.EnvDev,
		ServiceName:             "pickem-scorer",
		LogLevel:                logging.LevelError,
		LogFormat:               logging.FormatJSON,
		StoreDriver:             config.StoreMemory,
		DBSeedOnStart:           true,
		OpsHTTPAddr:             ":0",
		ScoringSeasons:          []int{memory.SeedSeason},
		ScoringSweepCron:        "*/15 * * * *",
		ScoringLivePollInterval: time.Minute,
		ScoringSweepWorkers:     2,
		ScoringLivePollWorkers:  2,
		ScoringRunTimeout:       5 * time.Second,
		ScoringLiveLookback:     12 * time.Hour,
		ScoringErrorLogSize:     10,
	}
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand(&RootOptions{
		loadConfig: func() (config.Config, error) { return testConfig(), nil },
		logOutput:  io.Discard,
	})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCalculate_PrintsWinners(t *testing.T) {
	out, err := runCommand(t, "calculate", "2025-W01")
	require.NoError(t, err)

	var got struct {
		WeekComplete bool `json:"week_complete"`
		Participants int  `json:"participants"`
		Winners      []struct {
			UserID string `json:"user_id"`
		} `json:"winners"`
	}
	require.NoError(t, sonic.UnmarshalString(out, &got))
	assert.True(t, got.WeekComplete)
	assert.Equal(t, 3, got.Participants)
	require.Len(t, got.Winners, 1)
	assert.Equal(t, "user-alice", got.Winners[0].UserID)
}

func TestCalculate_RejectsBadArguments(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "malformed key", args: []string{"calculate", "week-one"}},
		{name: "zero week", args: []string{"calculate", "2025-W00"}},
		{name: "unknown trigger", args: []string{"calculate", "2025-W01", "--trigger", "manual"}},
		{name: "missing key", args: []string{"calculate"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := runCommand(t, tc.args...)
			assert.Error(t, err)
		})
	}
}

func TestEnsure_IncompleteWeekStillScores(t *testing.T) {
	out, err := runCommand(t, "ensure", "2025-W02")
	require.NoError(t, err)

	var got struct {
		Outcome struct {
			Ran    bool   `json:"ran"`
			Reason string `json:"reason"`
		} `json:"outcome"`
		WeekComplete bool  `json:"week_complete"`
		Winners      []any `json:"winners"`
	}
	require.NoError(t, sonic.UnmarshalString(out, &got))
	assert.True(t, got.Outcome.Ran)
	assert.Equal(t, "missing_scores", got.Outcome.Reason)
	assert.False(t, got.WeekComplete)
	assert.Empty(t, got.Winners)
}

func TestVerify_FreshStoreIsConsistent(t *testing.T) {
	out, err := runCommand(t, "verify", "2025-W01", "--fail-on-drift")
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, `"consistent":true`), "unexpected output: %s", out)
}

func TestSweep_DefaultsToConfiguredSeasons(t *testing.T) {
	out, err := runCommand(t, "sweep")
	require.NoError(t, err)

	var got []struct {
		Season int `json:"season"`
		Failed int `json:"failed"`
	}
	require.NoError(t, sonic.UnmarshalString(out, &got))
	require.Len(t, got, 1)
	assert.Equal(t, memory.SeedSeason, got[0].Season)
	assert.Zero(t, got[0].Failed)
}

func TestHealth_EmptyStoreIsHealthy(t *testing.T) {
	out, err := runCommand(t, "health")
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, `"healthy":true`), "unexpected output: %s", out)
}

func TestStandings_Subcommands(t *testing.T) {
	out, err := runCommand(t, "standings", "season", "2025")
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, `"season":2025`), "unexpected output: %s", out)

	_, err = runCommand(t, "standings", "season", "twenty")
	assert.Error(t, err)

	out, err = runCommand(t, "--pretty", "standings", "week", "2025-W01")
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, "\n  "), "expected indented output: %s", out)
}

func TestWithApp_ConfigErrorIsWrapped(t *testing.T) {
	cmd := newRootCommand(&RootOptions{
		loadConfig: func() (config.Config, error) { return config.Config{}, crerr.New("DB_URL is required") },
		logOutput:  io.Discard,
	})
	cmd.SetOut(io.Discard)
	cmd.SetArgs([]string{"health"})

	err := cmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}
