package startup

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"driftblog/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Setup(logger.DevelopmentEnvironment)
	m.Run()
}

func newTestOrchestrator(t *testing.T) (*Orchestrator, *[]string) {
	t.Helper()

	calls := &[]string{}
	o := New(Options{
		DataDir:      filepath.Join(t.TempDir(), "data"),
		StaticSource: t.TempDir(),
		SettleDelay:  time.Second,
	},
		func(ctx context.Context) error {
			*calls = append(*calls, "migrate")

			return nil
		},
		func(ctx context.Context) (bool, error) {
			*calls = append(*calls, "superuser")

			return true, nil
		})
	o.collect = func(ctx context.Context, src, dest string) (int, error) {
		*calls = append(*calls, "collect")

		return 0, nil
	}
	o.sleep = func(d time.Duration) {
		*calls = append(*calls, "sleep")
	}

	return o, calls
}

func TestRun_CreatesDataDirectories(t *testing.T) {
	o, _ := newTestOrchestrator(t)

	require.NoError(t, o.Run(context.Background()))

	for _, dir := range []string{
		o.options.DataDir,
		MediaDir(o.options.DataDir),
		StaticRoot(o.options.DataDir),
	} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		require.True(t, info.IsDir())
	}

	// a second run against the populated volume must succeed unchanged
	require.NoError(t, o.Run(context.Background()))
}

func TestRun_StepOrder(t *testing.T) {
	o, calls := newTestOrchestrator(t)

	require.NoError(t, o.Run(context.Background()))
	require.Equal(t, []string{"sleep", "migrate", "collect", "superuser"}, *calls)
}

func TestRun_SkipsSleepWithoutDelay(t *testing.T) {
	o, calls := newTestOrchestrator(t)
	o.options.SettleDelay = 0

	require.NoError(t, o.Run(context.Background()))
	require.Equal(t, []string{"migrate", "collect", "superuser"}, *calls)
}

func TestRun_MigrationFailureAborts(t *testing.T) {
	o, calls := newTestOrchestrator(t)
	migrateErr := errors.New("schema broken")
	o.migrate = func(ctx context.Context) error {
		*calls = append(*calls, "migrate")

		return migrateErr
	}

	err := o.Run(context.Background())
	require.ErrorIs(t, err, migrateErr)
	// nothing after the migration step may run
	require.Equal(t, []string{"sleep", "migrate"}, *calls)
}

func TestRun_CollectFailureContinues(t *testing.T) {
	o, calls := newTestOrchestrator(t)
	o.collect = func(ctx context.Context, src, dest string) (int, error) {
		*calls = append(*calls, "collect")

		return 0, errors.New("disk full")
	}

	require.NoError(t, o.Run(context.Background()))
	require.Contains(t, *calls, "superuser")
}

func TestRun_SuperuserCheckFailureContinues(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	o.superuserExists = func(ctx context.Context) (bool, error) {
		return false, errors.New("connection refused")
	}

	require.NoError(t, o.Run(context.Background()))
}

func TestRun_NoSuperuserIsNotAnError(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	o.superuserExists = func(ctx context.Context) (bool, error) {
		return false, nil
	}

	require.NoError(t, o.Run(context.Background()))
}
