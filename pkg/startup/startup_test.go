package startup

import (
	"context"
	"fmt"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func recordingDep(name string, needs []string, trail *[]string) Dep {
	return Dep{
		Name:  name,
		Needs: needs,
		OnStart: func(ctx context.Context) error {
			*trail = append(*trail, "start:"+name)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			*trail = append(*trail, "stop:"+name)
			return nil
		},
	}
}

func TestStartHonorsDependencyOrder(t *testing.T) {
	var trail []string
	boot := NewStartup(noopLogger(), 1)
	// Registered out of order on purpose; DependsOn must still win.
	boot.AddDependency(recordingDep("server", []string{"database", "sink"}, &trail))
	boot.AddDependency(recordingDep("database", nil, &trail))
	boot.AddDependency(recordingDep("sink", nil, &trail))

	require.NoError(t, boot.Start(context.Background()))

	assert.Equal(t, []string{"start:database", "start:sink", "start:server"}, trail)
}

func TestStopReversesRegistrationOrder(t *testing.T) {
	var trail []string
	boot := NewStartup(noopLogger(), 1)
	boot.AddDependency(recordingDep("database", nil, &trail))
	boot.AddDependency(recordingDep("sink", nil, &trail))
	boot.AddDependency(recordingDep("server", []string{"database", "sink"}, &trail))

	require.NoError(t, boot.Start(context.Background()))
	trail = nil
	require.NoError(t, boot.Stop(context.Background()))

	assert.Equal(t, []string{"stop:server", "stop:sink", "stop:database"}, trail)
}

func TestStartRetriesFailedDependency(t *testing.T) {
	attempts := 0
	boot := NewStartup(noopLogger(), 2)
	boot.AddDependency(Dep{
		Name: "flaky",
		OnStart: func(ctx context.Context) error {
			attempts++
			if attempts < 2 {
				return fmt.Errorf("not yet")
			}
			return nil
		},
	})

	require.NoError(t, boot.Start(context.Background()))
	assert.Equal(t, 2, attempts)
}

func TestStartGivesUpAfterMaxAttempts(t *testing.T) {
	boot := NewStartup(noopLogger(), 2)
	boot.AddDependency(Dep{
		Name: "down",
		OnStart: func(ctx context.Context) error {
			return fmt.Errorf("connection refused")
		},
	})

	err := boot.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 attempts")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestStartRejectsUnknownDependency(t *testing.T) {
	boot := NewStartup(noopLogger(), 1)
	boot.AddDependency(Dep{Name: "server", Needs: []string{"ghost"}})

	err := boot.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}

func TestStopSkipsNeverStartedDependencies(t *testing.T) {
	var trail []string
	boot := NewStartup(noopLogger(), 1)
	boot.AddDependency(recordingDep("database", nil, &trail))
	boot.AddDependency(Dep{
		Name:    "broken",
		OnStart: func(ctx context.Context) error { return fmt.Errorf("boom") },
		OnStop: func(ctx context.Context) error {
			trail = append(trail, "stop:broken")
			return nil
		},
	})

	require.Error(t, boot.Start(context.Background()))
	trail = nil
	require.NoError(t, boot.Stop(context.Background()))

	assert.Equal(t, []string{"stop:database"}, trail)
}
