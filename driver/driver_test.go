package driver_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/curate"
	"github.com/fwojciec/curate/agent"
	"github.com/fwojciec/curate/driver"
	"github.com/fwojciec/curate/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// evalFunc adapts a function to the driver.Evaluator interface.
type evalFunc func(ctx context.Context, preference, document string) (curate.Verdict, curate.Trajectory, error)

func (f evalFunc) Evaluate(ctx context.Context, preference, document string) (curate.Verdict, curate.Trajectory, error) {
	return f(ctx, preference, document)
}

func staticSource(docs ...string) *mock.Source {
	return &mock.Source{
		ProduceFn: func(_ context.Context) ([]string, error) {
			return docs, nil
		},
	}
}

func TestDriver_Run(t *testing.T) {
	t.Parallel()

	t.Run("accepted documents produce report blocks by original index", func(t *testing.T) {
		t.Parallel()

		source := staticSource("paper one", "paper two", "paper three")
		eval := evalFunc(func(_ context.Context, pref, doc string) (curate.Verdict, curate.Trajectory, error) {
			assert.Equal(t, "only distributed systems papers", pref)
			accepted := doc != "paper two"
			return curate.Verdict{Decision: accepted, Remarks: "remarks for " + doc}, nil, nil
		})

		outPath := filepath.Join(t.TempDir(), "report.txt")
		d := driver.New(source, eval, "only distributed systems papers")

		records, err := d.Run(context.Background(), outPath)
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, 1, records[0].Index)
		assert.True(t, records[0].Decision)
		assert.False(t, records[1].Decision)
		assert.True(t, records[2].Decision)

		data, err := os.ReadFile(outPath)
		require.NoError(t, err)
		report := string(data)
		assert.Contains(t, report, "# Paper 1 / 3")
		assert.Contains(t, report, "# Paper 3 / 3")
		assert.NotContains(t, report, "# Paper 2 / 3")
		assert.Contains(t, report, "## Information:\npaper one")
		assert.Contains(t, report, "## Remarks:\nremarks for paper three")
		assert.Equal(t, 2, strings.Count(report, "# Paper "))
	})

	t.Run("exactly one record per document", func(t *testing.T) {
		t.Parallel()

		source := staticSource("a", "b", "c", "d")
		eval := evalFunc(func(_ context.Context, _, _ string) (curate.Verdict, curate.Trajectory, error) {
			return curate.Verdict{Decision: false, Remarks: "no"}, nil, nil
		})

		d := driver.New(source, eval, "pref")
		records, err := d.Run(context.Background(), filepath.Join(t.TempDir(), "report.txt"))
		require.NoError(t, err)
		assert.Len(t, records, 4)
	})

	t.Run("source failure is fatal before any output exists", func(t *testing.T) {
		t.Parallel()

		source := &mock.Source{
			ProduceFn: func(_ context.Context) ([]string, error) {
				return nil, errors.New("listing unreachable")
			},
		}
		eval := evalFunc(func(_ context.Context, _, _ string) (curate.Verdict, curate.Trajectory, error) {
			t.Fatal("evaluator should not be called")
			return curate.Verdict{}, nil, nil
		})

		outPath := filepath.Join(t.TempDir(), "report.txt")
		d := driver.New(source, eval, "pref", driver.WithTrajectoryLog(true))

		_, err := d.Run(context.Background(), outPath)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "acquire documents")

		_, statErr := os.Stat(outPath)
		assert.True(t, os.IsNotExist(statErr))
		_, statErr = os.Stat(driver.TrajectoryPath(outPath))
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("evaluator failure keeps earlier blocks on disk", func(t *testing.T) {
		t.Parallel()

		source := staticSource("good", "bad", "never reached")
		eval := evalFunc(func(_ context.Context, _, doc string) (curate.Verdict, curate.Trajectory, error) {
			if doc == "bad" {
				return curate.Verdict{}, nil, errors.New("engine unreachable")
			}
			return curate.Verdict{Decision: true, Remarks: "ok"}, nil, nil
		})

		outPath := filepath.Join(t.TempDir(), "report.txt")
		d := driver.New(source, eval, "pref")

		records, err := d.Run(context.Background(), outPath)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "document 2/3")
		require.Len(t, records, 1)

		data, readErr := os.ReadFile(outPath)
		require.NoError(t, readErr)
		assert.Contains(t, string(data), "# Paper 1 / 3")
		assert.Equal(t, 1, strings.Count(string(data), "# Paper "))
	})

	t.Run("trajectory file gets one block per document when enabled", func(t *testing.T) {
		t.Parallel()

		source := staticSource("one", "two")
		eval := evalFunc(func(_ context.Context, _, doc string) (curate.Verdict, curate.Trajectory, error) {
			traj := curate.Trajectory{{Index: 0, Thought: "about " + doc, ToolName: "search", Observation: "found"}}
			return curate.Verdict{Decision: doc == "one", Remarks: "r"}, traj, nil
		})

		outPath := filepath.Join(t.TempDir(), "report.txt")
		d := driver.New(source, eval, "pref", driver.WithTrajectoryLog(true))

		_, err := d.Run(context.Background(), outPath)
		require.NoError(t, err)

		data, err := os.ReadFile(driver.TrajectoryPath(outPath))
		require.NoError(t, err)
		log := string(data)
		assert.Contains(t, log, "# Trajectory: Paper 1 / 2 (1 steps)")
		assert.Contains(t, log, "# Trajectory: Paper 2 / 2 (1 steps)")
		assert.Contains(t, log, "**Thought:** about two")
		assert.Contains(t, log, "**Decision:** false")
	})

	t.Run("no trajectory file when disabled", func(t *testing.T) {
		t.Parallel()

		source := staticSource("one")
		eval := evalFunc(func(_ context.Context, _, _ string) (curate.Verdict, curate.Trajectory, error) {
			return curate.Verdict{Decision: true, Remarks: "r"}, nil, nil
		})

		outPath := filepath.Join(t.TempDir(), "report.txt")
		d := driver.New(source, eval, "pref")

		_, err := d.Run(context.Background(), outPath)
		require.NoError(t, err)

		_, statErr := os.Stat(driver.TrajectoryPath(outPath))
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("deterministic evaluator makes re-runs identical", func(t *testing.T) {
		t.Parallel()

		source := staticSource("alpha", "beta")
		eval := evalFunc(func(_ context.Context, _, doc string) (curate.Verdict, curate.Trajectory, error) {
			return curate.Verdict{Decision: len(doc) == 5, Remarks: fmt.Sprintf("len=%d", len(doc))}, nil, nil
		})

		dir := t.TempDir()
		first := filepath.Join(dir, "first.txt")
		second := filepath.Join(dir, "second.txt")

		recordsA, err := driver.New(source, eval, "pref").Run(context.Background(), first)
		require.NoError(t, err)
		recordsB, err := driver.New(source, eval, "pref").Run(context.Background(), second)
		require.NoError(t, err)

		assert.Equal(t, recordsA, recordsB)
		dataA, err := os.ReadFile(first)
		require.NoError(t, err)
		dataB, err := os.ReadFile(second)
		require.NoError(t, err)
		assert.Equal(t, dataA, dataB)
	})
}

// TestDriver_Run_WithAgentLoop exercises the driver with a real agent
// loop whose engine never finishes, to check the budget path end to end.
func TestDriver_Run_WithAgentLoop(t *testing.T) {
	t.Parallel()

	engine := &mock.Engine{
		StepFn: func(_ context.Context, _ curate.StepRequest) (curate.Step, error) {
			return curate.ThoughtAction{Thought: "still thinking", Call: curate.ToolCall{Name: "search"}}, nil
		},
	}
	tools := &mock.Toolbox{
		InvokeFn: func(_ context.Context, _ string, _ json.RawMessage) ([]string, error) {
			return []string{"snippet"}, nil
		},
	}
	loop := agent.New(engine, tools, agent.WithMaxIterations(2))

	outPath := filepath.Join(t.TempDir(), "report.txt")
	d := driver.New(staticSource("stubborn paper"), loop, "pref", driver.WithTrajectoryLog(true))

	records, err := d.Run(context.Background(), outPath)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.False(t, records[0].Decision)
	assert.Contains(t, records[0].Remarks, "iteration budget of 2 exhausted")

	data, err := os.ReadFile(driver.TrajectoryPath(outPath))
	require.NoError(t, err)
	log := string(data)
	assert.Contains(t, log, "(2 steps)")
	assert.Contains(t, log, "## Step 0")
	assert.Contains(t, log, "## Step 1")
	assert.NotContains(t, log, "## Step 2")

	// The report stays empty: the document was not accepted.
	report, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Empty(t, report)
}
