package fallback

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	calls []string
}

func (r *recorder) fail(name string) Attempt[string] {
	return Attempt[string]{Name: name, Do: func(context.Context) (string, error) {
		r.calls = append(r.calls, name)
		return "", fmt.Errorf("%s failed", name)
	}}
}

func (r *recorder) succeed(name string) Attempt[string] {
	return Attempt[string]{Name: name, Do: func(context.Context) (string, error) {
		r.calls = append(r.calls, name)
		return "value from " + name, nil
	}}
}

func TestFirst_AlwaysSucceedStopsImmediately(t *testing.T) {
	var r recorder
	got, outcome, err := First(context.Background(), r.succeed("a"), r.succeed("b"))

	require.NoError(t, err)
	assert.Equal(t, "value from a", got)
	assert.Equal(t, "a", outcome.Winner)
	assert.Empty(t, outcome.Failures)
	assert.Equal(t, []string{"a"}, r.calls)
}

func TestFirst_SucceedOnNth(t *testing.T) {
	var r recorder
	got, outcome, err := First(context.Background(),
		r.fail("direct"), r.fail("proxy-1"), r.succeed("proxy-2"), r.succeed("proxy-3"))

	require.NoError(t, err)
	assert.Equal(t, "value from proxy-2", got)
	assert.Equal(t, "proxy-2", outcome.Winner)
	require.Len(t, outcome.Failures, 2)
	assert.Equal(t, "direct", outcome.Failures[0].Name)
	assert.Equal(t, []string{"direct", "proxy-1", "proxy-2"}, r.calls, "no attempt after the winner may run")
}

func TestFirst_AlwaysFail(t *testing.T) {
	var r recorder
	_, _, err := First(context.Background(), r.fail("direct"), r.fail("p1"), r.fail("p2"))

	var exhausted *ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, []string{"direct", "p1", "p2"}, exhausted.Names())
	assert.EqualError(t, exhausted.Last(), "p2 failed")
	assert.Contains(t, err.Error(), "all 3 sources failed (direct, p1, p2)")
	assert.Contains(t, err.Error(), "last error: p2 failed")
	assert.Equal(t, []string{"direct", "p1", "p2"}, r.calls, "each attempt tried exactly once")
}

func TestFirst_UnwrapReachesLastError(t *testing.T) {
	sentinel := errors.New("sentinel")
	_, _, err := First(context.Background(), Attempt[int]{Name: "only", Do: func(context.Context) (int, error) {
		return 0, fmt.Errorf("wrapped: %w", sentinel)
	}})
	assert.ErrorIs(t, err, sentinel)
}

func TestFirst_NoAttempts(t *testing.T) {
	_, _, err := First[string](context.Background())
	assert.ErrorIs(t, err, ErrNoAttempts)
}

func TestFirst_CancelledContextAbortsChain(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var r recorder

	cancelling := Attempt[string]{Name: "first", Do: func(context.Context) (string, error) {
		r.calls = append(r.calls, "first")
		cancel()
		return "", errors.New("first failed")
	}}

	_, _, err := First(ctx, cancelling, r.succeed("second"))

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	var exhausted *ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, []string{"first"}, exhausted.Names())
	assert.Equal(t, []string{"first"}, r.calls)
}

func TestFirst_AlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var r recorder

	_, _, err := First(ctx, r.succeed("a"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, r.calls)
}
