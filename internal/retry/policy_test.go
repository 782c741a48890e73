package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
)

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	require.Equal(t, config.RetryBackoffLinear, p.Mode)
	require.Equal(t, time.Second, p.Initial)
	require.Equal(t, 30*time.Second, p.Max)
	require.Equal(t, 2, p.MaxRetries)
}

// TestNewPolicyOverrides checks override precedence and clamping when initial > max.
func TestNewPolicyOverrides(t *testing.T) {
	p := NewPolicy(config.RetryBackoffFixed, 5*time.Second, 2*time.Second, 5)
	require.Equal(t, 2*time.Second, p.Initial)
	require.Equal(t, 2*time.Second, p.Max)
	require.Equal(t, config.RetryBackoffFixed, p.Mode)
	require.Equal(t, 5, p.MaxRetries)

	p = NewPolicy("bogus", 0, 0, -1)
	require.Equal(t, DefaultPolicy(), p)
}

func TestFromFetch(t *testing.T) {
	f := config.DefaultFetch()
	f.RetryBackoff = config.RetryBackoffExponential
	f.RetryInitial = "200ms"
	f.MaxRetries = 4

	p := FromFetch(f)
	require.Equal(t, config.RetryBackoffExponential, p.Mode)
	require.Equal(t, 200*time.Millisecond, p.Initial)
	require.Equal(t, 30*time.Second, p.Max)
	require.Equal(t, 4, p.MaxRetries)
}

func TestDelayModes(t *testing.T) {
	ms := time.Millisecond
	cases := []struct {
		name    string
		policy  Policy
		attempt int
		want    time.Duration
	}{
		{"fixed", NewPolicy(config.RetryBackoffFixed, 100*ms, 500*ms, 3), 3, 100 * ms},
		{"linear 1", NewPolicy(config.RetryBackoffLinear, 100*ms, 250*ms, 5), 1, 100 * ms},
		{"linear 2", NewPolicy(config.RetryBackoffLinear, 100*ms, 250*ms, 5), 2, 200 * ms},
		{"linear cap", NewPolicy(config.RetryBackoffLinear, 100*ms, 250*ms, 5), 3, 250 * ms},
		{"exp 2", NewPolicy(config.RetryBackoffExponential, 50*ms, 160*ms, 5), 2, 100 * ms},
		{"exp cap", NewPolicy(config.RetryBackoffExponential, 50*ms, 160*ms, 5), 3, 160 * ms},
		{"exp overflow", NewPolicy(config.RetryBackoffExponential, 50*ms, 160*ms, 5), 80, 160 * ms},
		{"zero attempt", NewPolicy(config.RetryBackoffLinear, 10*ms, 20*ms, 1), 0, 0},
		{"negative attempt", NewPolicy(config.RetryBackoffLinear, 10*ms, 20*ms, 1), -1, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tc.policy.Delay(tc.attempt))
		})
	}
}

func TestValidate(t *testing.T) {
	require.Error(t, Policy{Mode: config.RetryBackoffLinear, Initial: 0, Max: time.Second, MaxRetries: 1}.Validate())
	require.Error(t, Policy{Mode: config.RetryBackoffLinear, Initial: time.Second, Max: 0, MaxRetries: 1}.Validate())
	require.Error(t, Policy{Mode: config.RetryBackoffLinear, Initial: time.Second, Max: time.Second, MaxRetries: -1}.Validate())
	require.NoError(t, DefaultPolicy().Validate())
}

func TestDo(t *testing.T) {
	p := NewPolicy(config.RetryBackoffFixed, time.Millisecond, time.Millisecond, 2)
	transient := errors.New("transient")

	calls := 0
	var retried []int
	err := p.Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return transient
		}
		return nil
	}, nil, func(attempt int, _ time.Duration, err error) {
		require.ErrorIs(t, err, transient)
		retried = append(retried, attempt)
	})
	require.NoError(t, err)
	require.Equal(t, 3, calls)
	require.Equal(t, []int{1, 2}, retried)

	calls = 0
	err = p.Do(context.Background(), func(context.Context) error { calls++; return transient }, nil, nil)
	require.ErrorIs(t, err, transient)
	require.Equal(t, 3, calls)

	calls = 0
	permanent := errors.New("permanent")
	err = p.Do(context.Background(), func(context.Context) error { calls++; return permanent },
		func(err error) bool { return !errors.Is(err, permanent) }, nil)
	require.ErrorIs(t, err, permanent)
	require.Equal(t, 1, calls)
}

func TestDo_Canceled(t *testing.T) {
	p := NewPolicy(config.RetryBackoffFixed, time.Hour, time.Hour, 3)
	ctx, cancel := context.WithCancel(context.Background())

	err := p.Do(ctx, func(context.Context) error { return errors.New("x") }, nil,
		func(int, time.Duration, error) { cancel() })
	require.ErrorIs(t, err, context.Canceled)
}
