/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package poller

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/otelcapture/pkg/logger"
)

// fakeClock advances by the sleep interval on every After call, making the
// wait loop fully deterministic.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	c.now = c.now.Add(d)

	ch := make(chan time.Time, 1)
	ch <- c.now

	return ch
}

func TestWaitForContentStabilizes(t *testing.T) {
	// A producer that emits 3 batches across separate flushes and then
	// stops: reads observe [1], [2], [3], [3].
	reads := [][]string{
		{"b1"},
		{"b1", "b2"},
		{"b1", "b2", "b3"},
		{"b1", "b2", "b3"},
	}

	var calls int

	getExport := func(context.Context) ([]string, error) {
		current := reads[calls]
		calls++

		return current, nil
	}

	result, err := waitForContent(context.Background(), &fakeClock{},
		20*time.Second, 100*time.Millisecond, logger.NewTestLogger(),
		getExport, stableAndNonEmpty[string])

	require.NoError(t, err)
	assert.Equal(t, []string{"b1", "b2", "b3"}, result)
	// Returned on the first stable read, not after waiting out the deadline.
	assert.Equal(t, 4, calls)
}

func TestWaitForContentEmptyIsNotStable(t *testing.T) {
	// Two consecutive empty reads must not count as quiescence.
	reads := [][]string{
		{},
		{},
		{"b1"},
		{"b1"},
	}

	var calls int

	getExport := func(context.Context) ([]string, error) {
		current := reads[calls]
		calls++

		return current, nil
	}

	result, err := waitForContent(context.Background(), &fakeClock{},
		20*time.Second, 100*time.Millisecond, logger.NewTestLogger(),
		getExport, stableAndNonEmpty[string])

	require.NoError(t, err)
	assert.Len(t, result, 1)
	assert.Equal(t, 4, calls)
}

func TestWaitForContentTimeout(t *testing.T) {
	const (
		timeout  = 20 * time.Second
		interval = 100 * time.Millisecond
	)

	var calls int

	getExport := func(context.Context) ([]string, error) {
		calls++
		return nil, nil
	}

	_, err := waitForContent(context.Background(), &fakeClock{},
		timeout, interval, logger.NewTestLogger(),
		getExport, stableAndNonEmpty[string])

	require.ErrorIs(t, err, ErrWaitTimeout)
	// The loop polls once per interval until the deadline.
	assert.Equal(t, int(timeout/interval), calls)
}

func TestWaitForContentRetriesReadErrors(t *testing.T) {
	errTransient := errors.New("connection reset")

	var calls int

	getExport := func(context.Context) ([]string, error) {
		calls++

		if calls <= 2 {
			return nil, errTransient
		}

		return []string{"b1"}, nil
	}

	result, err := waitForContent(context.Background(), &fakeClock{},
		20*time.Second, 100*time.Millisecond, logger.NewTestLogger(),
		getExport, stableAndNonEmpty[string])

	require.NoError(t, err)
	assert.Len(t, result, 1)
	// Two failed reads, then two successful ones to establish stability.
	assert.Equal(t, 4, calls)
}

func TestWaitForContentReadErrorsUntilDeadline(t *testing.T) {
	errDown := errors.New("server down")

	getExport := func(context.Context) ([]string, error) {
		return nil, errDown
	}

	_, err := waitForContent(context.Background(), &fakeClock{},
		time.Second, 100*time.Millisecond, logger.NewTestLogger(),
		getExport, stableAndNonEmpty[string])

	// Read errors never abort the wait early; the deadline converts them
	// into a timeout.
	require.ErrorIs(t, err, ErrWaitTimeout)
	require.NotErrorIs(t, err, errDown)
}

func TestWaitForContentContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	getExport := func(context.Context) ([]string, error) {
		cancel()
		return nil, nil
	}

	_, err := waitForContent(ctx, &fakeClock{},
		20*time.Second, 100*time.Millisecond, logger.NewTestLogger(),
		getExport, stableAndNonEmpty[string])

	require.ErrorIs(t, err, context.Canceled)
}

func TestStableAndNonEmpty(t *testing.T) {
	assert.False(t, stableAndNonEmpty[string](nil, nil))
	assert.False(t, stableAndNonEmpty([]string{}, []string{}))
	assert.False(t, stableAndNonEmpty(nil, []string{"a"}))
	assert.False(t, stableAndNonEmpty([]string{"a"}, []string{"a", "b"}))
	assert.True(t, stableAndNonEmpty([]string{"a"}, []string{"a"}))
}
