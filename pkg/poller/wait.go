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
	"fmt"
	"time"

	"github.com/carverauto/otelcapture/pkg/logger"
)

// waitForContent polls getExport until waitCondition accepts two
// consecutive observations, the deadline passes, or ctx is canceled.
//
// A single non-empty read is not evidence that export is complete: batches
// arrive in separate flushes, so the cheapest observable proxy for "the
// exporter has gone idle" is two consecutive identical non-empty reads.
// Read errors are logged and retried until the deadline; a transiently busy
// server must not fail the wait early.
func waitForContent[T any](
	ctx context.Context,
	clock Clock,
	timeout time.Duration,
	interval time.Duration,
	log logger.Logger,
	getExport func(ctx context.Context) ([]T, error),
	waitCondition func(previous, current []T) bool,
) ([]T, error) {
	deadline := clock.Now().Add(timeout)

	var previous []T

	for clock.Now().Before(deadline) {
		current, err := getExport(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("Error while reading captured content, retrying until deadline")
		} else {
			if waitCondition(previous, current) {
				return current, nil
			}

			previous = current
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-clock.After(interval):
		}
	}

	return nil, fmt.Errorf("%w after %s", ErrWaitTimeout, timeout)
}

// stableAndNonEmpty is the basic stability predicate: the result set is
// non-empty and unchanged since the previous poll. The capture log is
// append-only between clears, so equal length implies equal content.
func stableAndNonEmpty[T any](previous, current []T) bool {
	return len(current) > 0 && len(previous) == len(current)
}
