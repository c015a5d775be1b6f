// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package corpus

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// LockFile guards the embedding files of a data directory. Writers hold it
// exclusively while replacing files; Load holds it shared while reading.
const LockFile = ".dirsearch.lock"

const lockRetryDelay = 50 * time.Millisecond

// LockExclusive takes the writer lock on dir, waiting until ctx is done.
// The returned function releases it.
func LockExclusive(ctx context.Context, dir string) (func(), error) {
	return lock(ctx, dir, (*flock.Flock).TryLockContext)
}

// LockShared takes the reader lock on dir, waiting until ctx is done.
func LockShared(ctx context.Context, dir string) (func(), error) {
	return lock(ctx, dir, (*flock.Flock).TryRLockContext)
}

func lock(ctx context.Context, dir string, try func(*flock.Flock, context.Context, time.Duration) (bool, error)) (func(), error) {
	path := filepath.Join(dir, LockFile)
	l := flock.New(path)
	locked, err := try(l, ctx, lockRetryDelay)
	if err != nil {
		_ = l.Close()
		return nil, fmt.Errorf("data directory lock %s: %w", path, err)
	}
	if !locked {
		_ = l.Close()
		return nil, fmt.Errorf("data directory lock %s: not acquired", path)
	}
	return func() { _ = l.Unlock() }, nil
}
