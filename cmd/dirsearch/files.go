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


package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/poiesic/dirsearch/corpus"
)

// lockDataDir takes the exclusive data directory lock, waiting up to timeout.
func lockDataDir(dir string, timeout time.Duration) (func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	unlock, err := corpus.LockExclusive(ctx, dir)
	if errors.Is(err, context.DeadlineExceeded) {
		return nil, fmt.Errorf("data directory is busy (lock: %s)", filepath.Join(dir, corpus.LockFile))
	}
	if err != nil {
		return nil, fmt.Errorf("cannot acquire data directory lock: %w", err)
	}
	return unlock, nil
}

type replacement struct {
	target string
	backup string
}

// replaceFiles renames every temp file over its target. Replaced targets are
// kept as backups until all renames succeed; on failure they are restored
// and the temp files removed, so the directory never mixes generations.
func replaceFiles(renames map[string]string) error {
	var done []replacement
	rollback := func() {
		for i := len(done) - 1; i >= 0; i-- {
			r := done[i]
			if r.backup == "" {
				_ = os.Remove(r.target)
				continue
			}
			_ = os.Rename(r.backup, r.target)
		}
		for tmp := range renames {
			_ = os.Remove(tmp)
		}
	}

	for tmp, target := range renames {
		r := replacement{target: target}
		if _, err := os.Stat(target); err == nil {
			r.backup = backupName(target)
			if err := os.Rename(target, r.backup); err != nil {
				rollback()
				return fmt.Errorf("cannot back up %s: %w", target, err)
			}
		}
		if err := os.Rename(tmp, target); err != nil {
			if r.backup != "" {
				_ = os.Rename(r.backup, target)
			}
			rollback()
			return fmt.Errorf("cannot replace %s: %w", target, err)
		}
		done = append(done, r)
	}

	for _, r := range done {
		if r.backup != "" {
			_ = os.Remove(r.backup)
		}
	}
	return nil
}

func tempName(path string) string {
	return path + ".tmp"
}

func backupName(path string) string {
	return path + ".bak"
}
