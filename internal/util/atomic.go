// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"fmt"
	"os"
	"path/filepath"
)

// privateDirPerm is used for directories created on the way to a file. The
// files written here hold preferences and keys, so the tree stays private.
const privateDirPerm = 0700

// AtomicWriteFile replaces path with data. Readers see either the previous
// content or the new one, never a partial file; the preferences watcher
// relies on this.
//
// The data is written and fsynced to a sibling temp file which is then
// renamed over path.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, privateDirPerm); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := writeTemp(dir, "."+filepath.Base(abs)+".", data, perm)
	if err != nil {
		return err
	}
	if err := os.Rename(tmp, abs); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", abs, err)
	}
	return nil
}

// writeTemp writes data to a new file in dir and returns its name. The file
// is removed again on any failure.
func writeTemp(dir, prefix string, data []byte, perm os.FileMode) (name string, err error) {
	f, err := os.CreateTemp(dir, prefix+"*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	name = f.Name()
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(name)
		}
	}()

	if _, err = f.Write(data); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err = f.Sync(); err != nil {
		return "", fmt.Errorf("sync %s: %w", name, err)
	}
	// CreateTemp uses 0600; apply the requested mode before the file is visible.
	if err = f.Chmod(perm); err != nil {
		return "", fmt.Errorf("chmod %s: %w", name, err)
	}
	if err = f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", name, err)
	}
	return name, nil
}
