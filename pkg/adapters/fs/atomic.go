package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// TempFilePrefix is the prefix used for temporary atomic write files.
	TempFilePrefix = "tally-tmp-"
)

// pendingFile is a file whose new content sits in a temp file next to it,
// waiting to be renamed over the target.
type pendingFile struct {
	target string
	temp   string
}

// stageFile writes data to a synced temp file in the target's directory so
// the later rename stays on one filesystem.
func stageFile(filename string, data []byte, perm os.FileMode) (pendingFile, error) {
	dir := filepath.Dir(filename)

	tmpFile, err := os.CreateTemp(dir, TempFilePrefix+"*")
	if err != nil {
		return pendingFile{}, fmt.Errorf("failed to create temp file: %w", err)
	}
	fail := func(err error) (pendingFile, error) {
		tmpFile.Close()
		os.Remove(tmpFile.Name())
		return pendingFile{}, err
	}

	if _, err := tmpFile.Write(data); err != nil {
		return fail(fmt.Errorf("failed to write to temp file: %w", err))
	}
	if err := tmpFile.Sync(); err != nil {
		return fail(fmt.Errorf("failed to sync temp file: %w", err))
	}
	if err := tmpFile.Chmod(perm); err != nil {
		return fail(fmt.Errorf("failed to chmod temp file: %w", err))
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpFile.Name())
		return pendingFile{}, fmt.Errorf("failed to close temp file: %w", err)
	}
	return pendingFile{target: filename, temp: tmpFile.Name()}, nil
}

// writeFilesAtomic replaces every target with its new content. All contents
// are staged first, so a failure while writing leaves every target
// untouched. The current content of every target but the last is staged as
// a backup too: when a rename fails, the targets already replaced are put
// back. Only a crash between two renames can leave the targets mixed.
func writeFilesAtomic(contents map[string][]byte, order []string, perm os.FileMode) error {
	staged := make([]pendingFile, 0, len(order))
	backups := make([]pendingFile, len(order))
	discard := func() {
		for _, p := range staged {
			os.Remove(p.temp)
		}
		for _, b := range backups {
			if b.temp != "" {
				os.Remove(b.temp)
			}
		}
	}

	for _, name := range order {
		p, err := stageFile(name, contents[name], perm)
		if err != nil {
			discard()
			return err
		}
		staged = append(staged, p)
	}
	for i := 0; i < len(order)-1; i++ {
		b, err := backupFile(order[i], perm)
		if err != nil {
			discard()
			return err
		}
		backups[i] = b
	}

	for i, p := range staged {
		if err := os.Rename(p.temp, p.target); err != nil {
			err = fmt.Errorf("failed to rename temp file to %s: %w", p.target, err)
			for _, rest := range staged[i:] {
				os.Remove(rest.temp)
			}
			rerr := restoreFiles(staged[:i], backups[:i])
			for _, b := range backups {
				if b.temp != "" {
					os.Remove(b.temp)
				}
			}
			return errors.Join(err, rerr)
		}
	}
	for _, b := range backups {
		if b.temp != "" {
			os.Remove(b.temp)
		}
	}
	return nil
}

// backupFile stages a copy of filename's current content. A missing file
// yields an empty pendingFile.
func backupFile(filename string, perm os.FileMode) (pendingFile, error) {
	data, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return pendingFile{target: filename}, nil
	}
	if err != nil {
		return pendingFile{}, fmt.Errorf("failed to back up %s: %w", filepath.Base(filename), err)
	}
	return stageFile(filename, data, perm)
}

// restoreFiles undoes the renames of applied, newest first.
func restoreFiles(applied, backups []pendingFile) error {
	var errs []error
	for i := len(applied) - 1; i >= 0; i-- {
		target := applied[i].target
		var err error
		if backups[i].temp == "" {
			err = os.Remove(target)
		} else {
			err = os.Rename(backups[i].temp, target)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to restore %s: %w", filepath.Base(target), err))
		}
	}
	return errors.Join(errs...)
}

// writeFileAtomic writes data to a file atomically by writing to a temp file
// and then renaming it to the target filename.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	return writeFilesAtomic(map[string][]byte{filename: data}, []string{filename}, perm)
}
