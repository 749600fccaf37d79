package fs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// TempFilePrefix is the prefix of the temporary files used by atomic writes.
const TempFilePrefix = ".iiifanno-tmp-"

// pendingFile is a file whose content sits in a temp file next to its
// target, waiting to be renamed into place.
type pendingFile struct {
	target   string
	tmp      string
	perm     os.FileMode
	replaced bool
	backup   string
	done     bool
}

// prepareFile checks the target of filename and writes data to a temp file
// beside it, creating missing parent directories. Nothing visible under
// filename changes until commit.
func prepareFile(filename string, data []byte, perm os.FileMode) (*pendingFile, error) {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	p := &pendingFile{target: filename, perm: perm}
	info, err := os.Stat(filename)
	switch {
	case err == nil && info.IsDir():
		return nil, fmt.Errorf("cannot write %s: is a directory", filename)
	case err == nil:
		p.replaced = true
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("failed to stat %s: %w", filename, err)
	}

	tmp, err := os.CreateTemp(dir, TempFilePrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	p.tmp = tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		p.discard()
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		p.discard()
		return nil, fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		p.discard()
		return nil, fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(p.tmp, perm); err != nil {
		p.discard()
		return nil, fmt.Errorf("failed to chmod temp file: %w", err)
	}
	return p, nil
}

// commit moves the temp file into place. An existing target is first moved
// to a backup so that restore can bring it back.
func (p *pendingFile) commit() error {
	if p.replaced {
		p.backup = filepath.Join(filepath.Dir(p.target), TempFilePrefix+"bak-"+filepath.Base(p.tmp))
		if err := os.Rename(p.target, p.backup); err != nil {
			p.backup = ""
			return fmt.Errorf("failed to back up %s: %w", p.target, err)
		}
	}
	if err := os.Rename(p.tmp, p.target); err != nil {
		if p.backup != "" {
			_ = os.Rename(p.backup, p.target)
			p.backup = ""
		}
		return fmt.Errorf("failed to rename temp file to %s: %w", p.target, err)
	}
	p.done = true
	return nil
}

// restore undoes a successful commit: the previous content comes back, or
// the new file is removed when there was none.
func (p *pendingFile) restore() {
	if !p.done {
		return
	}
	if p.backup != "" {
		_ = os.Rename(p.backup, p.target)
		p.backup = ""
	} else {
		_ = os.Remove(p.target)
	}
	p.done = false
}

// discard removes the temp file and any backup left behind.
func (p *pendingFile) discard() {
	if p.tmp != "" && !p.done {
		_ = os.Remove(p.tmp)
	}
	if p.backup != "" {
		_ = os.Remove(p.backup)
	}
}

// writeFileAtomic writes a single file through a temp file and a rename.
// It reports whether an existing file was replaced.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) (replaced bool, err error) {
	p, err := prepareFile(filename, data, perm)
	if err != nil {
		return false, err
	}
	defer p.discard()
	if err := p.commit(); err != nil {
		return false, err
	}
	return p.replaced, nil
}
