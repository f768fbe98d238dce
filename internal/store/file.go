package store

import (
	"bufio"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/heysubinoy/pyazdict/pkg/kv"
)

// defaultFileMode is used when saving creates a new file.
const defaultFileMode fs.FileMode = 0o644

// Decode reads key=value lines from r, calling fn for every line that has a
// '='. The line is split at the first '=' so values may contain '='.
// Lines have no length limit.
func Decode(r io.Reader, fn func(kv.Entry)) error {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		if line != "" {
			line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
			if key, value, ok := strings.Cut(line, "="); ok {
				fn(kv.Entry{Key: key, Value: value})
			}
		}
		if err != nil {
			return nil
		}
	}
}

// Encode writes each entry as one key=value line.
func Encode(w io.Writer, entries []kv.Entry) error {
	bw := bufio.NewWriter(w)
	for _, e := range entries {
		if _, err := bw.WriteString(e.Key + "=" + e.Value + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func readFile(path string, fn func(kv.Entry)) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &kv.Error{Op: "load", Kind: kv.ErrNotFound, Err: err}
		}
		return kv.IOError("load", err)
	}
	defer f.Close()

	if err := Decode(f, fn); err != nil {
		return kv.IOError("load", err)
	}
	return nil
}

// writeFile writes to a temp file next to path and renames it into place,
// so a failed save leaves the previous file untouched. An existing file keeps
// its permissions.
func writeFile(path string, entries []kv.Entry) error {
	mode := defaultFileMode
	if fi, err := os.Stat(path); err == nil {
		mode = fi.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return kv.IOError("save", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return kv.IOError("save", err)
	}

	if err := Encode(tmp, entries); err != nil {
		tmp.Close()
		return kv.IOError("save", err)
	}
	if err := tmp.Close(); err != nil {
		return kv.IOError("save", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return kv.IOError("save", err)
	}
	return nil
}
