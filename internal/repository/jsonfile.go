package repository

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	apierrors "github.com/yukikurage/taskbot/internal/errors"
)

// readJSONFile decodes path into v. A missing file is initialized with empty
// and decoded from it, so the next load sees the same content. The init is
// create-only: if another writer got there first, its content is read instead.
func readJSONFile(path string, empty []byte, v interface{}) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		data, err = initFile(path, empty)
		if err != nil {
			return err
		}
	} else if err != nil {
		return &apierrors.StorageReadError{Path: path, Err: err}
	}

	if err := json.Unmarshal(data, v); err != nil {
		return &apierrors.StorageCorruptError{Path: path, Err: err}
	}
	return nil
}

// initFile creates path holding empty unless it already exists, and returns
// the content path holds afterwards. The temp file is hard-linked into place,
// which fails instead of replacing an existing file.
func initFile(path string, empty []byte) ([]byte, error) {
	tmpName, err := writeTemp(path, empty)
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmpName)

	err = os.Link(tmpName, path)
	if err == nil {
		return empty, nil
	}
	if !errors.Is(err, fs.ErrExist) {
		return nil, &apierrors.StorageWriteError{Path: path, Err: err}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &apierrors.StorageReadError{Path: path, Err: err}
	}
	return data, nil
}

// writeJSONFile pretty-prints v and replaces path with it
func writeJSONFile(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return &apierrors.StorageWriteError{Path: path, Err: err}
	}
	return writeFileAtomic(path, data)
}

// writeFileAtomic writes through a temp file in the same directory and renames
// it over path, so readers never observe a half-written document.
func writeFileAtomic(path string, data []byte) error {
	tmpName, err := writeTemp(path, data)
	if err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return &apierrors.StorageWriteError{Path: path, Err: err}
	}
	return nil
}

// writeTemp writes data to a synced temp file next to path and returns its name
func writeTemp(path string, data []byte) (string, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return "", &apierrors.StorageWriteError{Path: path, Err: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", &apierrors.StorageWriteError{Path: path, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", &apierrors.StorageWriteError{Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", &apierrors.StorageWriteError{Path: path, Err: err}
	}
	return tmpName, nil
}
