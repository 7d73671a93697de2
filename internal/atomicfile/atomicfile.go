// Package atomicfile writes JSON state files so readers never see a partial write.
package atomicfile

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/samber/oops"
)

// WriteJSON encodes v as indented JSON and moves it into dir/name through a
// temporary file in the same directory. Failures carry the given error code.
func WriteJSON(dir, name, code string, v any) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return oops.
			Code(code).
			With("path", dir).
			Wrapf(err, "creating directory")
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return oops.
			Code(code).
			With("file", name).
			Wrapf(err, "encoding %s", name)
	}
	data = append(data, '\n')

	tempFile, err := os.CreateTemp(dir, name+".*.tmp")
	if err != nil {
		return oops.
			Code(code).
			With("path", dir).
			Wrapf(err, "creating temporary file")
	}

	tempPath := tempFile.Name()
	defer func() {
		_ = os.Remove(tempPath)
	}()

	if _, writeErr := tempFile.Write(data); writeErr != nil {
		_ = tempFile.Close()
		return oops.
			Code(code).
			With("path", tempPath).
			Wrapf(writeErr, "writing temporary file")
	}

	if closeErr := tempFile.Close(); closeErr != nil {
		return oops.
			Code(code).
			With("path", tempPath).
			Wrapf(closeErr, "closing temporary file")
	}

	target := filepath.Join(dir, name)
	if renameErr := os.Rename(tempPath, target); renameErr != nil {
		return oops.
			Code(code).
			With("from", tempPath).
			With("to", target).
			Wrapf(renameErr, "replacing %s", name)
	}

	return nil
}

// ReadJSON decodes dir/name into v. It reports false without error when the file
// does not exist.
func ReadJSON(dir, name, code string, v any) (bool, error) {
	path := filepath.Join(dir, name)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, oops.
			Code(code).
			With("path", path).
			Wrapf(err, "reading %s", name)
	}

	if unmarshalErr := json.Unmarshal(data, v); unmarshalErr != nil {
		return false, oops.
			Code(code).
			With("path", path).
			Hint("Delete the file and run 'groupnames sync' to regenerate it").
			Wrapf(unmarshalErr, "parsing %s", name)
	}

	return true, nil
}
