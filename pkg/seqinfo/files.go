package seqinfo

import (
	"io"
	"os"

	"github.com/agentstation/taxsync/pkg/constants"
	"github.com/agentstation/taxsync/pkg/errors"
)

// IsStdio reports whether path names the standard stream rather than a file.
func IsStdio(path string) bool {
	return path == "" || path == constants.Stdio
}

// OpenInput opens path for reading; "" or "-" selects stdin.
// It returns the stream, a label for messages, and any error.
func OpenInput(path string) (io.ReadCloser, string, error) {
	if IsStdio(path) {
		return io.NopCloser(os.Stdin), "stdin", nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, path, errors.WrapIO("open", path, err)
	}
	return f, path, nil
}

// CreateOutput creates or truncates path for writing; "" or "-" selects stdout.
func CreateOutput(path string) (io.WriteCloser, string, error) {
	if IsStdio(path) {
		return nopWriteCloser{os.Stdout}, "stdout", nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, constants.FilePermissions)
	if err != nil {
		return nil, path, errors.WrapIO("create", path, err)
	}
	return f, path, nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
