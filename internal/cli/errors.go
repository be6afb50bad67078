package cli

import (
	"errors"
	"io/fs"

	apperrors "github.com/matzehuels/archgraph/pkg/errors"
)

func usageError(format string, args ...any) error {
	return apperrors.New(apperrors.ErrCodeInvalidInput, format, args...)
}

// inputError classifies a failure to read a command-line input file.
func inputError(err error, path string) error {
	if errors.Is(err, fs.ErrNotExist) {
		return apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "input file not found: %s", path)
	}
	return apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "read %s", path)
}

// notApplied reports an editor operation that matched nothing.
func notApplied(op string, ref graphRef, id string) error {
	return apperrors.New(apperrors.ErrCodeNotFound, "%s: nothing matched %q in %s", op, id, ref)
}
