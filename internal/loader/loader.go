// Package loader reads a selected file and checks that it is text.
package loader

import (
	"context"
	"io"
	"unicode/utf8"

	"codetyper/internal/errors"
	"codetyper/internal/log"
	"codetyper/internal/source"
	"codetyper/pkg/types"
)

// Load reads the whole of id from src in one pass. Content that is not valid
// UTF-8 fails with InvalidContent; there is no fallback encoding.
func Load(ctx context.Context, src source.Source, id string) (*types.FileContent, error) {
	logger := log.LogWithFields(log.F("source", src.Name()), log.F("file", id))

	rc, err := src.Open(ctx, id)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		if errors.KindOf(err) != errors.Unknown {
			return nil, err
		}
		return nil, errors.NewFileError("failed to read file", id, readFailureKind(src), err)
	}

	if !utf8.Valid(data) {
		return nil, errors.NewFileError("file is not valid UTF-8", id, errors.InvalidContent, nil)
	}

	content := &types.FileContent{ID: id, Text: string(data)}
	logger.With(log.F("bytes", len(data)), log.F("chars", content.Len())).Debug("Loaded file")
	return content, nil
}

// readFailureKind classifies a mid-read failure by backend
func readFailureKind(src source.Source) errors.ErrorKind {
	for {
		switch s := src.(type) {
		case *source.Remote:
			return errors.NetworkOrParseFailure
		case interface{ Unwrap() source.Source }:
			src = s.Unwrap()
		default:
			return errors.FilesystemFailure
		}
	}
}
