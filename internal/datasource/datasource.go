// Package datasource abstracts where source file bytes come from.
package datasource

import (
	"context"
	"fmt"
	"io"
)

// Source opens one named input for reading.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// ReadAll opens src and reads it to the end. Reference files are small and
// encoding detection needs the whole buffer, so there is no streaming variant.
func ReadAll(ctx context.Context, src Source) ([]byte, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	b, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return b, nil
}
