package banksource

import (
	"context"
	"fmt"
	"os"

	"github.com/yanqian/question-bank/internal/domain/questionbank"
)

// FileSource reads the bank from a JSON file on local disk.
type FileSource struct {
	path string
}

// NewFileSource constructs a source for path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Name implements questionbank.Source.
func (s *FileSource) Name() string {
	return "file"
}

// Load reads and decodes the whole file.
func (s *FileSource) Load(ctx context.Context) (questionbank.Bank, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read bank file: %w", err)
	}
	return DecodeBank(data)
}

var _ questionbank.Source = (*FileSource)(nil)
