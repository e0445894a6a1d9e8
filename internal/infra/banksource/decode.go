package banksource

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/yanqian/question-bank/internal/domain/questionbank"
)

var errNotArray = errors.New("question bank must be a JSON array")

// DecodeBank parses a bank document: a JSON array of question records.
func DecodeBank(data []byte) (questionbank.Bank, error) {
	trimmed := bytes.TrimSpace(data)
	trimmed = bytes.TrimPrefix(trimmed, []byte("\xef\xbb\xbf"))
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, errNotArray
	}
	var bank questionbank.Bank
	if err := json.Unmarshal(trimmed, &bank); err != nil {
		return nil, fmt.Errorf("parse question bank: %w", err)
	}
	if bank == nil {
		bank = questionbank.Bank{}
	}
	return bank, nil
}
