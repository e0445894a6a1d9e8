package banksource

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/question-bank/internal/domain/questionbank"
)

// PostgresSource reads the bank from a table with one row per record:
//
//	id          bigserial primary key
//	question    text not null
//	options     jsonb
//	answer      jsonb
//	type        text
//	explanation text
//
// Rows are returned in id order, which defines bank order.
type PostgresSource struct {
	pool  *pgxpool.Pool
	table string
}

// NewPostgresSource constructs the source.
func NewPostgresSource(pool *pgxpool.Pool, table string) *PostgresSource {
	return &PostgresSource{pool: pool, table: table}
}

// Name implements questionbank.Source.
func (s *PostgresSource) Name() string {
	return "postgres"
}

// Load selects every row of the table.
func (s *PostgresSource) Load(ctx context.Context) (questionbank.Bank, error) {
	query := fmt.Sprintf(`
		SELECT question, options, answer, type, explanation
		FROM %s
		ORDER BY id
	`, pgx.Identifier{s.table}.Sanitize())
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query question bank: %w", err)
	}
	defer rows.Close()

	bank := questionbank.Bank{}
	for rows.Next() {
		record, err := scanQuestionRecord(rows)
		if err != nil {
			return nil, err
		}
		bank = append(bank, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate question bank: %w", err)
	}
	return bank, nil
}

func scanQuestionRecord(rows pgx.Rows) (questionbank.QuestionRecord, error) {
	var (
		question    string
		optionsRaw  []byte
		answerRaw   []byte
		typ         *string
		explanation *string
	)
	if err := rows.Scan(&question, &optionsRaw, &answerRaw, &typ, &explanation); err != nil {
		return questionbank.QuestionRecord{}, fmt.Errorf("scan question row: %w", err)
	}
	return buildRecord(question, optionsRaw, answerRaw, typ, explanation)
}

func buildRecord(question string, optionsRaw, answerRaw []byte, typ, explanation *string) (questionbank.QuestionRecord, error) {
	record := questionbank.QuestionRecord{Question: question}
	if len(optionsRaw) > 0 {
		if err := json.Unmarshal(optionsRaw, &record.Options); err != nil {
			return questionbank.QuestionRecord{}, fmt.Errorf("decode options for %q: %w", question, err)
		}
	}
	if len(answerRaw) > 0 {
		record.Answer = json.RawMessage(answerRaw)
	}
	if typ != nil {
		record.Type = *typ
	}
	if explanation != nil {
		record.Explanation = *explanation
	}
	return record, nil
}

var _ questionbank.Source = (*PostgresSource)(nil)
