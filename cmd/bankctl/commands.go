package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/urfave/cli/v2"

	"github.com/yanqian/question-bank/internal/domain/auth"
	"github.com/yanqian/question-bank/internal/domain/questionbank"
	"github.com/yanqian/question-bank/internal/infra/bankcache"
	"github.com/yanqian/question-bank/internal/infra/bankloader"
	"github.com/yanqian/question-bank/internal/infra/banksource"
	"github.com/yanqian/question-bank/pkg/logger"
)

const maxInputLine = 1 << 20

func newLogger(c *cli.Context) *slog.Logger {
	return logger.NewWithWriter(c.App.ErrWriter, c.String("log-level"))
}

// newQueryService reads the bank once and serves every lookup from memory.
// The returned loader is the one the service reads through.
func newQueryService(c *cli.Context, log *slog.Logger) (questionbank.Service, questionbank.Loader) {
	loader := bankloader.NewCached(banksource.NewFileSource(c.String("bank")), bankcache.NewMemoryCache(), 0, log)
	return questionbank.NewService(questionbank.Config{LogNearMiss: true}, loader, log), loader
}

type validationReport struct {
	Records        int      `json:"records"`
	EmptyQuestions []int    `json:"emptyQuestions"`
	Duplicates     [][2]int `json:"duplicates"`
}

func (r validationReport) issues() int {
	return len(r.EmptyQuestions) + len(r.Duplicates)
}

func validateCommand(c *cli.Context) error {
	bank, err := banksource.NewFileSource(c.String("bank")).Load(c.Context)
	if err != nil {
		return err
	}
	report := validateBank(bank)
	if err := writeJSON(c, report); err != nil {
		return err
	}
	if c.Bool("strict") && report.issues() > 0 {
		return fmt.Errorf("%d issue(s) found", report.issues())
	}
	return nil
}

// validateBank flags records whose question normalizes to nothing and pairs
// of records that normalize to the same question. Only the first of a
// duplicate pair can ever be returned by a query.
func validateBank(bank questionbank.Bank) validationReport {
	report := validationReport{
		Records:        len(bank),
		EmptyQuestions: []int{},
		Duplicates:     [][2]int{},
	}
	seen := make(map[string]int, len(bank))
	for i, record := range bank {
		normalized := questionbank.Normalize(record.Question)
		if normalized == "" {
			report.EmptyQuestions = append(report.EmptyQuestions, i)
			continue
		}
		if first, ok := seen[normalized]; ok {
			report.Duplicates = append(report.Duplicates, [2]int{first, i})
			continue
		}
		seen[normalized] = i
	}
	return report
}

func queryCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return errors.New("at least one title is required")
	}
	svc, _ := newQueryService(c, newLogger(c))
	for _, title := range c.Args().Slice() {
		res, err := svc.Query(c.Context, questionbank.Request{Title: title})
		if err != nil {
			return err
		}
		if err := writeJSON(c, res.Envelope()); err != nil {
			return err
		}
	}
	return nil
}

type batchResult struct {
	Line  int    `json:"line"`
	Title string `json:"title"`
	questionbank.Envelope
}

func batchCommand(c *cli.Context) error {
	titles, err := readLines(c.String("input"))
	if err != nil {
		return err
	}
	workers := c.Int("workers")
	if workers <= 0 {
		return errors.New("--workers must be positive")
	}

	log := newLogger(c)
	svc, loader := newQueryService(c, log)
	// surface load errors once instead of per line
	records, err := bankloader.Preload(c.Context, loader)
	if err != nil {
		return fmt.Errorf("load question bank: %w", err)
	}
	log.Debug("question bank loaded", "records", records)

	results, err := runBatch(c, svc, titles, workers)
	if err != nil {
		return err
	}
	for _, res := range results {
		if err := writeJSON(c, res); err != nil {
			return err
		}
	}
	log.Info("batch finished", "lines", len(titles), "workers", workers)
	return nil
}

func runBatch(c *cli.Context, svc questionbank.Service, titles []string, workers int) ([]batchResult, error) {
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	results := make([]batchResult, len(titles))
	errs := make([]error, len(titles))
	var wg sync.WaitGroup
	for i, title := range titles {
		i, title := i, title
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			res, err := svc.Query(c.Context, questionbank.Request{Title: title})
			if err != nil {
				errs[i] = err
				return
			}
			results[i] = batchResult{Line: i + 1, Title: title, Envelope: res.Envelope()}
		}); err != nil {
			wg.Done()
			errs[i] = err
		}
	}
	wg.Wait()
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return results, nil
}

func tokenCommand(c *cli.Context) error {
	svc := auth.NewService(auth.Config{Enabled: true, Secret: c.String("secret")}, newLogger(c))
	token, err := svc.IssueToken(c.String("subject"), c.Duration("ttl"))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, token)
	return err
}

func hashKeyCommand(c *cli.Context) error {
	key := strings.TrimSpace(c.Args().First())
	if key == "" {
		return errors.New("KEY is required")
	}
	hash, err := auth.HashAPIKey(key)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, hash)
	return err
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxInputLine)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return lines, nil
}

func writeJSON(c *cli.Context, v any) error {
	encoder := json.NewEncoder(c.App.Writer)
	encoder.SetEscapeHTML(false)
	return encoder.Encode(v)
}
