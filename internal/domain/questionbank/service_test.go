package questionbank

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/question-bank/pkg/errors"
)

func TestServiceQueryMatch(t *testing.T) {
	loader := &stubLoader{bank: sampleBank()}
	svc := NewService(Config{}, loader, newTestLogger())

	res, err := svc.Query(context.Background(), Request{Title: "什么是光合作用", Options: "A|B", Type: "single"})
	require.NoError(t, err)
	require.Equal(t, CodeMatch, res.Code)
	require.Equal(t, 1, loader.calls)
	require.NotNil(t, res.Answer)
	require.Equal(t, "什么是光合作用?", res.Answer.Question)
	require.Equal(t, []string{"A", "B"}, res.Answer.Options)
	require.JSONEq(t, `"A"`, string(res.Answer.Answer))
	require.Equal(t, "single", res.Answer.Type)
	require.Equal(t, "", res.Answer.AI)
}

func TestServiceQueryCopiesExplanationIntoAI(t *testing.T) {
	svc := NewService(Config{}, &stubLoader{bank: sampleBank()}, newTestLogger())

	res, err := svc.Query(context.Background(), Request{Title: "Which planet is known as the Red Planet"})
	require.NoError(t, err)
	require.Equal(t, CodeMatch, res.Code)
	require.Equal(t, "Iron oxide colors its surface.", res.Answer.AI)
}

func TestServiceQueryMissingTitleSkipsLoad(t *testing.T) {
	loader := &stubLoader{err: errors.New("should not be called")}
	svc := NewService(Config{}, loader, newTestLogger())

	res, err := svc.Query(context.Background(), Request{})
	require.NoError(t, err)
	require.Equal(t, CodeMissingTitle, res.Code)
	require.Zero(t, loader.calls)
}

func TestServiceQueryNoMatch(t *testing.T) {
	svc := NewService(Config{LogNearMiss: true}, &stubLoader{bank: sampleBank()}, newTestLogger())

	res, err := svc.Query(context.Background(), Request{Title: "完全不相关的内容"})
	require.NoError(t, err)
	require.Equal(t, CodeNoMatch, res.Code)
	require.Nil(t, res.Answer)
}

func TestServiceQueryEmptyBank(t *testing.T) {
	svc := NewService(Config{LogNearMiss: true}, &stubLoader{}, newTestLogger())

	res, err := svc.Query(context.Background(), Request{Title: "anything"})
	require.NoError(t, err)
	require.Equal(t, CodeNoMatch, res.Code)
}

func TestServiceQueryLoadFailure(t *testing.T) {
	svc := NewService(Config{}, &stubLoader{err: errors.New("open question_bank.json: no such file or directory")}, newTestLogger())

	_, err := svc.Query(context.Background(), Request{Title: "什么是光合作用"})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "bank_load_failed"))
	require.Contains(t, err.Error(), "no such file or directory")
}

func TestServiceQueryMissingOptionsBecomeEmptySlice(t *testing.T) {
	bank := Bank{{Question: "Q1", Answer: json.RawMessage(`{"choice":"B"}`)}}
	svc := NewService(Config{}, &stubLoader{bank: bank}, newTestLogger())

	res, err := svc.Query(context.Background(), Request{Title: "q1"})
	require.NoError(t, err)
	require.Equal(t, CodeMatch, res.Code)
	require.NotNil(t, res.Answer.Options)
	require.Empty(t, res.Answer.Options)

	payload, err := json.Marshal(res.Envelope())
	require.NoError(t, err)
	require.JSONEq(t, `{"code":0,"data":{"question":"Q1","options":[],"answer":{"choice":"B"},"type":"","ai":""}}`, string(payload))
}

func TestResultEnvelope(t *testing.T) {
	missing, err := json.Marshal(Result{Code: CodeMissingTitle}.Envelope())
	require.NoError(t, err)
	require.JSONEq(t, `{"code":1,"msg":"缺少参数 title","data":null}`, string(missing))

	noMatch, err := json.Marshal(Result{Code: CodeNoMatch}.Envelope())
	require.NoError(t, err)
	require.JSONEq(t, `{"code":2,"msg":"题库中未找到匹配题目","data":null}`, string(noMatch))
}

type stubLoader struct {
	bank  Bank
	err   error
	calls int
}

func (s *stubLoader) Load(ctx context.Context) (Bank, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.bank, nil
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
