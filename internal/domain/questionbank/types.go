package questionbank

import (
	"context"
	"encoding/json"
	"time"
)

// Response codes returned in the "code" field of every query body.
const (
	CodeMatch        = 0
	CodeMissingTitle = 1
	CodeNoMatch      = 2
	CodeServerError  = 500
)

const (
	MsgMissingTitle = "缺少参数 title"
	MsgNoMatch      = "题库中未找到匹配题目"
	MsgServerError  = "Server error"
)

// QuestionRecord is one entry of the question bank document.
type QuestionRecord struct {
	Question    string          `json:"question"`
	Options     []string        `json:"options"`
	Answer      json.RawMessage `json:"answer"`
	Type        string          `json:"type"`
	Explanation string          `json:"explanation,omitempty"`
}

// Bank is the ordered question collection. It is never mutated once loaded.
type Bank []QuestionRecord

// Request captures a lookup. Options and Type are accepted for compatibility
// with existing clients but do not take part in matching.
type Request struct {
	Title   string `form:"title" json:"title"`
	Options string `form:"options" json:"options"`
	Type    string `form:"type" json:"type"`
}

// Answer is the payload returned for a successful match.
type Answer struct {
	Question string          `json:"question"`
	Options  []string        `json:"options"`
	Answer   json.RawMessage `json:"answer"`
	Type     string          `json:"type"`
	AI       string          `json:"ai"`
}

// Result is the outcome of a query. Score and Index are internal and never
// serialized.
type Result struct {
	Code   int
	Answer *Answer
	Score  float64
	Index  int
}

// Envelope is the JSON body shared by the HTTP transport and bankctl.
type Envelope struct {
	Code int     `json:"code"`
	Msg  string  `json:"msg,omitempty"`
	Data *Answer `json:"data"`
}

// Envelope renders the result in the wire format clients expect.
func (r Result) Envelope() Envelope {
	switch r.Code {
	case CodeMatch:
		return Envelope{Code: CodeMatch, Data: r.Answer}
	case CodeMissingTitle:
		return Envelope{Code: CodeMissingTitle, Msg: MsgMissingTitle}
	default:
		return Envelope{Code: CodeNoMatch, Msg: MsgNoMatch}
	}
}

// Source reads a full bank from an external store.
type Source interface {
	Name() string
	Load(ctx context.Context) (Bank, error)
}

// Loader hands out the bank for a single query. Implementations decide whether
// the bank is cached or read fresh on every call.
type Loader interface {
	Load(ctx context.Context) (Bank, error)
}

// BankCache keeps a loaded bank between queries.
type BankCache interface {
	Get(ctx context.Context) (Bank, bool, error)
	Put(ctx context.Context, bank Bank, ttl time.Duration) error
}

func newAnswer(rec QuestionRecord) *Answer {
	options := rec.Options
	if options == nil {
		options = []string{}
	}
	return &Answer{
		Question: rec.Question,
		Options:  options,
		Answer:   rec.Answer,
		Type:     rec.Type,
		AI:       rec.Explanation,
	}
}
