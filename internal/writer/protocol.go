package writer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hermanjons/OrderScout-sub000/internal/domain"
	"github.com/hermanjons/OrderScout-sub000/internal/store"
)

var (
	// ErrStartFailed is returned when the writer process could not be started
	ErrStartFailed = errors.New("order writer failed to start")
	// ErrNoOutput is returned when the writer process printed no result line
	ErrNoOutput = errors.New("order writer produced no output")
	// ErrMalformedOutput is returned when the last output line is not a result document
	ErrMalformedOutput = errors.New("order writer output is malformed")
	// ErrWriteFailed is returned when the writer reported a failed write
	ErrWriteFailed = errors.New("order writer reported failure")
	// ErrInvalidRequest is returned by the writer for input that is not a request document
	ErrInvalidRequest = errors.New("invalid write request")
)

// Request is the document written to the writer's stdin
type Request struct {
	Orders    []domain.Order    `json:"order_data_list"`
	LineItems []domain.LineItem `json:"order_item_list"`
}

// rawRequest is how the writer reads a Request: records stay generic so that
// unknown keys can be reported instead of silently lost
type rawRequest struct {
	Orders    []map[string]any `json:"order_data_list"`
	LineItems []map[string]any `json:"order_item_list"`
}

// Result is the single line the writer prints to stdout
type Result struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    *ResultData `json:"data"`
}

// ResultData reports what a successful write persisted
type ResultData struct {
	Changed       bool                `json:"changed"`
	Snapshots     store.UpsertResult  `json:"snapshots"`
	LineItems     store.UpsertResult  `json:"line_items"`
	Roots         store.UpsertResult  `json:"roots"`
	DroppedFields []string            `json:"dropped_fields"`
	Undecodable   int                 `json:"undecodable"`
	Orders        []domain.OrderKey   `json:"orders"`
}

// wireResult mirrors Result with success optional so that a missing flag is detected
type wireResult struct {
	Success *bool       `json:"success"`
	Message string      `json:"message"`
	Data    *ResultData `json:"data"`
}

// ParseResult decodes the result from the writer's stdout.
// Only the last non-blank line is considered; anything printed before it is ignored.
func ParseResult(stdout []byte) (*Result, error) {
	line := lastNonBlankLine(stdout)
	if len(line) == 0 {
		return nil, ErrNoOutput
	}

	var wire wireResult
	if err := json.Unmarshal(line, &wire); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedOutput, err)
	}
	if wire.Success == nil {
		return nil, fmt.Errorf("%w: missing success flag", ErrMalformedOutput)
	}

	return &Result{
		Success: *wire.Success,
		Message: wire.Message,
		Data:    wire.Data,
	}, nil
}

func lastNonBlankLine(out []byte) []byte {
	lines := bytes.Split(out, []byte("\n"))
	for i := len(lines) - 1; i >= 0; i-- {
		line := bytes.TrimSpace(lines[i])
		if len(line) > 0 {
			return line
		}
	}
	return nil
}

// failure builds the result reported for err
func failure(err error, lang string) *Result {
	return &Result{
		Success: false,
		Message: UserMessage(err, lang),
	}
}
