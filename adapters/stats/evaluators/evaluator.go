package evaluators

import (
	"context"
	"sort"

	"golang.org/x/sync/semaphore"

	"gochisq/domain/categorical"
	"gochisq/domain/core"
)

// Options carries per-request overrides. Zero values keep the evaluator defaults.
type Options struct {
	YatesCorrection *bool   `json:"yates_correction,omitempty"`
	Correction      *bool   `json:"correction,omitempty"`
	Lambda          string  `json:"lambda,omitempty"`
	Alternative     string  `json:"alternative,omitempty"`
	DDOF            int     `json:"ddof,omitempty"`
	Alpha           float64 `json:"alpha,omitempty"`
}

// Request is the input of one evaluation. Goodness-of-fit reads Observed/Probabilities
// or Categories, the table tests read Table or, when Table is empty, tabulate Pairs.
type Request struct {
	Test          core.TestName             `json:"test"`
	Observed      categorical.Counts        `json:"observed,omitempty"`
	Probabilities categorical.Probabilities `json:"probabilities,omitempty"`
	Categories    *categorical.Categories   `json:"categories,omitempty"`
	Table         [][]int                   `json:"table,omitempty"`
	Pairs         *categorical.Pairs        `json:"pairs,omitempty"`
	Options       Options                   `json:"options"`
}

// Validate rejects option values that no evaluator accepts. A zero alpha keeps
// the configured default; any other alpha must lie strictly inside (0,1).
func (o Options) Validate() error {
	if o.Alpha != 0 && !(o.Alpha > 0 && o.Alpha < 1) {
		return core.NewMalformedError(core.ErrInvalidOption, "alpha %v outside (0,1)", o.Alpha)
	}
	return nil
}

// Contingency returns the table the table tests run on, with labels when it was
// tabulated from Pairs.
func (r Request) Contingency() (*categorical.LabeledTable, error) {
	if len(r.Table) == 0 && r.Pairs != nil {
		return r.Pairs.Crosstab()
	}
	table, err := categorical.NewTable(r.Table)
	if err != nil {
		return nil, err
	}
	return &categorical.LabeledTable{Table: table}, nil
}

// Fingerprint hashes the request input. Flat counts hash as a one-row table.
func (r Request) Fingerprint() core.InputHash {
	table := r.Table
	if table == nil && r.Observed != nil {
		table = [][]int{r.Observed}
	}

	opts := map[string]interface{}{
		"lambda":      r.Options.Lambda,
		"alternative": r.Options.Alternative,
		"ddof":        r.Options.DDOF,
		"alpha":       r.Options.Alpha,
	}
	if r.Options.YatesCorrection != nil {
		opts["yates_correction"] = *r.Options.YatesCorrection
	}
	if r.Options.Correction != nil {
		opts["correction"] = *r.Options.Correction
	}
	if r.Probabilities != nil {
		opts["probabilities"] = []float64(r.Probabilities)
	}
	if table == nil && r.Pairs != nil {
		if lt, err := r.Pairs.Crosstab(); err == nil {
			table = lt.Table.Cells()
			opts["row_labels"] = lt.RowLabels
			opts["col_labels"] = lt.ColLabels
		}
	}
	if r.Categories != nil {
		labels, observed, probs, err := r.Categories.Align()
		if err == nil {
			table = [][]int{observed}
			opts["labels"] = labels
			opts["probabilities"] = []float64(probs)
		}
	}
	return core.ComputeInputHash(r.Test, table, opts)
}

// Evaluator defines the interface for each categorical test
type Evaluator interface {
	Name() core.TestName
	Description() string
	Evaluate(ctx context.Context, req Request) (categorical.Result, error)
}

// BatchItem is the outcome of one request in a batch
type BatchItem struct {
	Index  int
	Result categorical.Result
	Err    error
}

// Engine holds the registered evaluators
type Engine struct {
	evaluators map[core.TestName]Evaluator
	config     EngineConfig
}

// EngineConfig sets evaluator defaults
type EngineConfig struct {
	Independence IndependenceOptions
	McNemar      McNemarOptions
}

// DefaultEngineConfig returns the conventional test defaults
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Independence: DefaultIndependenceOptions(),
		McNemar:      DefaultMcNemarOptions(),
	}
}

// NewEngine creates an engine with all four categorical tests registered
func NewEngine(cfg EngineConfig) *Engine {
	e := &Engine{evaluators: make(map[core.TestName]Evaluator), config: cfg}
	e.Register(NewGoodnessOfFitEvaluator())
	e.Register(NewIndependenceEvaluator(cfg.Independence))
	e.Register(NewFisherExactEvaluator())
	e.Register(NewMcNemarEvaluator(cfg.McNemar))
	return e
}

// Config returns the defaults the engine was built with
func (e *Engine) Config() EngineConfig {
	return e.config
}

// Register adds or replaces an evaluator
func (e *Engine) Register(ev Evaluator) {
	e.evaluators[ev.Name()] = ev
}

// Get returns the evaluator registered under name
func (e *Engine) Get(name core.TestName) (Evaluator, error) {
	ev, ok := e.evaluators[name]
	if !ok {
		return nil, core.NewNotFoundError("evaluator", name.String())
	}
	return ev, nil
}

// List returns the registered evaluators sorted by name
func (e *Engine) List() []Evaluator {
	out := make([]Evaluator, 0, len(e.evaluators))
	for _, ev := range e.evaluators {
		out = append(out, ev)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Evaluate runs a single request
func (e *Engine) Evaluate(ctx context.Context, req Request) (categorical.Result, error) {
	ev, err := e.Get(req.Test)
	if err != nil {
		return categorical.Result{}, err
	}
	if err := req.Options.Validate(); err != nil {
		return categorical.Result{}, err
	}
	return ev.Evaluate(ctx, req)
}

// EvaluateBatch runs independent requests concurrently, at most concurrency at a time.
// Items are returned in request order and each carries its own error.
func (e *Engine) EvaluateBatch(ctx context.Context, reqs []Request, concurrency int) []BatchItem {
	if concurrency < 1 {
		concurrency = 1
	}
	items := make([]BatchItem, len(reqs))
	sem := semaphore.NewWeighted(int64(concurrency))

	resultChan := make(chan BatchItem, len(reqs))
	launched := 0
	for i, req := range reqs {
		if err := sem.Acquire(ctx, 1); err != nil {
			items[i] = BatchItem{Index: i, Err: err}
			continue
		}
		launched++
		go func(idx int, req Request) {
			defer sem.Release(1)
			result, err := e.Evaluate(ctx, req)
			resultChan <- BatchItem{Index: idx, Result: result, Err: err}
		}(i, req)
	}

	for i := 0; i < launched; i++ {
		item := <-resultChan
		items[item.Index] = item
	}
	return items
}
