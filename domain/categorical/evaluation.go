package categorical

import "gochisq/domain/core"

// Evaluation is one evaluated request with its audit fields. It is the unit
// recorded in the evaluation ledger.
type Evaluation struct {
	ID          core.ResultID  `json:"id"`
	Fingerprint core.InputHash `json:"fingerprint"`
	Test        core.TestName  `json:"test"`
	Alpha       float64        `json:"alpha"`
	Significant bool           `json:"significant"`
	Labels      []string       `json:"labels,omitempty"`
	RowLabels   []string       `json:"row_labels,omitempty"`
	ColLabels   []string       `json:"col_labels,omitempty"`
	Result      Result         `json:"result"`
	EvaluatedAt core.Timestamp `json:"evaluated_at"`
	RuntimeMs   int64          `json:"runtime_ms"`
}

// Clone returns a deep copy that shares no slices or maps with e.
func (e Evaluation) Clone() Evaluation {
	out := e
	out.Labels = cloneStrings(e.Labels)
	out.RowLabels = cloneStrings(e.RowLabels)
	out.ColLabels = cloneStrings(e.ColLabels)
	out.Result = e.Result.Clone()
	return out
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}
