package categorical

import (
	"sort"

	"gochisq/domain/core"
)

// Categories is labeled goodness-of-fit input. Observed counts and null probabilities
// are matched by category name, never by position.
type Categories struct {
	Observed      map[string]int     `json:"observed"`
	Probabilities map[string]float64 `json:"probabilities,omitempty"`
}

// Align returns the sorted labels with the counts and probabilities in that order.
// A nil Probabilities map means the uniform null.
func (c Categories) Align() ([]string, Counts, Probabilities, error) {
	labels := make([]string, 0, len(c.Observed))
	for label := range c.Observed {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	observed := make(Counts, len(labels))
	for i, label := range labels {
		observed[i] = c.Observed[label]
	}

	if c.Probabilities == nil {
		return labels, observed, Uniform(len(labels)), nil
	}

	if len(c.Probabilities) != len(c.Observed) {
		for label := range c.Probabilities {
			if _, ok := c.Observed[label]; !ok {
				return nil, nil, nil, core.NewMalformedError(core.ErrUnknownCategory, "probability given for unobserved category %q", label)
			}
		}
	}

	probs := make(Probabilities, len(labels))
	for i, label := range labels {
		p, ok := c.Probabilities[label]
		if !ok {
			return nil, nil, nil, core.NewMalformedError(core.ErrUnknownCategory, "no probability for category %q", label)
		}
		probs[i] = p
	}
	return labels, observed, probs, nil
}
