package retrieval

import (
	"fmt"

	"github.com/SaraLat04/Assistant-Juridique/config"
	"github.com/SaraLat04/Assistant-Juridique/models"
)

// GatePolicy is the configured (metric, threshold) pair deciding whether a
// retrieved match is relevant. Two conventions exist in the system's history
// and both remain supported; the choice is always explicit configuration,
// never a hard-coded formula.
type GatePolicy struct {
	Metric    string
	Threshold float64
}

// PolicyFromConfig builds a GatePolicy from the retrieval configuration.
func PolicyFromConfig(cfg config.RetrievalConfig) GatePolicy {
	return GatePolicy{
		Metric:    cfg.SimilarityMetric,
		Threshold: cfg.SimilarityThreshold,
	}
}

// Similarity converts a raw distance to the similarity score the policy's
// metric defines. For the raw-distance convention there is no normalization
// and the returned value is the distance itself.
func (p GatePolicy) Similarity(distance float64) float64 {
	if p.Metric == config.MetricCosineNormalized {
		return 1 - distance/2
	}
	return distance
}

// Retain reports whether a match at the given raw distance passes the gate.
func (p GatePolicy) Retain(distance float64) bool {
	switch p.Metric {
	case config.MetricCosineNormalized:
		return 1-distance/2 >= p.Threshold
	case config.MetricRawDistance:
		return distance < p.Threshold
	default:
		// Unknown metrics are rejected at config validation; retain nothing
		// if one slips through.
		return false
	}
}

// String renders the policy for logs.
func (p GatePolicy) String() string {
	return fmt.Sprintf("%s@%g", p.Metric, p.Threshold)
}

// Classify partitions retrieved matches into a grounded or ungrounded outcome.
// Retained matches keep the store's original rank order. Empty input is always
// ungrounded.
func Classify(matches []models.Match, policy GatePolicy) models.RetrievalOutcome {
	var relevant []models.Match
	for _, m := range matches {
		if policy.Retain(m.Distance) {
			relevant = append(relevant, m)
		}
	}

	mode := models.ModeGeneral
	if len(relevant) > 0 {
		mode = models.ModeGrounded
	}

	return models.RetrievalOutcome{Mode: mode, Relevant: relevant}
}
