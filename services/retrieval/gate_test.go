package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/SaraLat04/Assistant-Juridique/config"
	"github.com/SaraLat04/Assistant-Juridique/models"
)

func matchAt(id string, distance float64) models.Match {
	return models.Match{
		Chunk:    models.Chunk{ID: id, Text: "Article " + id},
		Distance: distance,
	}
}

func TestGatePolicyRetain(t *testing.T) {
	t.Run("cosine normalized convention", func(t *testing.T) {
		policy := GatePolicy{Metric: config.MetricCosineNormalized, Threshold: 0.3}

		tests := []struct {
			name     string
			distance float64
			retain   bool
		}{
			{"near duplicate", 0.1, true},
			{"moderately close", 0.85, true},
			{"exactly at threshold", 1.4, true}, // 1 - 1.4/2 = 0.3
			{"just past threshold", 1.41, false},
			{"maximally distant", 2.0, false},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				assert.Equal(t, tt.retain, policy.Retain(tt.distance))
			})
		}
	})

	t.Run("raw distance convention", func(t *testing.T) {
		policy := GatePolicy{Metric: config.MetricRawDistance, Threshold: 0.3}

		assert.True(t, policy.Retain(0.1))
		assert.True(t, policy.Retain(0.29))
		// Strict comparison: a distance equal to the threshold is not retained.
		assert.False(t, policy.Retain(0.3))
		assert.False(t, policy.Retain(0.85))
	})

	t.Run("unknown metric retains nothing", func(t *testing.T) {
		policy := GatePolicy{Metric: "euclidean", Threshold: 0.3}
		assert.False(t, policy.Retain(0.0))
	})
}

func TestGatePolicySimilarity(t *testing.T) {
	cosine := GatePolicy{Metric: config.MetricCosineNormalized, Threshold: 0.3}
	assert.InDelta(t, 0.925, cosine.Similarity(0.15), 1e-9)
	assert.InDelta(t, 0.0, cosine.Similarity(2.0), 1e-9)

	raw := GatePolicy{Metric: config.MetricRawDistance, Threshold: 0.3}
	assert.InDelta(t, 0.15, raw.Similarity(0.15), 1e-9)
}

func TestClassify(t *testing.T) {
	policy := GatePolicy{Metric: config.MetricCosineNormalized, Threshold: 0.3}

	t.Run("mixed matches keep rank order", func(t *testing.T) {
		matches := []models.Match{
			matchAt("a", 0.2),
			matchAt("b", 1.9), // gated out
			matchAt("c", 0.8),
		}

		outcome := Classify(matches, policy)

		assert.Equal(t, models.ModeGrounded, outcome.Mode)
		if assert.Len(t, outcome.Relevant, 2) {
			assert.Equal(t, "a", outcome.Relevant[0].Chunk.ID)
			assert.Equal(t, "c", outcome.Relevant[1].Chunk.ID)
		}
	})

	t.Run("nothing relevant means general mode", func(t *testing.T) {
		matches := []models.Match{matchAt("a", 1.9), matchAt("b", 2.0)}

		outcome := Classify(matches, policy)

		assert.Equal(t, models.ModeGeneral, outcome.Mode)
		assert.Empty(t, outcome.Relevant)
	})

	t.Run("empty input is general", func(t *testing.T) {
		outcome := Classify(nil, policy)

		assert.Equal(t, models.ModeGeneral, outcome.Mode)
		assert.Empty(t, outcome.Relevant)
	})

	t.Run("raw distance policy gates the same matches differently", func(t *testing.T) {
		rawPolicy := GatePolicy{Metric: config.MetricRawDistance, Threshold: 0.3}
		matches := []models.Match{
			matchAt("a", 0.2),
			matchAt("b", 0.8),
		}

		outcome := Classify(matches, rawPolicy)

		assert.Equal(t, models.ModeGrounded, outcome.Mode)
		if assert.Len(t, outcome.Relevant, 1) {
			assert.Equal(t, "a", outcome.Relevant[0].Chunk.ID)
		}
	})
}

func TestPolicyString(t *testing.T) {
	policy := GatePolicy{Metric: config.MetricCosineNormalized, Threshold: 0.3}
	assert.Equal(t, "cosine-normalized@0.3", policy.String())
}
