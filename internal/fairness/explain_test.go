package fairness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExplainCoversEveryMetric(t *testing.T) {
	for _, name := range AllMetrics {
		e, ok := Explain(name)
		require.True(t, ok, "metric %s has no explanation", name)
		assert.Equal(t, name, e.Name)
		assert.NotEmpty(t, e.Description)
		assert.NotEmpty(t, e.Range)
		assert.NotEmpty(t, e.Formula)
	}

	_, ok := Explain("nope")
	assert.False(t, ok)
}

func TestExplanationsIsACopy(t *testing.T) {
	m := Explanations()
	delete(m, MetricDPDiff)
	_, ok := Explain(MetricDPDiff)
	assert.True(t, ok)
}
