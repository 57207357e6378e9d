package suite

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMeanScore(t *testing.T) {
	run := &TestRun{
		Outputs: []TestCaseOutput{
			{Output: "4", Score: 1.0},
			{Output: "six", Score: 0.0},
			{Output: "8", Score: 0.5},
		},
	}
	assert.InDelta(t, 0.5, run.MeanScore(), 1e-9)
}

func TestMeanScoreEmptyRun(t *testing.T) {
	run := &TestRun{}
	assert.Equal(t, 0.0, run.MeanScore())
}
