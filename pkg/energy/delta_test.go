package energy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeDeltas(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
		want []float64
	}{
		{"empty", nil, []float64{}},
		{"single", []float64{7}, []float64{0}},
		{"negative kept", []float64{10, 12, 11}, []float64{0, 2, -1}},
		{"flat", []float64{3, 3, 3}, []float64{0, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeDeltas(tt.in))
		})
	}
}

func TestComputeDeltasTelescopes(t *testing.T) {
	in := []float64{100, 104, 109, 107, 120, 150}
	var sum float64
	for _, d := range ComputeDeltas(in) {
		sum += d
	}
	assert.Equal(t, in[len(in)-1]-in[0], sum)
}

func TestComputeDeltasDoesNotModifyInput(t *testing.T) {
	in := []float64{1, 4, 9}
	ComputeDeltas(in)
	assert.Equal(t, []float64{1, 4, 9}, in)
}
