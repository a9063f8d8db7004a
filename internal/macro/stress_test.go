package macro

import (
	"testing"

	"github.com/leandrodaf/midisteno/sdk/contracts"
	"github.com/stretchr/testify/assert"
)

func word(velocities ...float64) []contracts.Symbol {
	w := make([]contracts.Symbol, len(velocities))
	for i, v := range velocities {
		w[i] = contracts.Symbol{Phoneme: "t", Velocity: v, Stress: contracts.StressNone}
	}
	return w
}

func ranks(w []contracts.Symbol) []int {
	r := make([]int, len(w))
	for i, s := range w {
		r[i] = s.Stress
	}
	return r
}

func TestAssignStress(t *testing.T) {
	tests := []struct {
		name       string
		velocities []float64
		want       []int
	}{
		{"tied runner-up gets no secondary", []float64{40, 100, 40}, []int{-1, 1, -1}},
		{"distinct runner-up gets secondary", []float64{40, 100, 70}, []int{-1, 1, 0}},
		{"single symbol unstressed", []float64{127}, []int{-1}},
		{"tied maximum unstressed", []float64{90, 90, 30}, []int{-1, -1, -1}},
		{"two symbols", []float64{60, 80}, []int{0, 1}},
		{"all equal", []float64{64, 64}, []int{-1, -1}},
		{"empty", nil, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ranks(AssignStress(word(tt.velocities...))))
		})
	}
}

func TestAssignStressDoesNotMutateInput(t *testing.T) {
	w := word(10, 20)
	_ = AssignStress(w)
	assert.Equal(t, contracts.StressNone, w[1].Stress)
}
