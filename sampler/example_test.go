package sampler_test

import (
	"fmt"

	"github.com/hilmc/hilmc/hilbert"
	"github.com/hilmc/hilmc/sampler"
)

// ExampleNewMetropolis runs a short Metropolis chain over a spin ladder with
// a uniform target density and reports the batch geometry.
func ExampleNewMetropolis() {
	space, err := hilbert.NewSpin(0.5, 6)
	if err != nil {
		fmt.Println("space:", err)
		return
	}

	uniform := func(params []float64, states [][]float64) []float64 {
		return make([]float64, len(states))
	}

	mc, err := sampler.NewMetropolis(space, sampler.LocalRule{},
		sampler.WithChainsPerWorker(4))
	if err != nil {
		fmt.Println("sampler:", err)
		return
	}

	state, err := sampler.Init(mc, uniform, nil, 12345)
	if err != nil {
		fmt.Println("init:", err)
		return
	}
	state, err = sampler.Reset(mc, uniform, nil, state)
	if err != nil {
		fmt.Println("reset:", err)
		return
	}

	batch, _, err := sampler.Sample(mc, uniform, nil, state, 10)
	if err != nil {
		fmt.Println("sample:", err)
		return
	}

	fmt.Println("steps:", len(batch))
	fmt.Println("chains:", len(batch[0]))
	fmt.Println("sites:", len(batch[0][0]))
	fmt.Println("exact:", mc.IsExact())
	// Output:
	// steps: 10
	// chains: 4
	// sites: 6
	// exact: false
}

// ExampleNewExact draws independent samples from a fully enumerated space.
func ExampleNewExact() {
	space, err := hilbert.NewSpin(0.5, 4,
		hilbert.WithConstraint(hilbert.WithTotalSum(0)))
	if err != nil {
		fmt.Println("space:", err)
		return
	}

	uniform := func(params []float64, states [][]float64) []float64 {
		return make([]float64, len(states))
	}

	ex, err := sampler.NewExact(space, sampler.WithChainsPerWorker(2))
	if err != nil {
		fmt.Println("sampler:", err)
		return
	}

	state, err := sampler.Reset(ex, uniform, nil, nil)
	if err != nil {
		fmt.Println("reset:", err)
		return
	}

	batch, _, err := sampler.Sample(ex, uniform, nil, state, 5)
	if err != nil {
		fmt.Println("sample:", err)
		return
	}

	// Every drawn row sums to zero on this sector.
	onSector := true
	for _, step := range batch {
		for _, row := range step {
			sum := 0.0
			for _, v := range row {
				sum += v
			}
			if sum != 0 {
				onSector = false
			}
		}
	}

	fmt.Println("steps:", len(batch))
	fmt.Println("exact:", ex.IsExact())
	fmt.Println("on sector:", onSector)
	// Output:
	// steps: 5
	// exact: true
	// on sector: true
}
