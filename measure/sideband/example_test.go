package sideband_test

import (
	"fmt"

	"github.com/cwbudde/algo-iqdemod/dsp/filter/hilbert"
	"github.com/cwbudde/algo-iqdemod/measure/sideband"
)

func ExampleAnalyzer_Measure() {
	a, err := sideband.NewAnalyzer(sideband.Config{})
	if err != nil {
		panic(err)
	}

	c, _ := hilbert.PresetCoefficients(hilbert.PresetKaiser)
	res, err := a.Measure(c, 0.2, 8000)
	if err != nil {
		panic(err)
	}

	fmt.Println(res.Upper > 15000, res.RejectionDB > 40)
	// Output: true true
}
