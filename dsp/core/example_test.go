package core_test

import (
	"fmt"

	"github.com/cwbudde/algo-iqdemod/dsp/core"
)

func ExampleApplyProcessorOptions() {
	cfg := core.ApplyProcessorOptions(
		core.WithSampleRate(48000),
		core.WithBlockSize(256),
	)

	fmt.Printf("sampleRate=%d blockSize=%d decimation=%d\n", cfg.SampleRate, cfg.BlockSize, cfg.Decimation)

	// Output:
	// sampleRate=48000 blockSize=256 decimation=6
}

func ExampleSat16() {
	fmt.Println(core.Sat16(30000+30000), core.Sat16(-70000), core.Sat16(1234))

	// Output:
	// 32767 -32767 1234
}

func ExampleISqrt32() {
	fmt.Println(core.ISqrt32(1000*1000 + 1000*1000))

	// Output:
	// 1414
}
