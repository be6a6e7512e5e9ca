// File: pipeline/generator.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Deterministic synthetic feed: each batch replays the seed table with
// price and volume offset by the batch index, so every run is
// reproducible and consumers can be verified against expected values.

package pipeline

import "github.com/momentics/tickpipe/api"

// batchSeeds are the per-batch record templates.
var batchSeeds = [...]struct {
	symbol string
	price  float64
	volume int32
}{
	{"AAPL", 150.25, 1000},
	{"GOOG", 2750.1, 500},
	{"MSFT", 300.75, 800},
}

// fillBatch writes batch number batch (zero-based) into dst, cycling
// the seed table when dst is longer than it.
func fillBatch(dst []api.Record, batch int) {
	for i := range dst {
		seed := batchSeeds[i%len(batchSeeds)]
		dst[i] = api.NewRecord(seed.symbol,
			seed.price+float64(batch),
			seed.volume+int32(batch))
	}
}
