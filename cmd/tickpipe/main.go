// File: cmd/tickpipe/main.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Command tickpipe runs the demonstration pipeline: a pinned producer
// synthesizing market-data batches and a pinned consumer draining them
// through the lock-free channel. The pipeline runs until Enter is
// pressed, then drains and reports its counters.

package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/momentics/tickpipe/affinity"
	"github.com/momentics/tickpipe/diag"
	"github.com/momentics/tickpipe/pipeline"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "tickpipe:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := pipeline.Load()
	if err != nil {
		return err
	}

	sink, err := diag.NewFileSink(cfg.LogPath)
	if err != nil {
		return err
	}
	defer sink.Close()

	ctrl, err := pipeline.New(cfg, sink, affinity.New())
	if err != nil {
		return err
	}
	defer ctrl.Close()

	if err := ctrl.Start(); err != nil {
		return err
	}

	fmt.Println("press Enter to stop")
	_, _ = bufio.NewReader(os.Stdin).ReadString('\n')

	ctrl.Stop()
	return nil
}
