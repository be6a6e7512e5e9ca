// File: api/record.go
// Package api defines the shared value types and contracts of tickpipe.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Record is the fixed-layout market-data sample flowing through the
// pipeline. It occupies exactly one cache line so adjacent pool slots
// never share a line and ring-slot indexing stays trivial.

package api

import "fmt"

const (
	// CacheLineSize is the target size and alignment unit for hot
	// shared state throughout the module.
	CacheLineSize = 64

	// SymbolCapacity is the longest symbol a Record carries inline.
	// SetSymbol truncates anything longer.
	SymbolCapacity = 15
)

// Record is a 64-byte market-data sample.
//
// Records move through the pipeline by value copy; copying a Record
// never transfers ownership of the pool or ring slot it was read from.
// The trailing padding bytes carry no meaning and are never read.
type Record struct {
	symbol [SymbolCapacity]byte
	symLen uint8
	Price  float64
	Volume int32
	_      [36]byte // pad to CacheLineSize
}

// NewRecord builds a Record. The symbol is truncated to SymbolCapacity
// bytes; see SetSymbol.
func NewRecord(symbol string, price float64, volume int32) Record {
	var r Record
	r.SetSymbol(symbol)
	r.Price = price
	r.Volume = volume
	return r
}

// SetSymbol stores symbol in the inline buffer. Symbols longer than
// SymbolCapacity bytes are truncated: the identifier is diagnostic
// payload, and an infallible setter keeps the hot path free of error
// branches and hidden allocation.
func (r *Record) SetSymbol(symbol string) {
	n := copy(r.symbol[:], symbol)
	r.symLen = uint8(n)
}

// Symbol returns a copy of the inline symbol.
func (r *Record) Symbol() string {
	return string(r.symbol[:r.symLen])
}

// String renders the record for diagnostic lines.
func (r Record) String() string {
	return fmt.Sprintf("%s, price: %g, volume: %d", r.Symbol(), r.Price, r.Volume)
}
