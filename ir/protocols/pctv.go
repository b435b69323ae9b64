package protocols

import "github.com/flirc/irdecoder/ir"

// newPCTV is retained for reference only. pyIRDecoder's pctv.py is marked
// "TODO: finish" in-source and declares a single-scalar bursts value that
// does not correspond to any of the half-bit/Manchester/pulse-count
// shapes classifyEncoding recognises. Per the Open Question resolution in
// SPEC_FULL.md/DESIGN.md, PCTV is treated as experimental: this
// descriptor is intentionally not wired into DefaultRegistry, and its
// Bursts table is a placeholder, not a validated decode scheme.
func newPCTV() *ir.Protocol {
	return &ir.Protocol{
		Name:      "pctv",
		CarrierHz: 38000,
		BitOrder:  ir.LSBFirst,
		TotalBits: 0,
		Bursts:    []ir.Burst{{Mark: 1, Space: -1}},
	}
}
