package protocols

import "github.com/flirc/irdecoder/ir"

// pacemss is PaceMSS's 10-bit pulse-distance protocol: a 1-bit toggle, a
// 1-bit device, and an 8-bit function, MSB first, no checksum.
//
// Grounded on pyIRDecoder/pacemss.py: TIMING=630, the {630,-3150,630,-3150}
// lead-in (`[TIMING, -TIMING*5, TIMING, -TIMING*5]`), the {630,-4410}/
// {630,-6930} bit bursts (`[TIMING,-TIMING*7],[TIMING,-TIMING*11]`), and
// the T/D/F field layout (`_parameters`).
func newPaceMSS() *ir.Protocol {
	const unit ir.Tick = 630

	return &ir.Protocol{
		Name:      "pacemss",
		CarrierHz: 38000,
		BitOrder:  ir.MSBFirst,
		TotalBits: 10,

		LeadIn:  ir.RLC{unit, -(unit * 5), unit, -(unit * 5)},
		LeadOut: ir.RLC{unit, ir.NoExplicitTail},

		Bursts: []ir.Burst{
			{Mark: unit, Space: -(unit * 7)},  // bit 0
			{Mark: unit, Space: -(unit * 11)}, // bit 1
		},

		Fields: []ir.Field{
			{Name: "toggle", Lo: 0, Hi: 0},
			{Name: "device", Lo: 1, Hi: 1},
			{Name: "function", Lo: 2, Hi: 9},
		},
		EncodeFields: []ir.EncodeField{
			{Name: "toggle", Min: 0, Max: 1},
			{Name: "device", Min: 0, Max: 1},
			{Name: "function", Min: 0, Max: 255},
		},
	}
}
