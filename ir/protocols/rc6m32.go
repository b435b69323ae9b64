package protocols

import "github.com/flirc/irdecoder/ir"

// rc6m32 is the 6-32 "mode 6, 32-bit payload" RC6 variant: a 1-bit start
// bit, 3-bit mode, a double-width toggle bit, two 8-bit OEM fields, 8-bit
// device, 8-bit function. Toggle tracking needs no protocol-specific
// override: it is a normal decoded field, so the session's default
// "same fields = held repeat, differing fields = new press" comparison
// already gives flipped-toggle-is-a-new-press semantics for free.
//
// Grounded on pyIRDecoder's RC6 handling and spec.md §8's RC6-M32
// scenario (toggle at bit-pair index 4, mode=6, oem1=9, oem2=137,
// device=75, function=1).
func newRC6M32() *ir.Protocol {
	const unit ir.Tick = 444

	return &ir.Protocol{
		Name:      "rc6-m32",
		Aliases:   []string{"rc6", "rc6-6-32"},
		CarrierHz: 36000,
		BitOrder:  ir.MSBFirst,
		TotalBits: 37,

		LeadIn:  ir.RLC{unit * 6, -(unit * 2)},
		LeadOut: ir.RLC{ir.NoExplicitTail},

		Bursts: []ir.Burst{
			{Mark: unit, Space: -unit}, // bit 0
			{Mark: -unit, Space: unit}, // bit 1
		},
		MiddleTimings: []ir.MiddleTiming{
			{
				Ranged: true,
				Start:  4,
				Stop:   4,
				Bursts: []ir.Burst{
					{Mark: unit, Space: unit},   // toggle 0 (continuous mark, split into two mark half-cells)
					{Mark: -unit, Space: -unit}, // toggle 1 (continuous space, split into two space half-cells)
				},
			},
		},

		Fields: []ir.Field{
			{Name: "start", Lo: 0, Hi: 0},
			{Name: "mode", Lo: 1, Hi: 3},
			{Name: "toggle", Lo: 4, Hi: 4},
			{Name: "oem1", Lo: 5, Hi: 12},
			{Name: "oem2", Lo: 13, Hi: 20},
			{Name: "device", Lo: 21, Hi: 28},
			{Name: "function", Lo: 29, Hi: 36},
		},
		EncodeFields: []ir.EncodeField{
			{Name: "mode", Min: 0, Max: 7},
			{Name: "toggle", Min: 0, Max: 1},
			{Name: "oem1", Min: 0, Max: 255},
			{Name: "oem2", Min: 0, Max: 255},
			{Name: "device", Min: 0, Max: 255},
			{Name: "function", Min: 0, Max: 255},
		},
		ConstFields: map[string]uint64{
			"start": 1,
		},
	}
}
