package protocols

import "github.com/flirc/irdecoder/ir"

// Panasonic is a 48-bit pulse-distance protocol: a fixed 16-bit custom
// code (C0=0x02, C1=0x20), 8-bit device, 8-bit sub-device, 8-bit
// function, 8-bit checksum (device XOR sub_device XOR function).
//
// Grounded on pyIRDecoder/panasonic.py: TIMING=432, the {3456,-1728}
// lead-in, the {432,-432}/{432,-1296} bit bursts, and the C0/C1 constant
// fields validated by _test_decode's literal 3456,-1728,432,-432...
// vector (device=248, sub_device=173, function=176, checksum=229).
func newPanasonic() *ir.Protocol {
	const unit ir.Tick = 432

	return &ir.Protocol{
		Name:      "panasonic",
		CarrierHz: 37000,
		BitOrder:  ir.LSBFirst,
		TotalBits: 48,

		LeadIn:  ir.RLC{3456, -1728},
		LeadOut: ir.RLC{unit, ir.NoExplicitTail},

		Bursts: []ir.Burst{
			{Mark: unit, Space: -unit},     // bit 0
			{Mark: unit, Space: -unit * 3}, // bit 1
		},

		Fields: []ir.Field{
			{Name: "c0", Lo: 0, Hi: 7},
			{Name: "c1", Lo: 8, Hi: 15},
			{Name: "device", Lo: 16, Hi: 23},
			{Name: "sub_device", Lo: 24, Hi: 31},
			{Name: "function", Lo: 32, Hi: 39},
			{Name: "checksum", Lo: 40, Hi: 47},
		},
		EncodeFields: []ir.EncodeField{
			{Name: "device", Min: 0, Max: 255},
			{Name: "sub_device", Min: 0, Max: 255},
			{Name: "function", Min: 0, Max: 255},
		},
		ConstFields: map[string]uint64{
			"c0": 2,
			"c1": 32,
		},
		ChecksumHook: func(fields map[string]ir.BitField) ir.BitField {
			v := fields["device"].Value ^ fields["sub_device"].Value ^ fields["function"].Value
			return ir.NewBitField(v, 8, ir.LSBFirst)
		},
	}
}
