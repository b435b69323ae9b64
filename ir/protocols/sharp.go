package protocols

import "github.com/flirc/irdecoder/ir"

// sharp is Sharp's 30-bit pulse-distance protocol: 5-bit device, 8-bit
// function, a 2-bit constant, then the same device field repeated, an
// inverted function checksum, and a second 2-bit constant — with no
// lead-in (Sharp frames start directly on the first data bit) and a
// {264,-43560}µs gap spliced into the middle of the frame as well as at
// its end.
//
// Grounded on pyIRDecoder/sharp.py: TIMING=264, the {264,-792}/
// {264,-1848} bit bursts (`[TIMING,-TIMING*3],[TIMING,-TIMING*7]`), the
// D/F/C0/D_CHECKSUM/F_CHECKSUM/C1 field layout (`_parameters`), C0=1/
// C1=2, F_CHECKSUM = ~F, and the repeated-D checksum (D_CHECKSUM is
// simply D resent, not inverted). The {264,-43560} mid-frame gap
// (`[TIMING,-TIMING*165]`, present twice in the irp) has no payload bit
// of its own, so it is modelled as a MiddleTiming with no declared Bits:
// decodeHalfBit recognises and consumes the pair but contributes nothing
// to the bit stream, matching the genuine 30-bit field layout.
func newSharp() *ir.Protocol {
	const unit ir.Tick = 264

	p := &ir.Protocol{
		Name:      "sharp",
		CarrierHz: 38000,
		BitOrder:  ir.LSBFirst,
		TotalBits: 30,

		LeadOut: ir.RLC{unit, -(unit * 165)},

		Bursts: []ir.Burst{
			{Mark: unit, Space: -(unit * 3)}, // bit 0
			{Mark: unit, Space: -(unit * 7)}, // bit 1
		},
		MiddleTimings: []ir.MiddleTiming{
			{Burst: ir.Burst{Mark: unit, Space: -(unit * 165)}},
		},

		Fields: []ir.Field{
			{Name: "device", Lo: 0, Hi: 4},
			{Name: "function", Lo: 5, Hi: 12},
			{Name: "c0", Lo: 13, Hi: 14},
			{Name: "d_checksum", Lo: 15, Hi: 19},
			{Name: "f_checksum", Lo: 20, Hi: 27},
			{Name: "c1", Lo: 28, Hi: 29},
		},
		EncodeFields: []ir.EncodeField{
			{Name: "device", Min: 0, Max: 31},
			{Name: "function", Min: 0, Max: 255},
		},
		ConstFields: map[string]uint64{
			"c0": 1,
			"c1": 2,
		},
	}

	p.Decode = sharpDecode
	p.Encode = sharpEncode
	return p
}

// sharpDecode runs the default decode (which already validates c0/c1 via
// ConstFields and consumes the mid-frame gap via MiddleTimings), then
// cross-checks the two derived fields DefaultDecode's single-field
// ChecksumHook has no way to express: d_checksum must equal device
// verbatim, and f_checksum must equal function inverted.
func sharpDecode(p *ir.Protocol, session *ir.Session, rlc ir.RLC, frequency int) (ir.Code, error) {
	code, err := ir.DefaultDecode(p, session, rlc, frequency)
	if err != nil {
		return ir.Code{}, err
	}

	device := code.Fields["device"]
	function := code.Fields["function"]
	if device.Value != code.Fields["d_checksum"].Value || function.Invert().Value != code.Fields["f_checksum"].Value {
		return ir.Code{}, &ir.DecodeError{Kind: ir.KindDecode, Detail: "sharp checksum failed"}
	}
	return code, nil
}

// sharpEncode builds the frame as two independent 15-bit halves (device,
// function, c0; then d_checksum, f_checksum, c1), each terminated by the
// same {264,-43560} gap, since flattenFields/emitHalfBit assemble a
// protocol's Fields in one unbroken pass and have no way to splice a
// non-field gap in between. Reusing ir.BuildPacket per half keeps the
// actual bit-to-burst emission shared with every other protocol.
func sharpEncode(p *ir.Protocol, session *ir.Session, args map[string]uint64, repeatCount int) (ir.Code, error) {
	for _, ef := range p.EncodeFields {
		v, ok := args[ef.Name]
		if !ok {
			return ir.Code{}, &ir.DecodeError{Kind: ir.KindDecode, Detail: "missing required argument " + ef.Name}
		}
		if v < ef.Min || v > ef.Max {
			return ir.Code{}, &ir.DecodeError{Kind: ir.KindDecode, Detail: "argument " + ef.Name + " out of range"}
		}
	}

	device := ir.NewBitField(args["device"], 5, p.BitOrder)
	function := ir.NewBitField(args["function"], 8, p.BitOrder)
	c0 := ir.NewBitField(1, 2, p.BitOrder)
	c1 := ir.NewBitField(2, 2, p.BitOrder)
	fChecksum := function.Invert()

	gap := p.LeadOut

	firstHalf := &ir.Protocol{
		TotalBits: 15,
		BitOrder:  p.BitOrder,
		Bursts:    p.Bursts,
		Fields: []ir.Field{
			{Name: "device", Lo: 0, Hi: 4},
			{Name: "function", Lo: 5, Hi: 12},
			{Name: "c0", Lo: 13, Hi: 14},
		},
	}
	secondHalf := &ir.Protocol{
		TotalBits: 15,
		BitOrder:  p.BitOrder,
		Bursts:    p.Bursts,
		Fields: []ir.Field{
			{Name: "d_checksum", Lo: 0, Hi: 4},
			{Name: "f_checksum", Lo: 5, Hi: 12},
			{Name: "c1", Lo: 13, Hi: 14},
		},
	}

	firstBody, err := ir.BuildPacket(firstHalf, nil, gap, map[string]ir.BitField{
		"device": device, "function": function, "c0": c0,
	})
	if err != nil {
		return ir.Code{}, err
	}
	secondBody, err := ir.BuildPacket(secondHalf, nil, gap, map[string]ir.BitField{
		"d_checksum": device, "f_checksum": fChecksum, "c1": c1,
	})
	if err != nil {
		return ir.Code{}, err
	}

	body := append(append(ir.RLC(nil), firstBody...), secondBody...)

	fields := map[string]ir.BitField{
		"device":     device,
		"function":   function,
		"c0":         c0,
		"d_checksum": device,
		"f_checksum": fChecksum,
		"c1":         c1,
	}

	frames := make([]ir.RLC, 0, repeatCount+1)
	for i := 0; i <= repeatCount; i++ {
		frames = append(frames, append(ir.RLC(nil), body...))
	}

	var flat ir.RLC
	for _, f := range frames {
		flat = append(flat, f...)
	}

	return ir.Code{
		Protocol:      p,
		OriginalRLC:   flat,
		NormalizedRLC: frames,
		Fields:        fields,
		Frequency:     p.CarrierHz,
		Name:          p.Name,
	}, nil
}
