package protocols

import "github.com/flirc/irdecoder/ir"

// Aiwa is a 42-bit pulse-distance protocol laid out as 8-bit device,
// 5-bit sub-device, their 8-bit and 5-bit bitwise-complement checksums,
// 8-bit function and its 8-bit complement checksum. It also has a
// dedicated repeat sentinel frame, carrying no payload bits, that shares
// the command frame's lead-in.
//
// Grounded on pyIRDecoder/aiwa.py: TIMING=550, the {8800,-4400}µs
// lead-in (`[TIMING*16, -TIMING*8]`), the D/S/D_CHECKSUM/S_CHECKSUM/
// F/F_CHECKSUM field layout, the {550,-23100} lead-out
// (`[TIMING, -TIMING*42]`), and the repeat frame's {550,-90750}
// lead-out (`[TIMING, -TIMING*165]`) recognised the same way necx's
// dedicated repeat frame is.
func newAiwa() *ir.Protocol {
	const unit ir.Tick = 550

	p := &ir.Protocol{
		Name:      "aiwa",
		CarrierHz: 38123,
		BitOrder:  ir.LSBFirst,
		TotalBits: 42,

		LeadIn:  ir.RLC{unit * 16, -(unit * 8)},
		LeadOut: ir.RLC{unit, -(unit * 42)},

		RepeatLeadIn:  ir.RLC{unit * 16, -(unit * 8)},
		RepeatLeadOut: ir.RLC{unit, -(unit * 165)},
		RepeatPolicy:  ir.RepeatPolicyDedicatedFrame,

		Bursts: []ir.Burst{
			{Mark: unit, Space: -unit},     // bit 0
			{Mark: unit, Space: -unit * 3}, // bit 1
		},

		Fields: []ir.Field{
			{Name: "device", Lo: 0, Hi: 7},
			{Name: "sub_device", Lo: 8, Hi: 12},
			{Name: "d_checksum", Lo: 13, Hi: 20},
			{Name: "s_checksum", Lo: 21, Hi: 25},
			{Name: "function", Lo: 26, Hi: 33},
			{Name: "f_checksum", Lo: 34, Hi: 41},
		},
		EncodeFields: []ir.EncodeField{
			{Name: "device", Min: 0, Max: 255},
			{Name: "sub_device", Min: 0, Max: 31},
			{Name: "function", Min: 0, Max: 255},
		},
	}

	p.Decode = aiwaDecode
	p.Encode = aiwaEncode
	return p
}

// aiwaDecode mirrors necxDecode's two-attempt shape: try the full 42-bit
// command frame first, falling back to the dedicated zero-bit
// repeat-sentinel frame on failure. A structurally valid command frame still has its three
// checksum fields cross-checked against their source fields, since they
// aren't a single named "checksum" DefaultDecode's generic hook can
// validate.
func aiwaDecode(p *ir.Protocol, session *ir.Session, rlc ir.RLC, frequency int) (ir.Code, error) {
	code, err := ir.DefaultDecode(p, session, rlc, frequency)
	if err == nil {
		device := code.Fields["device"]
		subDevice := code.Fields["sub_device"]
		function := code.Fields["function"]
		if device.Invert().Value != code.Fields["d_checksum"].Value ||
			subDevice.Invert().Value != code.Fields["s_checksum"].Value ||
			function.Invert().Value != code.Fields["f_checksum"].Value {
			return ir.Code{}, &ir.DecodeError{Kind: ir.KindDecode, Detail: "aiwa checksum failed"}
		}
		return code, nil
	}

	// Unlike necx's dedicated repeat frame, aiwa.py's repeat shape
	// (`(16,-8,1,-165)*`) carries no payload bit: the "1,-165" is the
	// stop-mark-plus-gap that RepeatLeadOut already fully accounts for.
	repeatShape := *p
	repeatShape.TotalBits = 0
	_, repeatErr := ir.DecodeStream(&repeatShape, p.RepeatLeadIn, p.RepeatLeadOut, rlc)
	if repeatErr != nil {
		return ir.Code{}, err
	}

	return ir.Code{}, &ir.DecodeError{Kind: ir.KindRepeatLeadIn, Detail: "aiwa dedicated repeat frame"}
}

// aiwaEncode fills in the three checksum fields directly (BitField.Invert
// within each source field's own width) rather than through the generic
// single-field ChecksumHook, then builds the packet exactly as
// DefaultEncode does.
func aiwaEncode(p *ir.Protocol, session *ir.Session, args map[string]uint64, repeatCount int) (ir.Code, error) {
	for _, ef := range p.EncodeFields {
		v, ok := args[ef.Name]
		if !ok {
			return ir.Code{}, &ir.DecodeError{Kind: ir.KindDecode, Detail: "missing required argument " + ef.Name}
		}
		if v < ef.Min || v > ef.Max {
			return ir.Code{}, &ir.DecodeError{Kind: ir.KindDecode, Detail: "argument " + ef.Name + " out of range"}
		}
	}

	device := ir.NewBitField(args["device"], 8, p.BitOrder)
	subDevice := ir.NewBitField(args["sub_device"], 5, p.BitOrder)
	function := ir.NewBitField(args["function"], 8, p.BitOrder)

	fields := map[string]ir.BitField{
		"device":     device,
		"sub_device": subDevice,
		"d_checksum": device.Invert(),
		"s_checksum": subDevice.Invert(),
		"function":   function,
		"f_checksum": function.Invert(),
	}

	body, err := ir.BuildPacket(p, p.LeadIn, p.LeadOut, fields)
	if err != nil {
		return ir.Code{}, err
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
