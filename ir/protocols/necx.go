package protocols

import "github.com/flirc/irdecoder/ir"

// necx is the classic 32-bit NEC-extended protocol: 8-bit device, 8-bit
// sub-device, 8-bit function, and an 8-bit checksum that is the bitwise
// complement of the function byte. It ships a dedicated, much shorter
// repeat-sentinel frame (a lead-in, a single payload bit and a stop mark)
// that the decode hook recognises and resolves to the session's last
// held code, rather than attempting (and failing) a full 32-bit decode.
//
// Grounded on pyIRDecoder/protocols/necx.py: TIMING=564, the symmetric
// {4512,-4512}µs lead-in shared by the command and repeat frames
// (`_lead_in = _repeat_lead_in = [TIMING*8, -TIMING*8]`), the
// F_CHECKSUM = ~function field, and the 1-bit dedicated repeat frame
// recognised via _last_code.
func newNECx() *ir.Protocol {
	const unit ir.Tick = 564

	p := &ir.Protocol{
		Name:      "necx",
		Aliases:   []string{"nec", "nec-extended"},
		CarrierHz: 38400,
		BitOrder:  ir.LSBFirst,
		TotalBits: 32,

		LeadIn:  ir.RLC{unit * 8, -(unit * 8)},
		LeadOut: ir.RLC{unit, ir.NoExplicitTail},

		RepeatLeadIn:  ir.RLC{unit * 8, -(unit * 8)},
		RepeatLeadOut: ir.RLC{unit, ir.NoExplicitTail},
		RepeatPolicy:  ir.RepeatPolicyDedicatedFrame,

		Bursts: []ir.Burst{
			{Mark: unit, Space: -unit},     // bit 0
			{Mark: unit, Space: -unit * 3}, // bit 1
		},

		Fields: []ir.Field{
			{Name: "device", Lo: 0, Hi: 7},
			{Name: "sub_device", Lo: 8, Hi: 15},
			{Name: "function", Lo: 16, Hi: 23},
			{Name: "checksum", Lo: 24, Hi: 31},
		},
		EncodeFields: []ir.EncodeField{
			{Name: "device", Min: 0, Max: 255},
			{Name: "sub_device", Min: 0, Max: 255},
			{Name: "function", Min: 0, Max: 255},
		},
		ChecksumHook: func(fields map[string]ir.BitField) ir.BitField {
			return fields["function"].Invert()
		},
	}

	p.Decode = necxDecode
	return p
}

// necxDecode tries the full command frame first; if that decode fails for
// any reason (lead-in, lead-out, body or checksum), it retries against the
// dedicated repeat-sentinel framing. A successful match there
// is reported as a RepeatLeadIn control-flow signal rather than a second
// independent decode, so the session resolves it to the previously held
// code instead of trying to extract fields from an empty frame.
func necxDecode(descriptor *ir.Protocol, session *ir.Session, rlc ir.RLC, frequency int) (ir.Code, error) {
	code, err := ir.DefaultDecode(descriptor, session, rlc, frequency)
	if err == nil {
		return code, nil
	}

	repeatShape := *descriptor
	repeatShape.TotalBits = 1
	_, repeatErr := ir.DecodeStream(&repeatShape, descriptor.RepeatLeadIn, descriptor.RepeatLeadOut, rlc)
	if repeatErr != nil {
		return ir.Code{}, err
	}

	return ir.Code{}, &ir.DecodeError{Kind: ir.KindRepeatLeadIn, Detail: "necx dedicated repeat frame"}
}
