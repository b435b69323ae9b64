package ir

// DefaultDecode is the decode behaviour every Protocol gets unless it sets
// a DecodeHook override: run the stream decoder against the session's
// currently armed lead-in/lead-out, map the resulting bits to fields,
// validate the checksum and any declared constant fields, and return the
// assembled Code.
func DefaultDecode(p *Protocol, session *Session, rlc RLC, frequency int) (Code, error) {
	leadIn, leadOut := p.LeadIn, p.LeadOut
	if session != nil {
		leadIn, leadOut = session.currentFrame()
	}

	bits, err := DecodeStream(p, leadIn, leadOut, rlc)
	if err != nil {
		return Code{}, err
	}

	fields, err := p.fieldMap(bits)
	if err != nil {
		return Code{}, err
	}

	if err := validateConstFields(p, fields); err != nil {
		return Code{}, err
	}
	if err := validateChecksum(p, fields); err != nil {
		return Code{}, err
	}

	return Code{
		Protocol:      p,
		OriginalRLC:   rlc,
		NormalizedRLC: []RLC{mergeRLC(append(RLC(nil), rlc...))},
		Fields:        fields,
		Frequency:     frequency,
		Name:          p.Name,
	}, nil
}

func validateConstFields(p *Protocol, fields map[string]BitField) error {
	for name, want := range p.ConstFields {
		got, ok := fields[name]
		if !ok {
			continue
		}
		if got.Value != want {
			return decodeErrorf("constant field %q = %d, want %d", name, got.Value, want)
		}
	}
	return nil
}

func validateChecksum(p *Protocol, fields map[string]BitField) error {
	if p.ChecksumHook == nil {
		return nil
	}
	want, ok := fields["checksum"]
	if !ok {
		return nil
	}
	got := p.ChecksumHook(fields)
	if !got.Equal(want) {
		return decodeErrorf("checksum mismatch: got %d, want %d", got.Value, want.Value)
	}
	return nil
}

// DefaultEncode is the encode behaviour every Protocol gets unless it sets
// an EncodeHook override: validate args against EncodeFields ranges, fill
// in constant fields and the checksum, build the timing vector via the
// packet builder, and repeat it repeatCount extra times (supplemented from
// necx.py's encode(..., repeat_count=0), see DESIGN.md).
func DefaultEncode(p *Protocol, session *Session, args map[string]uint64, repeatCount int) (Code, error) {
	fields := make(map[string]BitField, len(p.Fields))

	for _, ef := range p.EncodeFields {
		v, ok := args[ef.Name]
		if !ok {
			return Code{}, decodeErrorf("missing required argument %q", ef.Name)
		}
		if v < ef.Min || v > ef.Max {
			return Code{}, decodeErrorf("argument %q = %d out of range [%d, %d]", ef.Name, v, ef.Min, ef.Max)
		}
	}

	for _, f := range p.Fields {
		if v, ok := args[f.Name]; ok {
			fields[f.Name] = NewBitField(v, f.width(), p.BitOrder)
			continue
		}
		if v, ok := p.ConstFields[f.Name]; ok {
			fields[f.Name] = NewBitField(v, f.width(), p.BitOrder)
		}
	}

	if p.ChecksumHook != nil {
		for _, f := range p.Fields {
			if f.Name == "checksum" {
				fields["checksum"] = p.ChecksumHook(fields)
			}
		}
	}

	body, err := BuildPacket(p, p.LeadIn, p.LeadOut, fields)
	if err != nil {
		return Code{}, err
	}

	frames := make([]RLC, 0, repeatCount+1)
	for i := 0; i <= repeatCount; i++ {
		frames = append(frames, append(RLC(nil), body...))
	}

	var flat RLC
	for _, f := range frames {
		flat = append(flat, f...)
	}

	return Code{
		Protocol:      p,
		OriginalRLC:   flat,
		NormalizedRLC: frames,
		Fields:        fields,
		Frequency:     p.CarrierHz,
		Name:          p.Name,
	}, nil
}
