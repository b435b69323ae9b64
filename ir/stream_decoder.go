package ir

// DecodeStream converts a raw timing vector into an ordered bit list, given
// the burst-pair/middle-timing/lead-in/lead-out shape of one protocol. It
// is the generic "stream decoder" shared by every protocol's decode path;
// leadIn/leadOut are passed explicitly (rather than read off the
// descriptor) so a Session can swap in a protocol's repeat-frame variant
// without mutating the shared, immutable Protocol value.
//
// Classification of bursts into half-bit, Manchester, or pulse-count coding
// follows classifyEncoding. Decoding proceeds in four stages: consume the
// lead-in, consume the lead-out, decode the body into bits, and verify the
// resulting bit count. Every input duration is consumed exactly once; no
// stage re-reads a duration it already accepted.
func DecodeStream(p *Protocol, leadIn, leadOut RLC, rlc RLC) ([]int, error) {
	tol := p.tolerance()
	bursts := p.Bursts
	middles := p.MiddleTimings

	work := append(RLC(nil), rlc...)

	work, err := consumeLeadIn(work, leadIn, bursts, middles, tol)
	if err != nil {
		return nil, err
	}

	body, absorbed, err := consumeLeadOut(work, leadOut, bursts, tol)
	if err != nil {
		return nil, err
	}
	body = append(body, absorbed...)

	var bits []int
	switch classifyEncoding(bursts) {
	case PulseCount:
		bits, err = decodePulseCount(body, bursts[0], tol)
	case Manchester:
		bits, err = decodeManchester(body, bursts, middles, tol)
	default:
		bits, err = decodeHalfBit(body, bursts, middles, tol)
	}
	if err != nil {
		return nil, err
	}

	if len(bits) != p.TotalBits {
		return nil, irStreamErrorf("decoded %d bits, want %d", len(bits), p.TotalBits)
	}
	return bits, nil
}

// splitUnits collects the candidate burst-unit durations a lead-in/lead-out
// split may be measured against: every Mark/Space component of the burst
// table and of any non-ranged middle timing.
func splitUnits(bursts []Burst, middles []MiddleTiming) []Tick {
	seen := make(map[Tick]bool)
	var units []Tick
	add := func(t Tick) {
		if t == 0 || seen[t] {
			return
		}
		seen[t] = true
		units = append(units, t)
	}
	for _, b := range bursts {
		add(b.Mark)
		add(b.Space)
	}
	for _, m := range middles {
		if !m.Ranged {
			add(m.Burst.Mark)
			add(m.Burst.Space)
		}
	}
	return units
}

// trySplit attempts to accept observed as expected + k*unit for some
// candidate unit and positive integer k, per the stage A/B splitting rule.
// On success it returns the remainder (the k*unit part) to be pushed back
// onto the stream.
func trySplit(observed, expected Tick, units []Tick, tol int) (Tick, bool) {
	remainder := observed - expected
	if remainder == 0 {
		return 0, false
	}
	for _, unit := range units {
		k := remainder / unit
		if k <= 0 {
			continue
		}
		if MatchDuration(remainder, unit*k, tol) {
			return remainder, true
		}
	}
	return 0, false
}

func consumeLeadIn(work RLC, leadIn RLC, bursts []Burst, middles []MiddleTiming, tol int) (RLC, error) {
	units := splitUnits(bursts, middles)
	for _, expected := range leadIn {
		if len(work) == 0 {
			return nil, leadInErrorf("stream exhausted matching lead-in")
		}
		observed := work[0]
		if MatchDuration(observed, expected, tol) {
			work = work[1:]
			continue
		}
		remainder, ok := trySplit(observed, expected, units, tol)
		if !ok {
			return nil, leadInErrorf("%d", observed)
		}
		work = append(RLC{remainder}, work[1:]...)
	}
	return work, nil
}

// consumeLeadOut mirrors consumeLeadIn from the tail of work. It returns the
// remaining body and any split-off remainders (injected back into the body
// for stage C to consume, per the "absorbed tail" cases in spec.md §4.4).
// NoExplicitTail in leadOut means the true tail duration is open-ended: a
// trailing space is dropped without validating its magnitude, and a
// trailing mark (a frame sent with no gap after it) is left in the body.
func consumeLeadOut(work RLC, leadOut RLC, bursts []Burst, tol int) (RLC, RLC, error) {
	units := splitUnits(bursts, nil)
	body := append(RLC(nil), work...)
	var absorbed RLC

	for i := len(leadOut) - 1; i >= 0; i-- {
		expected := leadOut[i]
		if expected == NoExplicitTail {
			if len(body) > 0 && body[len(body)-1] < 0 {
				body = body[:len(body)-1]
			}
			continue
		}
		if len(body) == 0 {
			return nil, nil, leadOutErrorf("stream exhausted matching lead-out")
		}
		observed := body[len(body)-1]
		if MatchDuration(observed, expected, tol) {
			body = body[:len(body)-1]
			continue
		}
		remainder, ok := trySplit(observed, expected, units, tol)
		if !ok {
			return nil, nil, leadOutErrorf("%d vs expected %d", observed, expected)
		}
		body = body[:len(body)-1]
		absorbed = append(RLC{remainder}, absorbed...)
	}
	return body, absorbed, nil
}

func lookupBurst(pair Burst, bursts []Burst, tol int) (int, bool) {
	for i, b := range bursts {
		if MatchPair(pair, b, tol) {
			return i, true
		}
	}
	return 0, false
}

// lookupMiddle consults the middle-timings list in its two declared
// shapes: a ranged record is only tried while pairIndex falls inside
// [Start, Stop], using its own burst table; a plain entry can replace a
// pair at any position and yields its declared Bits directly.
func lookupMiddle(pair Burst, middles []MiddleTiming, pairIndex int, tol int) ([]int, bool) {
	for _, m := range middles {
		if m.Ranged {
			if pairIndex < m.Start || pairIndex > m.Stop {
				continue
			}
			if idx, ok := lookupBurst(pair, m.Bursts, tol); ok {
				return indexToBits(idx, bitsPerPair(m.Bursts)), true
			}
			continue
		}
		if MatchPair(pair, m.Burst, tol) {
			return append([]int(nil), m.Bits...), true
		}
	}
	return nil, false
}

func decodeHalfBit(body RLC, bursts []Burst, middles []MiddleTiming, tol int) ([]int, error) {
	if len(body)%2 != 0 {
		return nil, irStreamErrorf("odd number of durations in body: %d", len(body))
	}
	perPair := bitsPerPair(bursts)

	var bits []int
	pairIndex := 0
	for i := 0; i < len(body); i += 2 {
		pair := Burst{Mark: body[i], Space: body[i+1]}
		if idx, ok := lookupBurst(pair, bursts, tol); ok {
			bits = append(bits, indexToBits(idx, perPair)...)
			pairIndex++
			continue
		}
		mbits, ok := lookupMiddle(pair, middles, pairIndex, tol)
		if !ok {
			return nil, irStreamErrorf("unrecognised burst pair (%d,%d)", pair.Mark, pair.Space)
		}
		bits = append(bits, mbits...)
		pairIndex++
	}
	return bits, nil
}

func decodePulseCount(body RLC, unit Burst, tol int) ([]int, error) {
	if unit.Mark == 0 || unit.Space == 0 {
		return nil, irStreamErrorf("pulse-count protocol has a zero-length unit")
	}
	var bits []int
	for _, d := range body {
		var base Tick
		var bitVal int
		if d > 0 {
			base, bitVal = unit.Mark, 1
		} else {
			base, bitVal = unit.Space, 0
		}
		k := d / base
		if k <= 0 || !MatchDuration(d, base*k, tol) {
			return nil, irStreamErrorf("pulse-count duration %d is not a clean multiple of its unit", d)
		}
		for n := Tick(0); n < k; n++ {
			bits = append(bits, bitVal)
		}
	}
	return bits, nil
}

// decodeManchester walks the body duration by duration, splitting any
// duration of one to four half-cell units into that many same-sign
// half-cells (adjacent half-cells fuse into runs of up to four units
// around the double-width toggle bit), then groups half-cells pairwise and
// looks each pair up exactly as decodeHalfBit does.
func decodeManchester(body RLC, bursts []Burst, middles []MiddleTiming, tol int) ([]int, error) {
	if len(bursts) == 0 {
		return nil, irStreamErrorf("manchester protocol missing bursts table")
	}
	unitMark, unitSpace := bursts[0].Mark, bursts[0].Space

	var halfCells RLC
	for _, d := range body {
		unit := unitMark
		if d < 0 {
			unit = unitSpace
		}
		split := false
		for k := Tick(1); k <= 4 && !split; k++ {
			if MatchDuration(d, unit*k, tol) {
				for n := Tick(0); n < k; n++ {
					halfCells = append(halfCells, unit)
				}
				split = true
			}
		}
		if split {
			continue
		}
		expanded, ok := expandMiddleHalfCell(d, middles, tol)
		if !ok {
			return nil, irStreamErrorf("unrecognised manchester duration %d", d)
		}
		halfCells = append(halfCells, expanded...)
	}

	if len(halfCells)%2 != 0 {
		return nil, irStreamErrorf("odd number of manchester half-cells: %d", len(halfCells))
	}

	perPair := bitsPerPair(bursts)
	var bits []int
	pairIndex := 0
	for i := 0; i < len(halfCells); i += 2 {
		pair := Burst{Mark: halfCells[i], Space: halfCells[i+1]}
		if idx, ok := lookupBurst(pair, bursts, tol); ok {
			bits = append(bits, indexToBits(idx, perPair)...)
			pairIndex++
			continue
		}
		mbits, ok := lookupMiddle(pair, middles, pairIndex, tol)
		if !ok {
			return nil, irStreamErrorf("unrecognised manchester pair (%d,%d)", pair.Mark, pair.Space)
		}
		bits = append(bits, mbits...)
		pairIndex++
	}
	return bits, nil
}

func expandMiddleHalfCell(d Tick, middles []MiddleTiming, tol int) (RLC, bool) {
	for _, m := range middles {
		var mark, space Tick
		switch {
		case m.Ranged && len(m.Bursts) > 0:
			mark, space = m.Bursts[0].Mark, m.Bursts[0].Space
		case !m.Ranged:
			mark, space = m.Burst.Mark, m.Burst.Space
		default:
			continue
		}
		switch {
		case MatchDuration(d, mark, tol):
			return RLC{mark}, true
		case MatchDuration(d, space, tol):
			return RLC{space}, true
		case MatchDuration(d, mark*2, tol):
			return RLC{mark, mark}, true
		case MatchDuration(d, space*2, tol):
			return RLC{space, space}, true
		}
	}
	return nil, false
}
