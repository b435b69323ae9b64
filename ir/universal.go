package ir

import "sort"

// UniversalStrategy selects one of the two explicit best-effort decoders
// used when no registered protocol accepts an input, per spec.md §4.9 and
// §9's instruction to keep both strategies explicit rather than silently
// falling back from one to the other.
type UniversalStrategy int

const (
	// StrategyDistribution infers bit encoding from the distribution of
	// distinct (mark, space) pairs observed in the stream.
	StrategyDistribution UniversalStrategy = iota
	// StrategyNearestNeighbour classifies each duration by comparing it to
	// the previous duration of the same sign.
	StrategyNearestNeighbour
)

// DecodeUniversal is the heuristic fallback decoder (C9): given a strategy,
// it produces a best-effort Code whose only field is "code" (a
// variable-width integer) and whose Frequency echoes the caller's argument.
func DecodeUniversal(rlc RLC, frequency int, strategy UniversalStrategy) (Code, error) {
	switch strategy {
	case StrategyNearestNeighbour:
		return decodeUniversalNearestNeighbour(rlc, frequency)
	default:
		return decodeUniversalDistribution(rlc, frequency)
	}
}

func decodeUniversalDistribution(rlc RLC, frequency int) (Code, error) {
	if len(rlc) < 2 || len(rlc)%2 != 0 {
		return Code{}, irStreamErrorf("universal fallback requires an even, non-empty number of durations, got %d", len(rlc))
	}

	type pairKey struct{ mark, space Tick }
	counts := map[pairKey]int{}
	var order []pairKey
	for i := 0; i < len(rlc); i += 2 {
		k := pairKey{rlc[i], rlc[i+1]}
		if counts[k] == 0 {
			order = append(order, k)
		}
		counts[k]++
	}
	if len(order) < 2 {
		return Code{}, irStreamErrorf("universal fallback needs at least two distinct burst shapes, found %d", len(order))
	}

	sort.Slice(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	zero, one := order[0], order[1]
	zeroBurst := Burst{Mark: zero.mark, Space: zero.space}
	oneBurst := Burst{Mark: one.mark, Space: one.space}

	const tol = DefaultTolerancePct
	bits := make([]int, 0, len(rlc)/2)
	for i := 0; i < len(rlc); i += 2 {
		pair := Burst{Mark: rlc[i], Space: rlc[i+1]}
		switch {
		case MatchPair(pair, oneBurst, tol):
			bits = append(bits, 1)
		case MatchPair(pair, zeroBurst, tol):
			bits = append(bits, 0)
		case abs64(pair.Mark-oneBurst.Mark) < abs64(pair.Mark-zeroBurst.Mark):
			bits = append(bits, 1)
		default:
			bits = append(bits, 0)
		}
	}

	return universalCode(bits, rlc, frequency), nil
}

// decodeUniversalNearestNeighbour classifies every duration independently:
// bit = 1 when the duration matches the previous duration of the same sign
// within 20% or 3µs, else 0. Explicitly best-effort, per spec.md §4.9.
func decodeUniversalNearestNeighbour(rlc RLC, frequency int) (Code, error) {
	if len(rlc) == 0 {
		return Code{}, irStreamErrorf("universal fallback requires a non-empty stream")
	}

	bits := make([]int, len(rlc))
	var havePrev [2]bool
	var prev [2]Tick

	for i, d := range rlc {
		idx := 0
		if signOf(d) < 0 {
			idx = 1
		}
		bit := 0
		if havePrev[idx] {
			p := prev[idx]
			if MatchDuration(d, p, 20) || abs64(d-p) <= 3 {
				bit = 1
			}
		}
		bits[i] = bit
		prev[idx] = d
		havePrev[idx] = true
	}

	return universalCode(bits, rlc, frequency), nil
}

func universalCode(bits []int, rlc RLC, frequency int) Code {
	value := bitsToValue(bits, MSBFirst)
	bf := NewBitField(value, len(bits), MSBFirst)
	return Code{
		OriginalRLC:   rlc,
		NormalizedRLC: []RLC{mergeRLC(append(RLC(nil), rlc...))},
		Fields:        map[string]BitField{"code": bf},
		Frequency:     frequency,
		Name:          "universal",
	}
}
