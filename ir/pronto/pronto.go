// Package pronto converts between the raw mark/space timing
// representation and the Pronto hex text format, including the semantic
// RC5/RC5X/RC6/RC6A variants that Pronto synthesises from device/command
// fields rather than storing literal timings.
//
// Grounded on pyIRDecoder/pronto.py: the same word-0 dispatch table, the
// same Pronto clock constant, and the same run-length compression of
// synthesised Manchester cells into a timing vector.
package pronto

import (
	"fmt"
	"strconv"
	"strings"
)

// Tick is a signed microsecond duration; this package intentionally avoids
// importing the core ir package so ir can depend on pronto for Code's
// Pronto() view without an import cycle.
type Tick = int64

// RLC is one frame's worth of ordered signed durations.
type RLC = []Tick

// ProntoClock is the reference period, in microseconds, that Pronto
// carrier divisors and raw tick counts are expressed in.
const ProntoClock = 0.241246

// SignalFree is the silence (in Pronto ticks) appended after an odd-length
// raw conversion so that Pronto pairs stay balanced.
const SignalFree = 10000

// SignalFreeRC6 is the trailing silence used by the RC6/RC6A synthesis
// path, shorter than the generic raw SignalFree gap.
const SignalFreeRC6 = 2700

const (
	wordRawLearned    = 0x0000
	wordRawUnmodulated = 0x0100
	wordRC5           = 0x5000
	wordRC5X          = 0x5001
	wordRC6           = 0x6000
	wordRC6A          = 0x6001
)

// ToRLC parses a Pronto hex string and returns the carrier frequency (Hz)
// and the decoded frame(s): one frame for raw formats (once-only prefix
// and repeatable body are returned as a single flattened frame, since the
// core decoder operates on a flat RLC), and a single synthesised frame for
// the semantic RC5/RC5X/RC6/RC6A formats.
func ToRLC(hex string) (freq int, frames []RLC, err error) {
	words, err := parseWords(hex)
	if err != nil {
		return 0, nil, err
	}
	if len(words) == 0 {
		return 0, nil, fmt.Errorf("pronto: empty input")
	}

	switch words[0] {
	case wordRawLearned, wordRawUnmodulated:
		return rawToRLC(words)
	case wordRC5:
		return rc5ToRLC(words, false)
	case wordRC5X:
		return rc5ToRLC(words, true)
	case wordRC6:
		return rc6ToRLC(words, false)
	case wordRC6A:
		return rc6ToRLC(words, true)
	default:
		return 0, nil, fmt.Errorf("pronto: unrecognised word 0 %04X", words[0])
	}
}

// FromRLC encodes a raw frame as Pronto's generic raw format (word 0 =
// learned, 0x0000): all of frames is treated as the once-only prefix, with
// an empty repeatable body, matching the core's flat-RLC model. An odd
// total tick count triggers the SignalFree padding word pair.
func FromRLC(freq int, frames []RLC) string {
	var flat RLC
	for _, f := range frames {
		flat = append(flat, f...)
	}

	divisor := carrierToDivisor(freq)
	ticks := make([]uint16, 0, len(flat)+2)
	for _, d := range flat {
		ticks = append(ticks, durationToTicks(d))
	}
	if len(ticks)%2 != 0 {
		ticks = append(ticks, SignalFree)
	}

	words := []uint16{wordRawLearned, divisor, uint16(len(ticks) / 2), 0}
	words = append(words, ticks...)
	return formatWords(words)
}

func parseWords(hex string) ([]uint16, error) {
	fields := strings.Fields(hex)
	words := make([]uint16, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseUint(f, 16, 16)
		if err != nil {
			return nil, fmt.Errorf("pronto: invalid word %q: %w", f, err)
		}
		words = append(words, uint16(v))
	}
	return words, nil
}

func formatWords(words []uint16) string {
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = fmt.Sprintf("%04X", w)
	}
	return strings.Join(parts, " ")
}

func carrierToDivisor(freq int) uint16 {
	if freq <= 0 {
		freq = 38000
	}
	return uint16(1000000.0 / ProntoClock / float64(freq))
}

func divisorToCarrier(divisor uint16) int {
	if divisor == 0 {
		return 38000
	}
	return int(1000000.0 / (float64(divisor) * ProntoClock))
}

func durationToTicks(d Tick) uint16 {
	abs := d
	if abs < 0 {
		abs = -abs
	}
	return uint16(float64(abs)/ProntoClock + 0.5)
}

func ticksToDuration(ticks uint16, mark bool) Tick {
	us := Tick(float64(ticks) * ProntoClock)
	if !mark {
		return -us
	}
	return us
}

// rawToRLC decodes the generic raw/unmodulated format: word1 = carrier
// divisor, word2 = once-only pair count, word3 = repeatable pair count,
// words4... = interleaved mark/space tick counts.
func rawToRLC(words []uint16) (int, []RLC, error) {
	if len(words) < 4 {
		return 0, nil, fmt.Errorf("pronto: raw format needs at least 4 words, got %d", len(words))
	}
	freq := divisorToCarrier(words[1])
	oncePairs := int(words[2])
	repeatPairs := int(words[3])
	total := (oncePairs + repeatPairs) * 2

	body := words[4:]
	if len(body) < total {
		return 0, nil, fmt.Errorf("pronto: raw format declares %d ticks but only %d present", total, len(body))
	}

	frame := make(RLC, 0, total)
	for i := 0; i < total; i++ {
		frame = append(frame, ticksToDuration(body[i], i%2 == 0))
	}
	return freq, []RLC{frame}, nil
}

// encodeBits synthesises one Manchester cell per bit: bit 1 is a
// space-then-mark half-cell pair, bit 0 is mark-then-space, matching
// zero_one_sequences in pronto.py.
func encodeBits(bits []int, unit Tick) RLC {
	out := make(RLC, 0, len(bits)*2)
	for _, b := range bits {
		if b == 1 {
			out = append(out, -unit, unit)
		} else {
			out = append(out, unit, -unit)
		}
	}
	return mergeRLC(out)
}

func mergeRLC(in RLC) RLC {
	var out RLC
	for _, d := range in {
		if len(out) > 0 && sameSign(out[len(out)-1], d) {
			out[len(out)-1] += d
			continue
		}
		out = append(out, d)
	}
	return out
}

func sameSign(a, b Tick) bool {
	if a == 0 || b == 0 {
		return false
	}
	return (a < 0) == (b < 0)
}

func bitsOf(value uint64, width int) []int {
	bits := make([]int, width)
	for i := 0; i < width; i++ {
		bits[i] = int((value >> uint(width-1-i)) & 1)
	}
	return bits
}

// rc5ToRLC synthesises a 14-bit RC5 biphase frame at 889µs from
// device/command words 4 and 5; RC5X emits the same 14 bits followed by a
// 4-unit trailing space and carries no extra data bits. The leading
// "11" start-bit pair is fixed per the RC5 spec; toggle defaults to 0
// since Pronto's semantic RC5 form carries no toggle word of its own.
func rc5ToRLC(words []uint16, extended bool) (int, []RLC, error) {
	if len(words) < 6 {
		return 0, nil, fmt.Errorf("pronto: RC5 format needs at least 6 words, got %d", len(words))
	}
	const unit Tick = 889
	device := words[4]
	command := words[5]

	bits := []int{1, 1, 0}
	bits = append(bits, bitsOf(uint64(device), 5)...)
	bits = append(bits, bitsOf(uint64(command), 6)...)

	frame := encodeBits(bits, unit)
	if extended {
		frame = append(frame, -unit*4)
	}
	return 36000, []RLC{frame}, nil
}

// rc6ToRLC synthesises an RC6 Manchester frame at 444µs: a fixed leader
// (2664µs mark, 888µs space), 3 mode bits of 0, a double-width toggle bit
// of 0 (space then mark, two units each), then a 32-bit payload with word 4
// as the high half and word 5 as the low half, followed by a SignalFreeRC6µs
// space. No start bit is emitted. RC6A needs a word 6 to be present but
// does not encode it.
func rc6ToRLC(words []uint16, extendedCustomer bool) (int, []RLC, error) {
	minWords := 6
	if extendedCustomer {
		minWords = 7
	}
	if len(words) < minWords {
		return 0, nil, fmt.Errorf("pronto: RC6 format needs at least %d words, got %d", minWords, len(words))
	}

	const unit Tick = 444
	leader := RLC{unit * 6, -(unit * 2)}

	mode := []int{0, 0, 0}
	body := encodeBits(mode, unit)
	body = append(body, -unit*2, unit*2) // double-width toggle bit, default 0

	data := uint64(words[4])<<16 | uint64(words[5])
	bits := bitsOf(data, 32)
	body = append(body, encodeBits(bits, unit)...)

	frame := append(leader, body...)
	frame = append(frame, -SignalFreeRC6)
	return 36000, []RLC{mergeRLC(frame)}, nil
}
