package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func necLikeProtocol() *Protocol {
	const unit Tick = 564
	return &Protocol{
		BitOrder:  LSBFirst,
		TotalBits: 8,
		LeadIn:    RLC{unit * 16, -(unit * 8)},
		LeadOut:   RLC{unit, NoExplicitTail},
		Bursts: []Burst{
			{Mark: unit, Space: -unit},
			{Mark: unit, Space: -unit * 3},
		},
		Fields: []Field{{Name: "value", Lo: 0, Hi: 7}},
	}
}

func Test_DecodeStream_roundtrips_through_BuildPacket(t *testing.T) {
	p := necLikeProtocol()
	bits := []int{1, 0, 1, 1, 0, 0, 1, 0}

	body, err := emitHalfBit(p, bits)
	require.NoError(t, err)

	rlc := append(append(append(RLC(nil), p.LeadIn...), body...), p.LeadOut...)
	rlc = mergeRLC(rlc)

	decoded, err := DecodeStream(p, p.LeadIn, p.LeadOut, rlc)
	require.NoError(t, err)
	assert.Equal(t, bits, decoded)
}

func Test_DecodeStream_fails_on_unrecognised_lead_in(t *testing.T) {
	p := necLikeProtocol()
	_, err := DecodeStream(p, p.LeadIn, p.LeadOut, RLC{1, -1})
	require.Error(t, err)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, KindLeadIn, de.Kind)
}

func Test_DecodeStream_tolerance_boundary(t *testing.T) {
	p := necLikeProtocol()
	bits := []int{1, 0, 1, 0, 1, 0, 1, 0}
	body, err := emitHalfBit(p, bits)
	require.NoError(t, err)
	rlc := mergeRLC(append(append(append(RLC(nil), p.LeadIn...), body...), p.LeadOut...))

	scaled := make(RLC, len(rlc))
	for i, d := range rlc {
		scaled[i] = Tick(float64(d) * 1.2)
	}
	_, err = DecodeStream(p, p.LeadIn, p.LeadOut, scaled)
	assert.NoError(t, err, "scaling by exactly the default tolerance must still decode")

	overScaled := make(RLC, len(rlc))
	for i, d := range rlc {
		overScaled[i] = Tick(float64(d) * 1.3)
	}
	_, err = DecodeStream(p, p.LeadIn, p.LeadOut, overScaled)
	assert.Error(t, err, "scaling beyond tolerance must fail")
}

func Test_BuildPacket_merges_adjacent_same_sign(t *testing.T) {
	p := necLikeProtocol()
	fields := map[string]BitField{"value": NewBitField(0xAA, 8, LSBFirst)}

	rlc, err := BuildPacket(p, p.LeadIn, p.LeadOut, fields)
	require.NoError(t, err)

	for i := 1; i < len(rlc); i++ {
		assert.NotEqual(t, signOf(rlc[i-1]), 0)
		assert.False(t, signOf(rlc[i-1]) == signOf(rlc[i]), "no two consecutive merged durations share a sign")
	}
	assert.Greater(t, rlc[0], Tick(0), "first duration must be positive")
}
