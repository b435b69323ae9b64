package ir

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoProtocol(name string, match Tick) *Protocol {
	return &Protocol{
		Name:      name,
		TotalBits: 8,
		Fields:    []Field{{Name: "value", Lo: 0, Hi: 7}},
		Decode: func(descriptor *Protocol, session *Session, rlc RLC, frequency int) (Code, error) {
			if len(rlc) == 0 || rlc[0] != match {
				return Code{}, decodeErrorf("no match")
			}
			return Code{
				Protocol:      descriptor,
				Fields:        map[string]BitField{"value": NewBitField(uint64(rlc[0]), 8, MSBFirst)},
				NormalizedRLC: []RLC{{rlc[0], -rlc[0]}},
			}, nil
		},
	}
}

func Test_Registry_Decode_collects_every_matching_protocol(t *testing.T) {
	r := NewRegistry(nil)
	r.Register(echoProtocol("a", 10))
	r.Register(echoProtocol("b", 10))
	r.Register(echoProtocol("c", 99))

	codes := r.Decode(RLC{10}, 38000)
	require.Len(t, codes, 2)
	assert.Equal(t, "a", codes[0].Protocol.Name)
	assert.Equal(t, "b", codes[1].Protocol.Name)
}

func Test_Registry_Decode_returns_empty_when_nothing_matches(t *testing.T) {
	r := NewRegistry(nil)
	r.Register(echoProtocol("a", 10))
	assert.Empty(t, r.Decode(RLC{1}, 38000))
}

func Test_Registry_Lookup_resolves_aliases(t *testing.T) {
	r := NewRegistry(nil)
	p := echoProtocol("a", 10)
	p.Aliases = []string{"alpha"}
	r.Register(p)

	got, ok := r.Lookup("alpha")
	require.True(t, ok)
	assert.Same(t, p, got)
}

func Test_Registry_DecodeOutcome_returns_first_non_error_protocol(t *testing.T) {
	r := NewRegistry(nil)
	r.Register(echoProtocol("a", 99))
	r.Register(echoProtocol("b", 10))

	outcome, p, err := r.DecodeOutcome(RLC{10}, 38000)
	require.NoError(t, err)
	assert.Equal(t, "b", p.Name)
	assert.Equal(t, OutcomeCode, outcome.Kind)
}

func Test_Registry_DecodeOutcome_errors_when_nothing_matches(t *testing.T) {
	r := NewRegistry(nil)
	r.Register(echoProtocol("a", 99))

	_, _, err := r.DecodeOutcome(RLC{1}, 38000)
	assert.Error(t, err)
}

func Test_Registry_EncodeWith_dispatches_by_name(t *testing.T) {
	r := NewRegistry(nil)
	p := &Protocol{
		Name:      "encodable",
		TotalBits: 8,
		Fields:    []Field{{Name: "value", Lo: 0, Hi: 7}},
		EncodeFields: []EncodeField{
			{Name: "value", Min: 0, Max: 255},
		},
		LeadIn:  RLC{1000, -1000},
		LeadOut: RLC{500},
		Bursts: []Burst{
			{Mark: 100, Space: -100},
			{Mark: 100, Space: -300},
		},
	}
	r.Register(p)

	code, err := r.EncodeWith("encodable", map[string]uint64{"value": 0x5A}, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 0x5A, code.Fields["value"].Value)
}

func Test_Registry_EncodeWith_unknown_protocol_errors(t *testing.T) {
	r := NewRegistry(nil)
	_, err := r.EncodeWith("nope", nil, 0)
	assert.Error(t, err)
}

func Test_Registry_RegisterReleasedCallback_fires_on_idle_expiry(t *testing.T) {
	mc := NewManualClock(time.Unix(0, 0))
	r := NewRegistry(mc)
	p := repeatableProtocol()
	r.Register(p)

	var released bool
	require.NoError(t, r.RegisterReleasedCallback(p.Name, func(Code) { released = true }))

	r.Decode(RLC{1}, 38000)
	mc.Advance(3 * time.Second)
	assert.True(t, released)
}
