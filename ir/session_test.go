package ir

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func repeatableProtocol() *Protocol {
	return &Protocol{
		Name:          "repeatable",
		TotalBits:     8,
		RepeatTimeout: 2 * time.Second,
		Fields:        []Field{{Name: "value", Lo: 0, Hi: 7}},
		Decode: func(descriptor *Protocol, session *Session, rlc RLC, frequency int) (Code, error) {
			if len(rlc) == 0 {
				return Code{}, decodeErrorf("empty stream")
			}
			bf := NewBitField(uint64(rlc[0]), 8, MSBFirst)
			return Code{
				Protocol:      descriptor,
				Fields:        map[string]BitField{"value": bf},
				NormalizedRLC: []RLC{{1000, -1000}},
			}, nil
		},
	}
}

func Test_Session_first_decode_yields_new_code(t *testing.T) {
	mc := NewManualClock(time.Unix(0, 0))
	s := NewSession(repeatableProtocol(), mc)

	outcome, err := s.DecodeOutcome(RLC{5}, 38000)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCode, outcome.Kind)
	assert.EqualValues(t, 5, outcome.Code.Fields["value"].Value)
}

func Test_Session_repeated_identical_decode_is_held(t *testing.T) {
	mc := NewManualClock(time.Unix(0, 0))
	s := NewSession(repeatableProtocol(), mc)

	_, err := s.DecodeOutcome(RLC{7}, 38000)
	require.NoError(t, err)

	outcome, err := s.DecodeOutcome(RLC{7}, 38000)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCode, outcome.Kind)
	assert.EqualValues(t, 7, outcome.Code.Fields["value"].Value)

	last, ok := s.LastCode()
	require.True(t, ok)
	assert.EqualValues(t, 7, last.Fields["value"].Value)
}

func Test_Session_idle_timeout_releases_last_code(t *testing.T) {
	mc := NewManualClock(time.Unix(0, 0))
	s := NewSession(repeatableProtocol(), mc)

	var released *Code
	s.OnReleased(func(c Code) { released = &c })

	_, err := s.DecodeOutcome(RLC{9}, 38000)
	require.NoError(t, err)

	_, ok := s.LastCode()
	require.True(t, ok, "code is held immediately after decode")

	mc.Advance(3 * time.Second)

	_, ok = s.LastCode()
	assert.False(t, ok, "code must be released once the idle timer expires")
	require.NotNil(t, released)
	assert.EqualValues(t, 9, released.Fields["value"].Value)
}

func Test_Session_decode_error_resets_to_idle(t *testing.T) {
	mc := NewManualClock(time.Unix(0, 0))
	s := NewSession(repeatableProtocol(), mc)

	_, err := s.DecodeOutcome(RLC{3}, 38000)
	require.NoError(t, err)

	_, err = s.DecodeOutcome(RLC{}, 38000)
	require.Error(t, err)

	_, ok := s.LastCode()
	assert.False(t, ok, "a decode failure resets the session to idle")
}

func Test_Session_Decode_converts_repeat_outcomes_to_sentinel_errors(t *testing.T) {
	mc := NewManualClock(time.Unix(0, 0))
	p := &Protocol{
		Name:      "ditto",
		TotalBits: 1,
		Decode: func(descriptor *Protocol, session *Session, rlc RLC, frequency int) (Code, error) {
			return Code{}, &DecodeError{Kind: KindRepeatLeadIn}
		},
	}
	s := NewSession(p, mc)

	_, err := s.Decode(RLC{1}, 38000)
	assert.True(t, errors.Is(err, ErrRepeatLeadIn))
}
