package protocols

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flirc/irdecoder/ir"
)

func rc6m32Args() map[string]uint64 {
	return map[string]uint64{
		"mode": 6, "toggle": 0, "oem1": 9, "oem2": 137, "device": 75, "function": 1,
	}
}

func Test_RC6M32_encode_decode_roundtrip(t *testing.T) {
	p := newRC6M32()
	encoded, err := ir.DefaultEncode(p, nil, rc6m32Args(), 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, encoded.Fields["start"].Value)

	decoded, err := ir.DefaultDecode(p, nil, encoded.OriginalRLC, 36000)
	require.NoError(t, err)
	assert.EqualValues(t, 6, decoded.Mode())
	assert.EqualValues(t, 0, decoded.Toggle())
	assert.EqualValues(t, 9, decoded.Fields["oem1"].Value)
	assert.EqualValues(t, 137, decoded.Fields["oem2"].Value)
	assert.EqualValues(t, 75, decoded.Device())
	assert.EqualValues(t, 1, decoded.Function())
}

func Test_RC6M32_resend_identical_is_held_repeat(t *testing.T) {
	p := newRC6M32()
	mc := ir.NewManualClock(time.Unix(0, 0))
	session := ir.NewSession(p, mc)

	encoded, err := ir.DefaultEncode(p, nil, rc6m32Args(), 0)
	require.NoError(t, err)

	first, err := session.DecodeOutcome(encoded.OriginalRLC, 36000)
	require.NoError(t, err)
	require.Equal(t, ir.OutcomeCode, first.Kind)

	second, err := session.DecodeOutcome(encoded.OriginalRLC, 36000)
	require.NoError(t, err)
	assert.Equal(t, ir.OutcomeCode, second.Kind)
	assert.True(t, first.Code.Equal(second.Code))
}

func Test_RC6M32_resend_with_flipped_toggle_is_a_new_press(t *testing.T) {
	p := newRC6M32()
	mc := ir.NewManualClock(time.Unix(0, 0))
	session := ir.NewSession(p, mc)

	args := rc6m32Args()
	first, err := ir.DefaultEncode(p, nil, args, 0)
	require.NoError(t, err)
	_, err = session.DecodeOutcome(first.OriginalRLC, 36000)
	require.NoError(t, err)

	args["toggle"] = 1
	second, err := ir.DefaultEncode(p, nil, args, 0)
	require.NoError(t, err)
	outcome, err := session.DecodeOutcome(second.OriginalRLC, 36000)
	require.NoError(t, err)

	assert.False(t, first.Fields["toggle"].Equal(outcome.Code.Fields["toggle"]))
	assert.EqualValues(t, 1, outcome.Code.Toggle())
}
