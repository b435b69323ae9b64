package protocols

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flirc/irdecoder/ir"
)

func Test_Aiwa_encode_decode_roundtrip(t *testing.T) {
	p := newAiwa()
	args := map[string]uint64{"device": 34, "sub_device": 17, "function": 14}

	encoded, err := aiwaEncode(p, nil, args, 0)
	require.NoError(t, err)

	decoded, err := aiwaDecode(p, nil, encoded.OriginalRLC, 38123)
	require.NoError(t, err)
	assert.EqualValues(t, 34, decoded.Device())
	assert.EqualValues(t, 17, decoded.SubDevice())
	assert.EqualValues(t, 14, decoded.Function())
}

func Test_Aiwa_encode_rejects_out_of_range_device(t *testing.T) {
	p := newAiwa()
	args := map[string]uint64{"device": 999, "sub_device": 17, "function": 14}
	_, err := aiwaEncode(p, nil, args, 0)
	assert.Error(t, err)
}

func Test_Aiwa_decode_matches_original_source_vector(t *testing.T) {
	p := newAiwa()
	// Literal capture from pyIRDecoder/aiwa.py's _test_decode.
	rlc := ir.RLC{
		8800, -4400, 550, -550, 550, -1650, 550, -550, 550, -550, 550, -550, 550, -1650, 550, -550,
		550, -550, 550, -1650, 550, -550, 550, -550, 550, -550, 550, -1650, 550, -1650, 550, -550,
		550, -1650, 550, -1650, 550, -1650, 550, -550, 550, -1650, 550, -1650, 550, -550, 550, -1650,
		550, -1650, 550, -1650, 550, -550, 550, -550, 550, -1650, 550, -1650, 550, -1650, 550, -550,
		550, -550, 550, -550, 550, -550, 550, -1650, 550, -550, 550, -550, 550, -550, 550, -1650,
		550, -1650, 550, -1650, 550, -1650, 550, -23100,
	}

	decoded, err := aiwaDecode(p, nil, rlc, 38123)
	require.NoError(t, err)
	assert.EqualValues(t, 34, decoded.Device())
	assert.EqualValues(t, 17, decoded.SubDevice())
	assert.EqualValues(t, 14, decoded.Function())
}

func Test_Aiwa_dedicated_repeat_frame_is_recognised(t *testing.T) {
	p := newAiwa()
	// Literal capture from pyIRDecoder/aiwa.py's commented repeat example:
	// [+8800, -4400, +550, -90750].
	repeat := ir.RLC{8800, -4400, 550, -90750}

	_, err := aiwaDecode(p, nil, repeat, 38123)
	require.Error(t, err)

	var de *ir.DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, ir.KindRepeatLeadIn, de.Kind)
}

func Test_Aiwa_decode_rejects_bad_checksum(t *testing.T) {
	p := newAiwa()
	encoded, err := aiwaEncode(p, nil, map[string]uint64{"device": 34, "sub_device": 17, "function": 14}, 0)
	require.NoError(t, err)

	tampered := append(ir.RLC(nil), encoded.OriginalRLC...)
	// Flip the first data bit (device's LSB) from "0" to "1" without
	// touching d_checksum, breaking the device == ~d_checksum relationship.
	tampered[2], tampered[3] = 550, -1650

	_, err = aiwaDecode(p, nil, tampered, 38123)
	assert.Error(t, err)
}
