package ir

import (
	"fmt"
	"strings"

	"github.com/flirc/irdecoder/ir/pronto"
)

// Code is the result of a successful decode or encode: the protocol that
// produced it, the timing vector it came from (or was built into) in both
// original and normalised form, and a name -> BitField map of its decoded
// or encoded fields.
//
// Normalised RLC is a sequence of frames rather than a single flat vector
// (e.g. lead-in frame, body frame, lead-out sentinel frame for protocols
// that emit a dedicated repeat frame); most callers only care about the
// flattened view returned by RawRLC.
type Code struct {
	Protocol *Protocol

	OriginalRLC   RLC
	NormalizedRLC []RLC

	Fields    map[string]BitField
	Frequency int

	Name string

	cancelRepeat Cancel
}

// Equal is structural equality over protocol identity and field map, per
// the protocol model's contract: two codes from different protocols are
// never equal, and frequency/name/RLC shape are not part of identity.
func (c Code) Equal(other Code) bool {
	if c.Protocol != other.Protocol {
		return false
	}
	if len(c.Fields) != len(other.Fields) {
		return false
	}
	for name, bf := range c.Fields {
		obf, ok := other.Fields[name]
		if !ok || !bf.Equal(obf) {
			return false
		}
	}
	return true
}

// Field returns the decoded/encoded value of a named field, or the zero
// BitField and false if the protocol has no such field.
func (c Code) Field(name string) (BitField, bool) {
	bf, ok := c.Fields[name]
	return bf, ok
}

// fieldOr returns the named field's value, or 0 if absent; used by the
// well-known convenience getters below, which stand in for the source's
// dynamic-attribute resolution (see DESIGN.md).
func (c Code) fieldOr(name string) uint64 {
	if bf, ok := c.Fields[name]; ok {
		return bf.Value
	}
	return 0
}

func (c Code) Device() uint64    { return c.fieldOr("device") }
func (c Code) SubDevice() uint64 { return c.fieldOr("sub_device") }
func (c Code) Function() uint64  { return c.fieldOr("function") }
func (c Code) Toggle() uint64    { return c.fieldOr("toggle") }
func (c Code) Mode() uint64      { return c.fieldOr("mode") }

// Append concatenates the normalised RLC of c and other and merges their
// field maps (other's keys win on collision), producing the compound code
// used by multi-frame transmissions. The original RLC of the result is c's
// original RLC with other's appended.
func (c Code) Append(other Code) Code {
	fields := make(map[string]BitField, len(c.Fields)+len(other.Fields))
	for k, v := range c.Fields {
		fields[k] = v
	}
	for k, v := range other.Fields {
		if _, collide := fields[k]; collide {
			logger().Debug("field collision on code append", "field", k)
		}
		fields[k] = v
	}

	normalized := make([]RLC, 0, len(c.NormalizedRLC)+len(other.NormalizedRLC))
	normalized = append(normalized, c.NormalizedRLC...)
	normalized = append(normalized, other.NormalizedRLC...)

	return Code{
		Protocol:      c.Protocol,
		OriginalRLC:   append(append(RLC(nil), c.OriginalRLC...), other.OriginalRLC...),
		NormalizedRLC: normalized,
		Fields:        fields,
		Frequency:     c.Frequency,
		Name:          c.Name,
	}
}

// RawRLC flattens NormalizedRLC into a single timing vector, merging
// adjacent same-sign durations across frame boundaries.
func (c Code) RawRLC() RLC {
	var flat RLC
	for _, frame := range c.NormalizedRLC {
		flat = append(flat, frame...)
	}
	return mergeRLC(flat)
}

// MCERLC is RawRLC with a trailing padding space appended if needed so the
// total duration count is even (the MCE wire convention).
func (c Code) MCERLC() RLC {
	raw := c.RawRLC()
	if len(raw)%2 != 0 {
		last := raw[len(raw)-1]
		pad := -abs64(last)
		raw = append(raw, pad)
	}
	return raw
}

// Int serialises the field map into a single integer by concatenating each
// field named in Protocol.CodeOrder, most significant field first. A code
// with no Protocol (the universal decoder's) returns its "code" field.
func (c Code) Int() uint64 {
	if c.Protocol == nil {
		return c.fieldOr("code")
	}
	order := c.Protocol.CodeOrder
	if len(order) == 0 {
		order = c.Protocol.Fields
	}
	var v uint64
	for _, f := range order {
		bf, ok := c.Fields[f.Name]
		if !ok {
			continue
		}
		v = v<<uint(f.width()) | (bf.Value & widthMask(f.width()))
	}
	return v
}

// Hex is Int formatted as uppercase hex sized to the protocol's total bit
// width (the "code" field's width for a code with no Protocol), matching
// the code_order serialisation used by persistence/logging.
func (c Code) Hex() string {
	width := c.Fields["code"].Width
	if c.Protocol != nil {
		width = c.Protocol.TotalBits
	}
	digits := (width + 3) / 4
	return strings.ToUpper(fmt.Sprintf("%0*X", digits, c.Int()))
}

// Pronto renders RawRLC as Pronto hex text via the ir/pronto codec.
func (c Code) Pronto() string {
	return pronto.FromRLC(c.Frequency, []pronto.RLC{pronto.RLC(c.RawRLC())})
}

func (c Code) String() string {
	if c.Name != "" {
		return c.Name
	}
	if c.Protocol != nil {
		return fmt.Sprintf("%s:%s", c.Protocol.Name, c.Hex())
	}
	return c.Hex()
}
