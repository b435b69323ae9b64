// Package persist (de)serializes an ir.Code as the XML shape described in
// spec.md §6: protocol, name and frequency are attributes, each field is a
// <field> child element with name/value/width attributes, and two child
// elements carry the original and normalised RLC as comma-separated signed
// integers with a leading '+' on positive values.
//
// Uses stdlib encoding/xml rather than a third-party library: no repo in
// the example pack reaches for one, and encoding/xml's struct-tag model is
// the idiomatic stdlib choice for this shape — see DESIGN.md.
package persist

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/flirc/irdecoder/ir"
)

// codeXML mirrors the wire shape: protocol/name/frequency as attributes,
// every decoded field as a <field> child element, and RLC views as child
// elements.
type codeXML struct {
	XMLName   xml.Name `xml:"code"`
	Protocol  string   `xml:"protocol,attr"`
	Name      string   `xml:"name,attr,omitempty"`
	Frequency int      `xml:"frequency,attr"`
	Fields    []fieldXML `xml:"field"`
	Original  string   `xml:"original"`
	Normalized string  `xml:"normalized"`
}

type fieldXML struct {
	Name  string `xml:"name,attr"`
	Value uint64 `xml:"value,attr"`
	Width int    `xml:"width,attr"`
}

// Marshal renders code as the persisted XML element.
func Marshal(code ir.Code) ([]byte, error) {
	protocolName := ""
	if code.Protocol != nil {
		protocolName = code.Protocol.Name
	}

	doc := codeXML{
		Protocol:   protocolName,
		Name:       code.Name,
		Frequency:  code.Frequency,
		Original:   rlcToCSV(code.OriginalRLC),
		Normalized: rlcToCSV(code.RawRLC()),
	}
	for name, bf := range code.Fields {
		doc.Fields = append(doc.Fields, fieldXML{Name: name, Value: bf.Value, Width: bf.Width})
	}

	return xml.MarshalIndent(doc, "", "  ")
}

// Unmarshal parses a persisted XML element back into a Code. protocol, if
// non-nil, is attached so the result's field widths/bit order are usable
// by the core decode/encode APIs; when nil the returned Code carries only
// raw field values with no protocol reference.
func Unmarshal(data []byte, protocol *ir.Protocol) (ir.Code, error) {
	var doc codeXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return ir.Code{}, err
	}

	original, err := csvToRLC(doc.Original)
	if err != nil {
		return ir.Code{}, err
	}
	normalized, err := csvToRLC(doc.Normalized)
	if err != nil {
		return ir.Code{}, err
	}

	fields := make(map[string]ir.BitField, len(doc.Fields))
	order := ir.MSBFirst
	if protocol != nil {
		order = protocol.BitOrder
	}
	for _, f := range doc.Fields {
		fields[f.Name] = ir.NewBitField(f.Value, f.Width, order)
	}

	return ir.Code{
		Protocol:      protocol,
		Name:          doc.Name,
		Frequency:     doc.Frequency,
		Fields:        fields,
		OriginalRLC:   original,
		NormalizedRLC: []ir.RLC{normalized},
	}, nil
}

func rlcToCSV(rlc ir.RLC) string {
	parts := make([]string, len(rlc))
	for i, d := range rlc {
		if d >= 0 {
			parts[i] = "+" + strconv.FormatInt(int64(d), 10)
		} else {
			parts[i] = strconv.FormatInt(int64(d), 10)
		}
	}
	return strings.Join(parts, ",")
}

func csvToRLC(s string) (ir.RLC, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make(ir.RLC, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(p), "+"), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("persist: invalid RLC duration %q: %w", p, err)
		}
		out = append(out, ir.Tick(v))
	}
	return out, nil
}
