// Package protocols holds the concrete, data-backed protocol descriptors:
// the per-manufacturer files the original source scatters across hundreds
// of near-identical Python modules become, here, a handful of Go
// constructors plus one declarative metadata table, per spec.md §1's
// framing of protocol tables as "data-driven inputs to the core, not
// hand-written logic."
package protocols

import (
	_ "embed"

	"github.com/flirc/irdecoder/ir"
	"gopkg.in/yaml.v3"
)

//go:embed protocols.yaml
var protocolsYAML []byte

// metadataEntry is the data-driven sliver of each protocol descriptor:
// display name and aliases; ir.Registry registers the aliases as extra
// lookup names, and decode/encode semantics never consult them. Grounded on the teacher's
// deviceid.go table loader (gopkg.in/yaml.v3 over an embedded table).
type metadataEntry struct {
	Name    string   `yaml:"name"`
	Aliases []string `yaml:"aliases"`
}

func loadMetadata() map[string]metadataEntry {
	var entries []metadataEntry
	if err := yaml.Unmarshal(protocolsYAML, &entries); err != nil {
		panic("protocols: malformed protocols.yaml: " + err.Error())
	}
	byName := make(map[string]metadataEntry, len(entries))
	for _, e := range entries {
		byName[e.Name] = e
	}
	return byName
}

func applyMetadata(p *ir.Protocol, table map[string]metadataEntry) {
	entry, ok := table[p.Name]
	if !ok {
		return
	}
	if len(entry.Aliases) > 0 {
		p.Aliases = entry.Aliases
	}
}

// All returns every concrete protocol descriptor this package knows,
// including PCTV (experimental, excluded from DefaultRegistry).
func All() []*ir.Protocol {
	table := loadMetadata()

	protocols := []*ir.Protocol{
		newAiwa(),
		newPanasonic(),
		newNECx(),
		newRC6M32(),
		newSharp(),
		newPaceMSS(),
		newPCTV(),
	}
	for _, p := range protocols {
		applyMetadata(p, table)
	}
	return protocols
}

// DefaultRegistry builds a Registry containing every production-ready
// protocol in registration order, backed by scheduler for repeat-idle
// timing (pass nil to disable repeat timers). PCTV is excluded: see
// newPCTV's doc comment and DESIGN.md.
func DefaultRegistry(scheduler ir.Scheduler) *ir.Registry {
	r := ir.NewRegistry(scheduler)
	for _, p := range All() {
		if p.Name == "pctv" {
			continue
		}
		r.Register(p)
	}
	return r
}
