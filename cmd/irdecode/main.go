// Command irdecode decodes a raw mark/space timing vector against every
// registered protocol and prints whichever codes matched, falling back to
// the universal heuristic decoder when nothing does and -u is given. A thin
// demonstration CLI, not part of the core library contract (see SPEC_FULL.md §2).
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/flirc/irdecoder/ir"
	"github.com/flirc/irdecoder/ir/protocols"
)

func main() {
	frequency := pflag.IntP("frequency", "f", 38000, "carrier frequency in Hz reported alongside the decoded code")
	universal := pflag.BoolP("universal", "u", false, "fall back to the universal heuristic decoder if no protocol matches")
	pflag.Parse()

	args := pflag.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: irdecode [-f hz] [-u] <durations...>")
		os.Exit(2)
	}

	rlc, err := parseDurations(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, "irdecode:", err)
		os.Exit(1)
	}

	registry := protocols.DefaultRegistry(nil)
	codes := registry.Decode(rlc, *frequency)

	if len(codes) == 0 && *universal {
		code, err := ir.DecodeUniversal(rlc, *frequency, ir.StrategyDistribution)
		if err == nil {
			codes = append(codes, code)
		}
	}

	if len(codes) == 0 {
		fmt.Println("no match")
		return
	}
	for _, c := range codes {
		fmt.Printf("%s %s\n", c.String(), fieldsString(c))
	}
}

func fieldsString(c ir.Code) string {
	if c.Protocol == nil {
		return fmt.Sprintf("code=%d", c.Int())
	}
	var parts []string
	for _, f := range c.Protocol.Fields {
		bf := c.Fields[f.Name]
		parts = append(parts, fmt.Sprintf("%s=%d", f.Name, bf.Value))
	}
	return strings.Join(parts, " ")
}

func parseDurations(args []string) (ir.RLC, error) {
	out := make(ir.RLC, 0, len(args))
	for _, a := range args {
		a = strings.TrimSuffix(a, ",")
		v, err := strconv.ParseInt(a, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid duration %q: %w", a, err)
		}
		out = append(out, v)
	}
	return out, nil
}
