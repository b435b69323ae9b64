// Command ir2pronto converts a raw mark/space timing vector to Pronto hex
// text, and vice versa. It is a thin demonstration CLI over ir/pronto, not
// part of the core library contract (see SPEC_FULL.md §2's package map).
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/flirc/irdecoder/ir/pronto"
)

func main() {
	var (
		reverse   = pflag.BoolP("from-pronto", "r", false, "convert Pronto hex to a raw timing vector instead")
		frequency = pflag.IntP("frequency", "f", 38000, "carrier frequency in Hz, used when encoding raw -> Pronto")
	)
	pflag.Parse()

	args := pflag.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: ir2pronto [-r] [-f hz] <durations-or-pronto-hex>")
		os.Exit(2)
	}
	input := strings.Join(args, " ")

	if *reverse {
		freq, frames, err := pronto.ToRLC(input)
		if err != nil {
			fmt.Fprintln(os.Stderr, "ir2pronto:", err)
			os.Exit(1)
		}
		fmt.Printf("frequency=%d\n", freq)
		for _, frame := range frames {
			fmt.Println(joinTicks(frame))
		}
		return
	}

	durations, err := parseDurations(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ir2pronto:", err)
		os.Exit(1)
	}
	fmt.Println(pronto.FromRLC(*frequency, []pronto.RLC{durations}))
}

func parseDurations(args []string) (pronto.RLC, error) {
	out := make(pronto.RLC, 0, len(args))
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

func joinTicks(frame pronto.RLC) string {
	parts := make([]string, len(frame))
	for i, d := range frame {
		parts[i] = strconv.FormatInt(d, 10)
	}
	return strings.Join(parts, ", ")
}
