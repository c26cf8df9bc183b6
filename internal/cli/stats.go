package cli

import (
	"github.com/spf13/cobra"

	"github.com/rydberg-labs/circopt/circuit"
	"github.com/rydberg-labs/circopt/internal/harness"
)

// circuitStats is the stats command's result shape.
type circuitStats struct {
	Qubits        int            `yaml:"qubits"`
	Gates         int            `yaml:"gates"`
	TwoQubitGates int            `yaml:"two_qubit_gates"`
	Depth         int            `yaml:"depth"`
	Ops           map[string]int `yaml:"ops"`
}

func newStatsCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats CIRCUIT",
		Short: "Print gate counts and depth for a circuit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := harness.LoadCircuit(args[0])
			if err != nil {
				return NewExitError(ExitUsage, "invalid circuit", err)
			}
			st := statsFor(c)
			out := NewOutputFormatter(cmd.OutOrStdout(), root.Format)
			if root.Format == "yaml" {
				return out.Print(st)
			}
			out.Printf("qubits: %d\n", st.Qubits)
			out.Printf("gates: %d\n", st.Gates)
			out.Printf("two-qubit gates: %d\n", st.TwoQubitGates)
			out.Printf("depth: %d\n", st.Depth)
			return nil
		},
	}
}

func statsFor(c *circuit.Circuit) circuitStats {
	st := circuitStats{
		Qubits:        c.NumQubits,
		Gates:         c.GateCount(),
		TwoQubitGates: c.TwoQubitCount(),
		Depth:         c.Depth(),
		Ops:           map[string]int{},
	}
	for _, cmd := range c.Cmds {
		st.Ops[string(cmd.Op)]++
	}
	return st
}
