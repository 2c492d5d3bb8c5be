package main

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/spf13/cobra"

	"github.com/joshuapare/gckit/gc"
)

var (
	stressObjects int
	stressOps     int
	stressSeed    uint64
	stressVars    int
)

func init() {
	cmd := newStressCmd()
	cmd.Flags().IntVar(&stressObjects, "objects", 64, "Initial number of objects")
	cmd.Flags().IntVar(&stressOps, "count", 10000, "Number of random operations")
	cmd.Flags().Uint64Var(&stressSeed, "seed", 1, "Random seed")
	cmd.Flags().IntVar(&stressVars, "vars", 8, "Number of protectable variables")
	rootCmd.AddCommand(cmd)
}

func newStressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stress",
		Short: "Run a randomized alloc/root/protect/collect sequence",
		Long: `The stress command runs random operations against one collector whose
objects link to each other, then checks that free and active objects still
partition the arena.

Example:
  gckit stress
  gckit stress --count 1000000 --seed 42 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStress()
		},
	}
	return cmd
}

// stressObj links to one other object.
type stressObj struct {
	next gc.Ref
}

func (o *stressObj) Trace(m *gc.Marker) { m.Mark(o.next) }

type stressReport struct {
	Seed  uint64   `json:"seed"`
	Ops   int      `json:"ops"`
	Grown int      `json:"grown"`
	Stats gc.Stats `json:"stats"`
}

func runStress() error {
	if err := checkPositive("objects", stressObjects); err != nil {
		return err
	}
	if err := checkPositive("vars", stressVars); err != nil {
		return err
	}

	rng := rand.New(rand.NewPCG(stressSeed, stressSeed^0x9E3779B97F4A7C15))
	c := gc.New[stressObj](stressObjects)
	defer gc.Free(&c)

	vars := make([]gc.Ref, stressVars)
	var rooted []gc.Ref
	grown := 0

	for range stressOps {
		switch rng.IntN(8) {
		case 0, 1, 2:
			ref, err := c.Alloc()
			if errors.Is(err, gc.ErrExhausted) {
				c.Add(stressObjects)
				grown++
				ref, err = c.Alloc()
			}
			if err != nil {
				return fmt.Errorf("alloc: %w", err)
			}
			if prev := vars[rng.IntN(len(vars))]; c.Valid(prev) {
				c.Get(ref).next = prev
			}
			vars[rng.IntN(len(vars))] = ref
		case 3:
			if c.Protected() < 4*len(vars) {
				c.Protect(&vars[rng.IntN(len(vars))])
			}
		case 4:
			c.Expose(rng.IntN(3))
		case 5:
			if ref := vars[rng.IntN(len(vars))]; c.Valid(ref) {
				c.Root(ref)
				rooted = append(rooted, ref)
			}
		case 6:
			if len(rooted) > 0 {
				ref := rooted[rng.IntN(len(rooted))]
				c.Unroot(ref)
				rooted = slices.DeleteFunc(rooted, func(r gc.Ref) bool { return r == ref })
			}
		case 7:
			res := c.Collect()
			printVerbose("collect: marked %d swept %d\n", res.Marked, res.Swept)
		}
	}

	st := c.Stats()
	if st.Active+st.Free != st.Objects {
		return fmt.Errorf("arena out of balance: %d active + %d free != %d objects",
			st.Active, st.Free, st.Objects)
	}
	for _, ref := range rooted {
		if !c.Valid(ref) {
			return fmt.Errorf("rooted ref %d was collected", ref)
		}
	}

	rep := stressReport{Seed: stressSeed, Ops: stressOps, Grown: grown, Stats: st}
	if jsonOut {
		return printJSON(rep)
	}
	printInfo("%s", renderSection("Stress", []row{
		kv("Seed", rep.Seed),
		kv("Operations", rep.Ops),
		kv("Growth steps", rep.Grown),
	}))
	printInfo("%s", renderSection("Collector", statsRows(rep.Stats)))
	return nil
}
