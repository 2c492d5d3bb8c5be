package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/gckit/gc"
	"github.com/joshuapare/gckit/pkg/gclist"
)

var (
	listObjects int
	listCount   int
	listGrow    bool
)

func init() {
	cmd := newListCmd()
	cmd.Flags().IntVar(&listObjects, "objects", 10, "Number of list nodes the collector owns")
	cmd.Flags().IntVar(&listCount, "count", 3, "Number of values to push")
	cmd.Flags().BoolVar(&listGrow, "grow", false, "Grow the collector instead of failing when full")
	rootCmd.AddCommand(cmd)
}

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Build a protected linked list and collect",
		Long: `The list command pushes 1..count onto a list whose head is protected,
collects, and prints the values that survived, head first.

Example:
  gckit list
  gckit list --count 20 --objects 8 --grow`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList()
		},
	}
	return cmd
}

type listReport struct {
	Values []int    `json:"values"`
	Marked int      `json:"marked"`
	Swept  int      `json:"swept"`
	Stats  gc.Stats `json:"stats"`
}

func runList() error {
	if err := checkPositive("objects", listObjects); err != nil {
		return err
	}

	l := gclist.New(listObjects)
	defer l.Close()

	for v := 1; v <= listCount; v++ {
		err := l.Push(v)
		if errors.Is(err, gc.ErrExhausted) && listGrow {
			printVerbose("Collector full at %d nodes, growing by %d\n", l.Len(), listObjects)
			l.Collector().Add(listObjects)
			err = l.Push(v)
		}
		if err != nil {
			return fmt.Errorf("failed to build list: %w", err)
		}
	}

	res := l.Collect()
	rep := listReport{
		Values: l.Values(),
		Marked: res.Marked,
		Swept:  res.Swept,
		Stats:  l.Collector().Stats(),
	}

	if jsonOut {
		return printJSON(rep)
	}
	printInfo("%s", renderSection("List", []row{
		kv("Values", fmt.Sprint(rep.Values)),
		kv("Marked", rep.Marked),
		kv("Swept", rep.Swept),
	}))
	printInfo("%s", renderSection("Collector", statsRows(rep.Stats)))
	return nil
}
