package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/gckit/gc"
	"github.com/joshuapare/gckit/pkg/gcstring"
)

var (
	stringsObjects  int
	stringsGarbage  int
	stringsText     string
	stringsEncoding string
)

func init() {
	cmd := newStringsCmd()
	cmd.Flags().IntVar(&stringsObjects, "objects", 10, "Initial number of string objects")
	cmd.Flags().IntVar(&stringsGarbage, "count", 100, "Number of unreachable strings to create")
	cmd.Flags().StringVar(&stringsText, "text", "hello, world", "Text of the rooted string")
	cmd.Flags().
		StringVar(&stringsEncoding, "encoding", "utf-8", "Encoding of --text bytes (utf-8, windows-1252, latin1)")
	rootCmd.AddCommand(cmd)
}

func newStringsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "strings",
		Short: "Run the managed string workload",
		Long: `The strings command roots one managed string, protects a result variable,
creates unreachable strings, concatenates the rooted string with itself and collects.

Example:
  gckit strings
  gckit strings --objects 4 --count 1000
  gckit strings --text "$(printf 'caf\xe9')" --encoding latin1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStrings()
		},
	}
	return cmd
}

type stringsReport struct {
	Rooted string   `json:"rooted"`
	Result string   `json:"result"`
	Freed  int      `json:"freed"`
	Stats  gc.Stats `json:"stats"`
}

func runStrings() error {
	if err := checkPositive("objects", stringsObjects); err != nil {
		return err
	}
	enc, err := gcstring.ParseEncoding(stringsEncoding)
	if err != nil {
		return err
	}

	h := gcstring.NewHeap(stringsObjects)
	defer h.Close()
	c := h.Collector()

	var result gc.Ref
	scope := c.Scope()
	defer scope.Close()
	scope.Protect(&result)

	str, err := h.Decode([]byte(stringsText), enc)
	if err != nil {
		return err
	}
	c.Root(str)
	printVerbose("Rooted %q as ref %d\n", h.Text(str), str)

	for i := range stringsGarbage {
		h.New(fmt.Sprintf("garbage %d", i))
	}

	result, err = h.Concat(str, str)
	if err != nil {
		return err
	}
	res := c.Collect()
	printVerbose("Final collection: marked %d, swept %d\n", res.Marked, res.Swept)

	rep := stringsReport{
		Rooted: h.Text(str),
		Result: h.Text(result),
		Freed:  h.Freed(),
		Stats:  c.Stats(),
	}

	if jsonOut {
		return printJSON(rep)
	}
	printInfo("%s", renderSection("Strings", []row{
		kv("Rooted", rep.Rooted),
		kv("Result", rep.Result),
		kv("Buffers freed", rep.Freed),
	}))
	printInfo("%s", renderSection("Collector", statsRows(rep.Stats)))
	return nil
}
