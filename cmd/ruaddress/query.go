package main

import (
	"errors"
	"fmt"
	"iter"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/iEmiya/ruaddress/internal/kladr"
)

const defaultLimit = 10

var errNotFound = errors.New("not found")

// take collects at most limit elements; limit <= 0 collects everything.
func take[T any](seq iter.Seq[T], limit int) []T {
	items := make([]T, 0)
	for v := range seq {
		if limit > 0 && len(items) >= limit {
			break
		}
		items = append(items, v)
	}
	return items
}

func printList[T fmt.Stringer](cmd *cobra.Command, items []T, asJSON bool) error {
	if asJSON {
		return printJSON(cmd, items)
	}
	if len(items) == 0 {
		cmd.Println("No results")
		return nil
	}
	for _, item := range items {
		cmd.Println(item.String())
	}
	return nil
}

func createSearchCmd(a *app) *cobra.Command {
	var (
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "search [text]",
		Short: "Free-text search over address names",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng := a.openEngine()
			defer func() { _ = eng.Close() }()

			results := take(eng.Search(args[0]), limit)
			if asJSON {
				return printJSON(cmd, results)
			}
			if len(results) == 0 {
				cmd.Println("No results")
				return nil
			}
			for _, r := range results {
				cmd.Printf("%s  %s  (%.2f)\n", r.ID, r.FullName, r.Score)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", defaultLimit, "maximum number of results")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output results as JSON")
	return cmd
}

func createCodeCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "code [code]",
		Short: "Resolve a classifier code to its full address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng := a.openEngine()
			defer func() { _ = eng.Close() }()

			addr, ok := eng.GetByCode(args[0])
			if !ok {
				return fmt.Errorf("address %s: %w", args[0], errNotFound)
			}
			if asJSON {
				return printJSON(cmd, addr)
			}
			cmd.Println(addr.String())
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output the address as JSON")
	return cmd
}

func createPostalCmd(a *app) *cobra.Command {
	var (
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "postal [index]",
		Short: "List addresses served by a postal index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !kladr.ValidPostalCode(args[0]) {
				return fmt.Errorf("postal index must be six digits, got %q", args[0])
			}
			eng := a.openEngine()
			defer func() { _ = eng.Close() }()

			return printList(cmd, take(eng.GetByIndex(args[0]), limit), asJSON)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", defaultLimit, "maximum number of results")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output results as JSON")
	return cmd
}

func createLevelCmd(a *app) *cobra.Command {
	var (
		siblings bool
		limit    int
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "level [code]",
		Short: "Print the hierarchy level of a code",
		Long: `Prints the level derived from the code itself. With --siblings it lists
the parts stored at that level under the same parent instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng := a.openEngine()
			defer func() { _ = eng.Close() }()

			if siblings {
				return printList(cmd, take(eng.GetByLevel(args[0]), limit), asJSON)
			}
			level, ok := eng.GetLevel(args[0])
			if !ok {
				return fmt.Errorf("level of %s: %w", args[0], errNotFound)
			}
			if asJSON {
				return printJSON(cmd, map[string]any{"code": args[0], "level": level})
			}
			cmd.Println(level)
			return nil
		},
	}
	cmd.Flags().BoolVar(&siblings, "siblings", false, "list the parts at the level of the code")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of parts (0 lists all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

func createChildrenCmd(a *app) *cobra.Command {
	var (
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "children [code]",
		Short: "List the nearest populated level below a code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng := a.openEngine()
			defer func() { _ = eng.Close() }()

			return printList(cmd, take(eng.GetChildren(args[0]), limit), asJSON)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of parts (0 lists all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output parts as JSON")
	return cmd
}

func createReductionCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "reduction [level] [short]",
		Short: "Expand an abbreviation at a level",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("level must be a number, got %q", args[0])
			}
			eng := a.openEngine()
			defer func() { _ = eng.Close() }()

			entry, ok := eng.GetReduction(level, args[1])
			if !ok {
				return fmt.Errorf("reduction %s at level %d: %w", args[1], level, errNotFound)
			}
			if asJSON {
				return printJSON(cmd, entry)
			}
			cmd.Println(entry.Name)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output the entry as JSON")
	return cmd
}
