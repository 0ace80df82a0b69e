// bridgec converts machine-generated C/C++ binding modules into a strict
// bridge form: pointers become references, class-prefixed functions become
// methods, constructors become unique-handle factories, and everything the
// tree alone cannot express is queued for a secondary glue generator.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/termfx/bridgec/ast"
	"github.com/termfx/bridgec/convert"
	"github.com/termfx/bridgec/db"
	"github.com/termfx/bridgec/internal/config"
)

func main() {
	// Optional .env, ignored when absent
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "bridgec",
		Short: "C/C++ binding to strict-bridge converter",
		Long:  "Rewrites binding-generator output modules into a strict bridge shape and queues extra glue work for a secondary generator.",
	}
	rootCmd.AddCommand(newConvertCmd(), newWorkCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newConvertCmd() *cobra.Command {
	var (
		includes     []string
		pods         []string
		renamePairs  []string
		extraInclude string
		asJSON       bool
		showDiff     bool
		stage        bool
		dbPath       string
	)

	cmd := &cobra.Command{
		Use:   "convert [module.json]",
		Short: "Convert a binding module",
		Long:  "Reads a JSON-encoded binding module from the given file (or stdin), converts it, and prints the result. With --stage the run and its work queue are persisted.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(args)
			if err != nil {
				return err
			}
			var mod ast.Module
			if err := json.Unmarshal(input, &mod); err != nil {
				return fmt.Errorf("failed to decode input module: %w", err)
			}

			renames, err := parseRenames(renamePairs)
			if err != nil {
				return err
			}
			requests := convert.ExpandTrivialPatterns(pods, mod)

			converter := convert.New(includes, requests)
			res, err := converter.Convert(mod, extraInclude, renames)
			if err != nil {
				return err
			}

			if stage {
				cfg := config.LoadConfig()
				if dbPath == "" {
					dbPath = cfg.DatabasePath
				}
				gdb, err := db.Connect(dbPath, cfg.Debug)
				if err != nil {
					return err
				}
				names := make([]string, len(requests))
				for i, r := range requests {
					names[i] = r.Name()
				}
				run, err := db.SaveRun(gdb, mod, db.RunParams{
					IncludeList:     includes,
					TrivialRequests: names,
					Renames:         renames,
				}, res)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "staged run %s (%d work items)\n", run.ID, len(run.WorkItems))
			}

			out := cmd.OutOrStdout()
			switch {
			case asJSON:
				payload, err := encodeResult(res)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(payload))
			case showDiff:
				fmt.Fprint(out, res.Diff)
			default:
				fmt.Fprint(out, ast.RenderItems(res.Items))
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&includes, "include", nil, "header to include in the bridge, repeatable")
	cmd.Flags().StringArrayVar(&pods, "pod", nil, "type name or glob that must be plain data, repeatable")
	cmd.Flags().StringArrayVar(&renamePairs, "rename", nil, "original=bridged function rename, repeatable")
	cmd.Flags().StringVar(&extraInclude, "extra-include", "", "one extra header included after the list")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the converted module and work queue as JSON")
	cmd.Flags().BoolVar(&showDiff, "diff", false, "emit the unified diff instead of the rendered output")
	cmd.Flags().BoolVar(&stage, "stage", false, "persist the run and its work queue")
	cmd.Flags().StringVar(&dbPath, "db", "", "staging database path or libsql URL (default from BRIDGEC_DB)")
	return cmd
}

func newWorkCmd() *cobra.Command {
	var (
		dbPath string
		runID  string
	)

	cmd := &cobra.Command{
		Use:   "work",
		Short: "List queued extra-work items",
		Long:  "Lists the extra-work queue for the secondary glue generator: factory functions and by-value wrappers still to be synthesized.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			if dbPath == "" {
				dbPath = cfg.DatabasePath
			}
			gdb, err := db.Connect(dbPath, cfg.Debug)
			if err != nil {
				return err
			}
			items, err := db.ListWork(gdb, runID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(out, "no work items")
				return nil
			}
			for _, it := range items {
				target := it.TypeName
				if it.Kind == string(convert.NeedByValueWrapper) {
					target = it.FnName
				}
				fmt.Fprintf(out, "%s  %-18s %-30s %s\n", it.ID, it.Kind, target, it.Status)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "staging database path or libsql URL (default from BRIDGEC_DB)")
	cmd.Flags().StringVar(&runID, "run", "", "limit to one run (default: all pending)")
	return cmd
}

func readInput(args []string) ([]byte, error) {
	if len(args) == 1 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		return data, nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	return data, nil
}

func parseRenames(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	renames := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		from, to, ok := strings.Cut(pair, "=")
		if !ok || from == "" || to == "" {
			return nil, fmt.Errorf("invalid rename %q, want original=bridged", pair)
		}
		renames[from] = to
	}
	return renames, nil
}

func encodeResult(res *convert.Result) ([]byte, error) {
	items, err := ast.MarshalItems(res.Items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode output items: %w", err)
	}
	return json.MarshalIndent(struct {
		Items json.RawMessage `json:"items"`
		Needs []convert.Need  `json:"needs,omitempty"`
		Diff  string          `json:"diff,omitempty"`
	}{items, res.Needs, res.Diff}, "", "  ")
}
