// Package main provides the mdctl tool for inspecting market-data payloads.
//
// Usage:
//
//	mdctl schemas [--type TickerSnapshot]
//	mdctl decode [file ...]
//	mdctl verify [file ...]
//
// The tool works against the standard wire type registry: schemas prints
// the registered columnar layouts, decode normalizes captured wire-mapping
// JSON documents, and verify checks their decode/re-encode fidelity.
// decode and verify read from stdin when no files are given.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/halcyonmkt/marketdata-commons/internal/inspect"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "mdctl",
		Short:   "Inspect market-data wire payloads and columnar schemas",
		Long:    `mdctl inspects the market-data serialization registry: registered columnar schemas, captured wire-mapping payloads and their round-trip fidelity.`,
		Version: version,
	}

	rootCmd.AddCommand(newSchemasCmd())
	rootCmd.AddCommand(newDecodeCmd())
	rootCmd.AddCommand(newVerifyCmd())

	return rootCmd
}

func newSchemasCmd() *cobra.Command {
	var tags []string

	cmd := &cobra.Command{
		Use:   "schemas",
		Short: "Print the registered columnar schemas",
		Long: `Print the columnar layout of each registered wire type: the ordered
column list with physical column types.

Example:
  mdctl schemas
  mdctl schemas --type TickerSnapshot --type TradeTick`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ins, err := inspect.New()
			if err != nil {
				return err
			}
			return ins.Schemas(cmd.OutOrStdout(), tags)
		},
	}

	cmd.Flags().StringArrayVarP(&tags, "type", "t", nil, "Wire type tag to print (repeatable, default all)")

	return cmd
}

func newDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode [file ...]",
		Short: "Decode wire-mapping JSON documents through the registry",
		Long: `Decode a stream of wire-mapping JSON documents and print each in its
normalized canonical form, one document per line. Reads stdin when no
files are given.

Example:
  mdctl decode captured.json
  kafkacat -C -t marketdata -e | mdctl decode`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ins, err := inspect.New()
			if err != nil {
				return err
			}
			return eachInput(cmd, args, func(r io.Reader) error {
				return ins.Decode(r, cmd.OutOrStdout())
			})
		},
	}
}

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify [file ...]",
		Short: "Check decode/re-encode fidelity of captured payloads",
		Long: `Round-trip every wire-mapping JSON document in the stream through the
registry and report documents whose re-encoded form differs from the
input. Reads stdin when no files are given. Exits non-zero when any
document fails.

Example:
  mdctl verify captured.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ins, err := inspect.New()
			if err != nil {
				return err
			}

			failed := 0
			err = eachInput(cmd, args, func(r io.Reader) error {
				report, err := ins.Verify(r, cmd.OutOrStdout())
				failed += report.Failed
				return err
			})
			if err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d documents failed verification", failed)
			}
			return nil
		},
	}
}

// eachInput runs fn over every named file, or stdin when none are given.
func eachInput(cmd *cobra.Command, args []string, fn func(r io.Reader) error) error {
	if len(args) == 0 {
		return fn(cmd.InOrStdin())
	}

	for _, name := range args {
		f, err := os.Open(name)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", name, err)
		}
		err = fn(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}
