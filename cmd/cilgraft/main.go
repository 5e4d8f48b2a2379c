// Command cilgraft inspects YAML-described cil modules and grafts type
// definitions from one module into another, printing the resulting IL.
package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ilkit/cil/inject"
	"github.com/ilkit/cil/pkg/dump"
	"github.com/ilkit/cil/pkg/moduledesc"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cilgraft",
		Short:         "Inspect cil modules and graft definitions between them",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newDumpCmd())
	root.AddCommand(newGraftCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the cilgraft version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "cilgraft", version)
		},
	}
}

func newDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump MODULE.yaml",
		Short: "Print the IL listing of a described module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mod, err := moduledesc.Load(args[0])
			if err != nil {
				return err
			}
			printHeader(cmd, "module %s", mod.Name)
			dump.Module(cmd.OutOrStdout(), mod)
			return nil
		},
	}
}

func newGraftCmd() *cobra.Command {
	var (
		typeName string
		verbose  bool
	)
	cmd := &cobra.Command{
		Use:   "graft --type NAME SOURCE.yaml TARGET.yaml",
		Short: "Clone a type from the source module into the target module",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := moduledesc.Load(args[0])
			if err != nil {
				return err
			}
			target, err := moduledesc.Load(args[1])
			if err != nil {
				return err
			}

			typ := source.FindType(typeName)
			if typ == nil {
				return fmt.Errorf("source module %s declares no type %q", source.Name, typeName)
			}

			opts := inject.Options{}
			if verbose {
				logger, err := zap.NewDevelopment()
				if err != nil {
					return err
				}
				defer logger.Sync()
				opts.Logger = logger
			}

			clone, err := inject.Type(typ, target, opts)
			if err != nil {
				return err
			}
			target.AddType(clone)

			printHeader(cmd, "grafted %s into %s", clone.FullName(), target.Name)
			dump.Module(cmd.OutOrStdout(), target)
			return nil
		},
	}
	cmd.Flags().StringVar(&typeName, "type", "", "full name of the type to graft (required)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "trace the skeleton and copy passes")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

// printHeader writes a dimmed one-line banner, colored only on a terminal.
func printHeader(cmd *cobra.Command, format string, args ...any) {
	out := cmd.OutOrStdout()
	msg := fmt.Sprintf(format, args...)
	if f, ok := out.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		fmt.Fprintf(out, "\x1b[1m== %s ==\x1b[0m\n", msg)
		return
	}
	fmt.Fprintf(out, "== %s ==\n", msg)
}
