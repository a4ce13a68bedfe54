package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shrimp-lang/shrimp"
	"github.com/shrimp-lang/shrimp/builtins"
	"github.com/shrimp-lang/shrimp/bytecode"
	"github.com/shrimp-lang/shrimp/cst"
	"github.com/shrimp-lang/shrimp/dis"
	"github.com/shrimp-lang/shrimp/internal/token"
	"github.com/shrimp-lang/shrimp/parser"
)

// newParser returns a parser for src configured like shrimp.Parse.
func newParser(cmd *cobra.Command, src source) (*parser.Parser, error) {
	reg, err := loadRegistry()
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	return parser.New(src.code,
		parser.WithCommands(builtins.Native(reg)),
		parser.WithFilename(src.filename),
		parser.WithLogger(logger),
	), nil
}

type tokenJSON struct {
	Kind  string `json:"kind"`
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

func newTokensCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "Print the tokens of a program",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := getSource(cmd, args)
			if err != nil {
				return err
			}
			format, err := outputFormat()
			if err != nil {
				return err
			}
			p, err := newParser(cmd, src)
			if err != nil {
				return err
			}
			p.Parse(cmd.Context())
			tokens := p.Tokens()

			out := cmd.OutOrStdout()
			if format == "json" {
				items := make([]tokenJSON, len(tokens))
				for i, tok := range tokens {
					items[i] = tokenJSON{tok.Kind.String(), tok.Text, tok.Span.Start, tok.Span.End}
				}
				return printJSON(out, items)
			}
			for _, tok := range tokens {
				pos := token.PositionOf(src.code, tok.Span.Start)
				loc := fmt.Sprintf("%d:%d", pos.LineNumber(), pos.ColumnNumber())
				fmt.Fprintf(out, "%-8s %-22s %q\n", loc, tok.Kind, tok.Text)
			}
			return p.Err()
		},
	}
	addSourceFlags(cmd)
	return cmd
}

func newCSTCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cst [file]",
		Short: "Print the concrete syntax tree of a program",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := getSource(cmd, args)
			if err != nil {
				return err
			}
			format, err := outputFormat()
			if err != nil {
				return err
			}
			p, err := newParser(cmd, src)
			if err != nil {
				return err
			}
			tree := p.Parse(cmd.Context())
			if format == "json" {
				if err := printJSON(cmd.OutOrStdout(), tree); err != nil {
					return err
				}
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), cst.Dump(tree))
			}
			// The tree is printed even when it holds error nodes.
			return p.Err()
		},
	}
	addSourceFlags(cmd)
	return cmd
}

// loadProgram compiles src, or decodes it when it names a .shb file.
func loadProgram(cmd *cobra.Command, src source) (*bytecode.Program, error) {
	if src.isBytecode() {
		return bytecode.Unmarshal([]byte(src.code))
	}
	opts, err := getShrimpOptions(cmd, src.filename)
	if err != nil {
		return nil, err
	}
	return shrimp.Compile(cmd.Context(), src.code, opts...)
}

func newCompileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile [file]",
		Short: "Compile a program and print its listing",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := getSource(cmd, args)
			if err != nil {
				return err
			}
			prog, err := loadProgram(cmd, src)
			if err != nil {
				return err
			}
			path, _ := cmd.Flags().GetString("out")
			if path == "" {
				fmt.Fprint(cmd.OutOrStdout(), prog.String())
				return nil
			}
			data, err := bytecode.Marshal(prog)
			if err != nil {
				return err
			}
			return os.WriteFile(path, data, 0o644)
		},
	}
	addSourceFlags(cmd)
	cmd.Flags().String("out", "", "write the compiled program to this .shb file")
	return cmd
}

func newDisCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dis [file]",
		Short: "Disassemble a program",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := getSource(cmd, args)
			if err != nil {
				return err
			}
			prog, err := loadProgram(cmd, src)
			if err != nil {
				return err
			}
			instructions, err := dis.Disassemble(prog)
			if err != nil {
				return err
			}
			dis.Print(instructions, cmd.OutOrStdout())
			return nil
		},
	}
	addSourceFlags(cmd)
	return cmd
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Run a program or a compiled .shb file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := getSource(cmd, args)
			if err != nil {
				return err
			}
			format, err := outputFormat()
			if err != nil {
				return err
			}
			prog, err := loadProgram(cmd, src)
			if err != nil {
				return err
			}
			opts, err := getShrimpOptions(cmd, src.filename)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			result, err := shrimp.Run(ctx, prog, opts...)
			if err != nil {
				return err
			}
			return printResult(cmd, result, format)
		},
	}
	addSourceFlags(cmd)
	return cmd
}

func printResult(cmd *cobra.Command, result any, format string) error {
	out := cmd.OutOrStdout()
	switch format {
	case "json":
		return printJSON(out, result)
	case "text":
		fmt.Fprintln(out, result)
		return nil
	}
	// With an unspecified format, print nothing for null and the plain
	// value otherwise.
	if result == nil {
		return nil
	}
	fmt.Fprintln(out, result)
	return nil
}

func newCompleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete <prefix>",
		Short: "List the registered commands starting with prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat()
			if err != nil {
				return err
			}
			reg, err := loadRegistry()
			if err != nil {
				return err
			}
			match := reg.Lookup(args[0])
			out := cmd.OutOrStdout()
			if format == "json" {
				return printJSON(out, match)
			}
			for _, c := range match.Partial {
				var params []string
				for _, a := range c.Args {
					params = append(params, a.Name)
				}
				fmt.Fprintf(out, "%s\t%s\t%s\n", c.Command, strings.Join(params, " "), c.Description)
			}
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat()
			if err != nil {
				return err
			}
			if format == "json" {
				info, err := json.MarshalIndent(map[string]any{
					"version": version,
					"commit":  commit,
					"date":    date,
				}, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(info))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "shrimp %s (%s, %s)\n", version, commit, date)
			return nil
		},
	}
}
