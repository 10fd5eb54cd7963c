// usetool inspects and expands UnicodeSet patterns from the command line.
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"uniset/internal/shell"
	"uniset/usetlib"
)

var verbose bool

func main() {
	if err := rootCmd().Execute(); err != nil {
		logrus.Fatal(err)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "usetool",
		Short:        "Inspect and expand UnicodeSet patterns",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.AddCommand(
		parseCmd(), resolveCmd(), regexCmd(), rewriteCmd(),
		listCmd(), containsCmd(), scriptCmd(),
	)
	return root
}

func parseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <pattern>",
		Short: "Dump the pattern AST",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			node, err := usetlib.Parse(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), node)
			return nil
		},
	}
}

func resolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <pattern>",
		Short: "Resolve a pattern to intervals and string members",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := usetlib.Resolve(args[0])
			if err != nil {
				return err
			}
			logrus.Debugf("resolved %d intervals, %d strings", len(res.Intervals), len(res.Strings))
			fmt.Fprintln(cmd.OutOrStdout(), shell.Format(res))
			return nil
		},
	}
}

func regexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "regex <pattern>",
		Short: "Render the pattern as an explicit regex character class",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cls, err := usetlib.ToRegexClass(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cls)
			return nil
		},
	}
}

func rewriteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rewrite <regex>",
		Short: "Replace set and property references in a regex with explicit classes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := usetlib.RewriteRegex(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <pattern>",
		Short: "Enumerate the set codepoint by codepoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := usetlib.ToPatternList(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, e := range entries {
				if e.Negated {
					fmt.Fprintf(w, "!U+%04X\n", e.Rune)
				} else {
					fmt.Fprintf(w, "U+%04X\n", e.Rune)
				}
			}
			return nil
		},
	}
}

func containsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "contains <pattern> <codepoint>",
		Short: "Check membership of a codepoint (literal or U+hhhh)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := usetlib.Compile(args[0])
			if err != nil {
				return err
			}
			r, err := parseCodepoint(args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), u.Contains(r))
			return nil
		},
	}
}

func scriptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "script <file>",
		Short: "Run a set-algebra script (use - for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var src []byte
			var err error
			if args[0] == "-" {
				src, err = io.ReadAll(cmd.InOrStdin())
			} else {
				src, err = os.ReadFile(args[0])
			}
			if err != nil {
				return err
			}
			return shell.Run(string(src), cmd.OutOrStdout())
		},
	}
}

func parseCodepoint(s string) (rune, error) {
	if rest, ok := strings.CutPrefix(s, "U+"); ok {
		v, err := strconv.ParseUint(rest, 16, 32)
		if err != nil || v > uint64(usetlib.MaxCodepoint) {
			return 0, fmt.Errorf("bad codepoint %q", s)
		}
		return rune(v), nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("want a single codepoint or U+hhhh, got %q", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}
