package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/loom/input"
	"github.com/lixenwraith/loom/terminal"
)

var (
	headStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	actionStyle = lipgloss.NewStyle().Width(12)
	keyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

func newKeysCmd(load loadFunc) *cobra.Command {
	var names bool

	cmd := &cobra.Command{
		Use:   "keys",
		Short: "List key bindings or key names",
		Long: `List the effective key bindings, or with --names every key name a
binding pattern may use.

Patterns are space separated presses, e.g. "g g", "ctrl_c", "alt+x",
or a single class such as "<digit>".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if names {
				fmt.Fprintln(out, headStyle.Render("keys"))
				for _, n := range terminal.KeyNames() {
					fmt.Fprintln(out, "  "+n)
				}
				fmt.Fprintln(out, headStyle.Render("aliases"))
				fmt.Fprintln(out, "  space  backslash  lt")
				return nil
			}

			cfg, err := load(cmd)
			if err != nil {
				return err
			}
			km, err := cfg.Keys()
			if err != nil {
				return err
			}
			fmt.Fprintln(out, headStyle.Render("bindings"))
			for _, line := range bindingLines(km) {
				fmt.Fprintln(out, "  "+line)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&names, "names", false, "list key names instead of bindings")
	return cmd
}

// bindingLines renders one "action  pattern" line per bound action, sorted
func bindingLines(km input.Keymap) []string {
	out := make([]string, 0, len(km))
	for _, action := range km.Actions() {
		rc, _ := km.Get(action)
		out = append(out, actionStyle.Render(action)+keyStyle.Render(input.FormatPattern(rc)))
	}
	return out
}
