package cli

import (
	"io"
	"slices"

	"github.com/spf13/cobra"
)

// completionWriters generate a completion script per shell.
var completionWriters = map[string]func(root *cobra.Command, w io.Writer) error{
	"bash":       func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletionV2(w, true) },
	"zsh":        func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
	"fish":       func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
	"powershell": func(root *cobra.Command, w io.Writer) error { return root.GenPowerShellCompletionWithDesc(w) },
}

// completionCommand prints a shell completion script.
func (c *CLI) completionCommand() *cobra.Command {
	shells := make([]string, 0, len(completionWriters))
	for name := range completionWriters {
		shells = append(shells, name)
	}
	slices.Sort(shells)

	return &cobra.Command{
		Use:   "completion [bash|fish|powershell|zsh]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for graphpos.

Completions cover commands, flags, and the values of enumerated flags such
as --direction, --alignment and --format.

  bash:        source <(graphpos completion bash)
  zsh:         graphpos completion zsh > "${fpath[1]}/_graphpos"
  fish:        graphpos completion fish | source
  powershell:  graphpos completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             shells,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return completionWriters[args[0]](cmd.Root(), cmd.OutOrStdout())
		},
	}
}

// registerEnumCompletions completes each named flag with a fixed set of
// values. Graph arguments complete as .json and .dot files.
func registerEnumCompletions(cmd *cobra.Command, values map[string][]string) {
	for flag, vals := range values {
		_ = cmd.RegisterFlagCompletionFunc(flag, cobra.FixedCompletions(vals, cobra.ShellCompDirectiveNoFileComp))
	}
	if cmd.ValidArgsFunction == nil {
		cmd.ValidArgsFunction = func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return []string{"json", "dot"}, cobra.ShellCompDirectiveFilterFileExt
		}
	}
}
