package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand prints shell completion scripts.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Print a completion script for the given shell.

  bash:        source <(kgview completion bash)
  zsh:         kgview completion zsh > "${fpath[1]}/_kgview"
  fish:        kgview completion fish > ~/.config/fish/completions/kgview.fish
  powershell:  kgview completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			gen := map[string]func() error{
				"bash":       func() error { return root.GenBashCompletionV2(stdout, true) },
				"zsh":        func() error { return root.GenZshCompletion(stdout) },
				"fish":       func() error { return root.GenFishCompletion(stdout, true) },
				"powershell": func() error { return root.GenPowerShellCompletionWithDesc(stdout) },
			}
			return gen[args[0]]()
		},
	}

	return cmd
}
