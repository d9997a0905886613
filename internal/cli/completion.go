package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for mutmap.

To load completions:

Bash:
  $ source <(mutmap completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ mutmap completion bash > /etc/bash_completion.d/mutmap
  # macOS:
  $ mutmap completion bash > $(brew --prefix)/etc/bash_completion.d/mutmap

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ mutmap completion zsh > "${fpath[1]}/_mutmap"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ mutmap completion fish | source

  # To load completions for each session, execute once:
  $ mutmap completion fish > ~/.config/fish/completions/mutmap.fish

PowerShell:
  PS> mutmap completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> mutmap completion powershell > mutmap.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}

	return cmd
}
