package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mgpai22/lekh/internal/config"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage API keys stored in the system keyring",
}

var keyForgetCmd = &cobra.Command{
	Use:   "forget [provider]",
	Short: "Remove the stored API key of a provider",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		provider := args[0]
		if config.APIKeyEnv(provider) == "" {
			return fmt.Errorf("unsupported translation provider: %s", provider)
		}
		if err := config.ForgetKey(provider); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed stored key for %s\n", provider)
		return nil
	},
}

func init() {
	keyCmd.AddCommand(keyForgetCmd)
	rootCmd.AddCommand(keyCmd)
}
