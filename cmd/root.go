package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "linkset",
	Short: "many-to-many link management tool",
	Example: `linkset db migrate
linkset assign -p <product-id> -c 5,6,7
linkset tags upsert --video <video-id> -t 2,3,4
linkset tags upsert --tutorial <tutorial-id> -t 2,3,4
linkset attach -r video-tags -s <video-id> -t <tag-id>
linkset detach -r video-tags -s <video-id> -t <tag-id>
linkset list -r tutorial-tags -s <tutorial-id>
linkset audit`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(dbCmd)
	rootCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})

	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	cobra.EnableCommandSorting = false
}
