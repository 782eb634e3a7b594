package cmd

import (
	"github.com/emrgen/linkset/internal/config"
	"github.com/emrgen/linkset/internal/store"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "db commands",
}

func init() {
	dbCmd.AddCommand(Migrate())
}

func Migrate() *cobra.Command {
	command := &cobra.Command{
		Use:   "migrate",
		Short: "Migrate the database",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.LoadConfig()
			if err := config.ConfigureLogger(cfg.Log); err != nil {
				color.Red("invalid log config: %v", err)
				return
			}

			if err := store.NewGormStore(config.GetDb(cfg)).Migrate(); err != nil {
				panic(err)
			}
			color.Green("database migrated")
		},
	}

	return command
}
