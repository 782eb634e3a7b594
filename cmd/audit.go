package cmd

import (
	"context"
	"os"
	"os/signal"
	"sort"
	"strconv"

	"github.com/emrgen/linkset/internal/jobs"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"
)

func init() {
	rootCmd.AddCommand(auditCmd())
}

func auditCmd() *cobra.Command {
	var once bool

	command := &cobra.Command{
		Use:   "audit",
		Short: "report links whose source or target is gone",
		Long:  `runs the orphan link audit on the configured schedule until interrupted`,
		Run: func(cmd *cobra.Command, args []string) {
			a, err := newApp()
			if err != nil {
				printError(err)
				return
			}
			defer a.Close()

			audit := jobs.NewOrphanAudit(a.store, a.cfg.Audit.Schedule)

			if once {
				counts, err := audit.Audit(context.Background())
				if err != nil {
					printError(err)
					return
				}

				names := make([]string, 0, len(counts))
				for name := range counts {
					names = append(names, name)
				}
				sort.Strings(names)

				table := tablewriter.NewWriter(os.Stdout)
				table.SetHeader([]string{"Relation", "Orphans"})
				for _, name := range names {
					table.Append([]string{name, strconv.FormatInt(counts[name], 10)})
				}
				table.Render()
				return
			}

			executor := jobs.NewTaskExecutor(audit)
			if err := executor.Start(); err != nil {
				printError(err)
				return
			}

			sigs := make(chan os.Signal, 1)
			signal.Notify(sigs, unix.SIGTERM, unix.SIGINT)
			sig := <-sigs
			logrus.Infof("received %s, shutting down", sig)

			executor.Stop()
		},
	}

	command.Flags().BoolVar(&once, "once", false, "run the audit once and print the result")

	return command
}
