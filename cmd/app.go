package cmd

import (
	"fmt"
	"strings"

	"github.com/emrgen/linkset/internal/config"
	"github.com/emrgen/linkset/internal/queue"
	"github.com/emrgen/linkset/internal/service"
	"github.com/emrgen/linkset/internal/store"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type app struct {
	cfg       *config.Config
	store     *store.GormStore
	publisher queue.Publisher
	links     *service.LinkService
}

func newApp() (*app, error) {
	cfg := config.LoadConfig()
	if err := config.ConfigureLogger(cfg.Log); err != nil {
		return nil, err
	}

	s := store.NewGormStore(config.GetDb(cfg))
	publisher, err := config.NewPublisher(cfg)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:       cfg,
		store:     s,
		publisher: publisher,
		links:     service.NewLinkService(s, publisher),
	}, nil
}

func (a *app) Close() {
	if err := a.publisher.Close(); err != nil {
		logrus.Warnf("failed to close publisher: %v", err)
	}
}

// printError prints err with the status code a transport would answer with.
func printError(err error) {
	st := service.ToStatus(err)
	color.Red("%s: %s\n", st.Code(), st.Message())
}

func actorPtr(actor uint) *uint {
	if actor == 0 {
		return nil
	}
	return &actor
}

func joinIDs(ids []uint) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return strings.Join(parts, ",")
}

func checkMissingFlags(cmd *cobra.Command, flags []string) bool {
	var missingFlags []string
	var providedFlags []string
	for _, required := range flags {
		if !cmd.Flag(required).Changed {
			missingFlags = append(missingFlags, required)
		} else {
			value := cmd.Flag(required).Value.String()
			providedFlags = append(providedFlags, fmt.Sprintf("--%s=%s", required, value))
		}
	}

	if len(missingFlags) > 0 {
		var msg string
		for _, f := range missingFlags {
			msg += fmt.Sprintf("--%s ", f)
		}

		color.Red("missing: %s\n", msg)
		if len(providedFlags) > 0 {
			provided := strings.Join(providedFlags, " ")
			color.Green("provide: %s\n", provided)
		}

		cmd.Println("")
		cmd.Usage()
		return true
	}

	return false
}
