package cmd

import (
	"context"
	"os"
	"strconv"

	"github.com/emrgen/linkset/internal/model"
	"github.com/emrgen/linkset/internal/service"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "tag commands",
}

func init() {
	rootCmd.AddCommand(assignCmd())

	rootCmd.AddCommand(tagsCmd)
	tagsCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	tagsCmd.AddCommand(upsertTagsCmd())

	rootCmd.AddCommand(attachCmd())
	rootCmd.AddCommand(detachCmd())
	rootCmd.AddCommand(listCmd())
}

func assignCmd() *cobra.Command {
	var productID uint
	var categoryIDs []uint
	var actor uint

	var required = []string{"product", "categories"}

	command := &cobra.Command{
		Use:     "assign",
		Short:   "assign categories to a product",
		Long:    `assign categories to a product, categories already assigned are kept`,
		Example: "linkset assign -p <product-id> -c 5,6,7",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			a, err := newApp()
			if err != nil {
				printError(err)
				return
			}
			defer a.Close()

			svc := service.NewProductCategoryService(a.links)
			res, err := svc.AssignCategories(context.Background(), productID, categoryIDs, actorPtr(actor))
			if err != nil {
				printError(err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Assigned", "Skipped", "Total", "Newly Assigned", "Already Assigned"})
			table.Append([]string{
				strconv.Itoa(res.Assigned),
				strconv.Itoa(res.Skipped),
				strconv.Itoa(res.Total),
				joinIDs(res.NewlyAssigned),
				joinIDs(res.AlreadyAssigned),
			})
			table.Render()
		},
	}

	command.Flags().UintVarP(&productID, "product", "p", 0, "product id")
	command.Flags().UintSliceVarP(&categoryIDs, "categories", "c", nil, "category ids")
	command.Flags().UintVar(&actor, "actor", 0, "id of the acting user")

	return command
}

func upsertTagsCmd() *cobra.Command {
	var videoID uint
	var tutorialID uint
	var tagIDs []uint
	var actor uint

	command := &cobra.Command{
		Use:     "upsert",
		Short:   "replace the tags of a video or tutorial",
		Example: "linkset tags upsert --video <video-id> -t 2,3,4",
		Run: func(cmd *cobra.Command, args []string) {
			if !cmd.Flag("tags").Changed {
				color.Red("missing: --tags")
				return
			}
			if cmd.Flag("video").Changed == cmd.Flag("tutorial").Changed {
				color.Red("provide exactly one of --video and --tutorial")
				return
			}

			a, err := newApp()
			if err != nil {
				printError(err)
				return
			}
			defer a.Close()

			ctx := context.Background()
			var tags []model.Tag
			if cmd.Flag("video").Changed {
				tags, err = service.NewVideoTagService(a.links, a.store).UpsertForVideo(ctx, videoID, tagIDs, actorPtr(actor))
			} else {
				tags, err = service.NewTutorialTagService(a.links).UpsertTags(ctx, tutorialID, tagIDs, actorPtr(actor))
			}
			if err != nil {
				printError(err)
				return
			}

			printTags(tags)
		},
	}

	command.Flags().UintVar(&videoID, "video", 0, "video id")
	command.Flags().UintVar(&tutorialID, "tutorial", 0, "tutorial id")
	command.Flags().UintSliceVarP(&tagIDs, "tags", "t", nil, "tag ids, empty removes every tag")
	command.Flags().UintVar(&actor, "actor", 0, "id of the acting user")

	return command
}

func attachCmd() *cobra.Command {
	var relation string
	var sourceID uint
	var targetID uint
	var actor uint

	var required = []string{"relation", "source", "target"}

	command := &cobra.Command{
		Use:     "attach",
		Short:   "link a single pair",
		Example: "linkset attach -r video-tags -s <video-id> -t <tag-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			rel, err := model.LookupRelation(relation)
			if err != nil {
				color.Red("%v: %s", err, relation)
				return
			}

			a, err := newApp()
			if err != nil {
				printError(err)
				return
			}
			defer a.Close()

			link, err := a.links.Attach(context.Background(), rel, sourceID, targetID, actorPtr(actor))
			if err != nil {
				printError(err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"ID", rel.SourceKind, rel.TargetKind, "Created At"})
			table.Append([]string{
				strconv.FormatUint(uint64(link.ID), 10),
				strconv.FormatUint(uint64(link.SourceID), 10),
				strconv.FormatUint(uint64(link.TargetID), 10),
				link.CreatedAt.Format("2006-01-02 15:04:05"),
			})
			table.Render()
		},
	}

	bindPairFlags(command, &relation, &sourceID, &targetID)
	command.Flags().UintVar(&actor, "actor", 0, "id of the acting user")

	return command
}

func detachCmd() *cobra.Command {
	var relation string
	var sourceID uint
	var targetID uint

	var required = []string{"relation", "source", "target"}

	command := &cobra.Command{
		Use:     "detach",
		Short:   "unlink a single pair",
		Example: "linkset detach -r video-tags -s <video-id> -t <tag-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			rel, err := model.LookupRelation(relation)
			if err != nil {
				color.Red("%v: %s", err, relation)
				return
			}

			a, err := newApp()
			if err != nil {
				printError(err)
				return
			}
			defer a.Close()

			if err := a.links.Detach(context.Background(), rel, sourceID, targetID); err != nil {
				printError(err)
				return
			}

			color.Green("unlinked %s %d from %s %d", rel.SourceKind, sourceID, rel.TargetKind, targetID)
		},
	}

	bindPairFlags(command, &relation, &sourceID, &targetID)

	return command
}

func listCmd() *cobra.Command {
	var relation string
	var sourceID uint

	var required = []string{"relation", "source"}

	command := &cobra.Command{
		Use:     "list",
		Short:   "list the targets linked to a source",
		Example: "linkset list -r product-categories -s <product-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			rel, err := model.LookupRelation(relation)
			if err != nil {
				color.Red("%v: %s", err, relation)
				return
			}

			a, err := newApp()
			if err != nil {
				printError(err)
				return
			}
			defer a.Close()

			ctx := context.Background()
			switch rel.Name {
			case model.ProductCategories.Name:
				categories, err := service.NewProductCategoryService(a.links).ListCategories(ctx, sourceID)
				if err != nil {
					printError(err)
					return
				}

				table := tablewriter.NewWriter(os.Stdout)
				table.SetHeader([]string{"ID", "Name"})
				for _, category := range categories {
					table.Append([]string{strconv.FormatUint(uint64(category.ID), 10), category.Name})
				}
				table.Render()
			case model.VideoTags.Name:
				tags, err := service.NewVideoTagService(a.links, a.store).FindTagsByVideo(ctx, sourceID)
				if err != nil {
					printError(err)
					return
				}
				printTags(tags)
			case model.TutorialTags.Name:
				tags, err := service.NewTutorialTagService(a.links).ListTags(ctx, sourceID)
				if err != nil {
					printError(err)
					return
				}
				printTags(tags)
			}
		},
	}

	command.Flags().StringVarP(&relation, "relation", "r", "", "relation name")
	command.Flags().UintVarP(&sourceID, "source", "s", 0, "source id")

	return command
}

func bindPairFlags(command *cobra.Command, relation *string, sourceID, targetID *uint) {
	command.Flags().StringVarP(relation, "relation", "r", "", "relation name, one of product-categories, video-tags, tutorial-tags")
	command.Flags().UintVarP(sourceID, "source", "s", 0, "source id")
	command.Flags().UintVarP(targetID, "target", "t", 0, "target id")
}

func printTags(tags []model.Tag) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Name"})
	for _, tag := range tags {
		table.Append([]string{strconv.FormatUint(uint64(tag.ID), 10), tag.Name})
	}
	table.Render()
}
