package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ecovekt/backend/internal/application/usecase/catalog"
	"github.com/ecovekt/backend/internal/application/usecase/statistics"
	"github.com/ecovekt/backend/internal/application/usecase/wasteentry"
	domainerror "github.com/ecovekt/backend/internal/domain/error"
	"github.com/ecovekt/backend/internal/domain/valueobject"
)

// newRootCmd builds the command tree around a.
func newRootCmd(a *app) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "ecovekt",
		Short:         "Log weighed waste and submit it to ecoVekt",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
			return a.init()
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ~/.config/ecovekt/config.yaml)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")

	root.AddCommand(
		newLogCmd(a),
		newPendingCmd(a),
		newRemoveCmd(a),
		newSubmitCmd(a),
		newLastCmd(a),
		newCategoriesCmd(a),
		newSelectCmd(a),
		newStatsCmd(a),
		newTokenCmd(a),
	)
	return root
}

func newLogCmd(a *app) *cobra.Command {
	var wasteID, imageURL string

	cmd := &cobra.Command{
		Use:   "log <category> <weight>",
		Short: "Add a weighed entry to the pending list",
		Example: `  ecovekt log Plast 0,3
  ecovekt log Papir 1.2 --id 2`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output, err := a.workflow.AppendEntry(cmd.Context(), wasteentry.AppendEntryInput{
				WasteID:    wasteID,
				WasteTitle: args[0],
				Weight:     args[1],
				ImageURL:   imageURL,
			})
			if err != nil {
				return describeError(err)
			}

			fmt.Fprintf(a.out, "Logged %s kg %s\n", formatKg(output.Entry.AmountKg), output.Entry.WasteTitle)
			for _, g := range output.Groups {
				if g.Key == valueobject.AggregationKey(output.Entry) {
					fmt.Fprintf(a.out, "Pending %s: %s kg in %d entries\n", g.WasteTitle, formatKg(g.TotalKg), g.Count)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&wasteID, "id", "", "catalog id of the category")
	cmd.Flags().StringVar(&imageURL, "image", "", "image URL of the category")
	return cmd
}

func newPendingCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "Show the pending list grouped by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printGroups(a, a.workflow.AggregatedView(cmd.Context()))
			return nil
		},
	}
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <key>",
		Short: "Remove every pending entry of a group",
		Long:  "Remove every pending entry of a group. Keys are listed by 'ecovekt pending'.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			groups, err := a.workflow.DeleteGroup(cmd.Context(), args[0])
			if err != nil {
				return describeError(err)
			}
			printGroups(a, groups)
			return nil
		},
	}
}

func newSubmitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "submit",
		Short: "Submit the pending list, one record per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output, err := a.workflow.SubmitAll(cmd.Context())
			if err != nil {
				var subErr *domainerror.SubmissionError
				if errors.As(err, &subErr) && subErr.Code == domainerror.ErrCodeClearFailed {
					fmt.Fprintf(a.out, "Submitted %d categories\n", len(subErr.Succeeded))
					if retryErr := a.workflow.RetryClear(cmd.Context()); retryErr != nil {
						fmt.Fprintln(a.out, "Warning: the pending list could not be cleared; do not submit it again")
					}
					return nil
				}
				return describeError(err)
			}

			fmt.Fprintf(a.out, "Submitted %d categories\n", len(output.Groups))
			return nil
		},
	}
}

func newLastCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "last",
		Short: "Show the most recently logged entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			last := a.workflow.LastEntry(cmd.Context())
			if last == nil {
				fmt.Fprintln(a.out, "Nothing logged yet")
				return nil
			}
			fmt.Fprintf(a.out, "%s kg %s at %s\n", formatKg(last.Weight), last.WasteTitle, last.SavedAt)
			return nil
		},
	}
}

func newCategoriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the waste categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output, err := a.listCategories().Execute(cmd.Context())
			if err != nil {
				return describeError(err)
			}

			w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tDESCRIPTION")
			for _, c := range output.Categories {
				fmt.Fprintf(w, "%s\t%s\t%s\n", c.ID, c.Title, c.Description)
			}
			return w.Flush()
		},
	}
}

func newSelectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "select [title...]",
		Short: "Show or replace the categories you track",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				selection, err := a.getSelection().Execute(cmd.Context())
				if err != nil {
					return describeError(err)
				}
				fmt.Fprintln(a.out, strings.Join(selection.SelectedWaste, "\n"))
				return nil
			}

			selection, err := a.updateSelection().Execute(cmd.Context(), catalog.UpdateSelectedWasteInput{Titles: args})
			if err != nil {
				return describeError(err)
			}
			fmt.Fprintf(a.out, "Tracking %d categories\n", len(selection.SelectedWaste))
			return nil
		},
	}
}

func newStatsCmd(a *app) *cobra.Command {
	var since string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show submitted totals per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var input statistics.GetWasteStatisticsInput
			if since != "" {
				t, err := time.Parse("2006-01-02", since)
				if err != nil {
					return fmt.Errorf("--since must be YYYY-MM-DD: %w", err)
				}
				input.Since = &t
			}

			output, err := a.statistics().Execute(cmd.Context(), input)
			if err != nil {
				return describeError(err)
			}

			w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CATEGORY\tKG\tRECORDS")
			for _, c := range output.Categories {
				fmt.Fprintf(w, "%s\t%s\t%d\n", c.Title, formatKg(c.TotalKg), c.Records)
			}
			fmt.Fprintf(w, "TOTAL\t%s\t%d\n", formatKg(output.TotalKg), output.Records)
			if err := w.Flush(); err != nil {
				return err
			}
			if output.Highlight != nil {
				fmt.Fprintf(a.out, "%s: %s kg since %s\n", output.Highlight.Title, formatKg(output.Highlight.TotalKg), output.Since.Format("2006-01-02"))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&since, "since", "", "start date (YYYY-MM-DD), default 90 days ago")
	return cmd
}

func newTokenCmd(a *app) *cobra.Command {
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Manage the access token",
	}

	tokenCmd.AddCommand(
		&cobra.Command{
			Use:   "set <token>",
			Short: "Store the access token issued by the identity service",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.setToken(strings.TrimSpace(args[0])); err != nil {
					return err
				}
				userID, ok := a.identity.CurrentUserID(cmd.Context())
				if !ok {
					return errors.New("token stored, but it carries no user id")
				}
				fmt.Fprintf(a.out, "Signed in as %s\n", userID)
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove the stored access token",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.setToken(""); err != nil {
					return err
				}
				fmt.Fprintln(a.out, "Signed out")
				return nil
			},
		},
	)
	return tokenCmd
}

func printGroups(a *app, groups []valueobject.AggregatedGroup) {
	if len(groups) == 0 {
		fmt.Fprintln(a.out, "No pending entries")
		return
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tCATEGORY\tKG\tENTRIES")
	for _, g := range groups {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", g.Key, g.WasteTitle, formatKg(g.TotalKg), g.Count)
	}
	_ = w.Flush()
}

// describeError turns workflow errors into messages for the user.
func describeError(err error) error {
	var subErr *domainerror.SubmissionError
	switch {
	case errors.Is(err, domainerror.ErrNothingToSubmit):
		return errors.New("there is nothing to submit")
	case errors.As(err, &subErr) && subErr.Code == domainerror.ErrCodeRemoteWriteFailed:
		if len(subErr.Succeeded) > 0 {
			return fmt.Errorf("could not save to server, try again later (%d of the categories were saved and will be sent again): %w",
				len(subErr.Succeeded), err)
		}
		return fmt.Errorf("could not save to server, try again later: %w", err)
	case errors.Is(err, domainerror.ErrNotAuthenticated):
		return errors.New("not signed in, run 'ecovekt token set <token>'")
	}
	return err
}

func formatKg(kg float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.3f", kg), "0"), ".")
}
