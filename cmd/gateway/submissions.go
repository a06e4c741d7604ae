package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/xn-coder/Project-Gateway/internal/app"
	"github.com/xn-coder/Project-Gateway/internal/model"
	"github.com/xn-coder/Project-Gateway/internal/submission"
)

func newSubmissionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "submissions",
		Aliases: []string{"sub"},
		Short:   "List and triage submissions",
	}
	cmd.AddCommand(
		newListCmd(),
		newShowCmd(),
		newStatusCmd("accept <id>", "Accept a pending submission", false, submission.MsgAccepted,
			func(ctx context.Context, svc *submission.Service, id, _ string) (*model.Submission, error) {
				return svc.Accept(ctx, id)
			}),
		newStatusCmd("accept-with-conditions <id> <conditions...>", "Accept a pending submission with conditions", true, submission.MsgAcceptedWithConditions,
			func(ctx context.Context, svc *submission.Service, id, detail string) (*model.Submission, error) {
				return svc.AcceptWithConditions(ctx, id, detail)
			}),
		newStatusCmd("reject <id> <reason...>", "Reject a submission", true, submission.MsgRejected,
			func(ctx context.Context, svc *submission.Service, id, detail string) (*model.Submission, error) {
				return svc.Reject(ctx, id, detail)
			}),
		newDeleteCmd(),
	)
	return cmd
}

func newListCmd() *cobra.Command {
	var (
		q      submission.Query
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List submissions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				subs, err := a.Service.List(ctx, q)
				if err != nil {
					return resultError(submission.Failure(err))
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), subs)
				}
				printTable(cmd.OutOrStdout(), subs)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&q.Search, "search", "", "Filter by title, name, email or status")
	cmd.Flags().StringVar(&q.Sort, "sort", submission.SortSubmittedAt, "Sort by submittedAt, projectTitle, name or status")
	cmd.Flags().StringVar(&q.Order, "order", "desc", "Sort order: asc or desc")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print one submission as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				sub, err := a.Service.Get(ctx, args[0])
				if err != nil {
					return resultError(submission.Failure(err))
				}
				return writeJSON(cmd.OutOrStdout(), sub)
			})
		},
	}
}

type statusFunc func(ctx context.Context, svc *submission.Service, id, detail string) (*model.Submission, error)

// newStatusCmd builds a triage command. When withDetail is set the words
// after the id are joined into the conditions or the reason.
func newStatusCmd(use, short string, withDetail bool, message string, fn statusFunc) *cobra.Command {
	args := cobra.ExactArgs(1)
	if withDetail {
		args = cobra.MinimumNArgs(1)
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			detail := strings.Join(args[1:], " ")
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				sub, err := fn(ctx, a.Service, args[0], detail)
				return report(cmd.OutOrStdout(), submission.Outcome(message, sub, err))
			})
		},
	}
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a submission and its stored files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				result := submission.Result{Success: true, Message: submission.MsgDeleted}
				if err := a.Service.Delete(ctx, args[0]); err != nil {
					result = submission.Failure(err)
				}
				return report(cmd.OutOrStdout(), result)
			})
		},
	}
}

func report(w io.Writer, r submission.Result) error {
	if !r.Success {
		return resultError(r)
	}
	fmt.Fprintln(w, r.Message)
	if r.Warning != "" {
		fmt.Fprintln(w, "warning:", r.Warning)
	}
	return nil
}

func resultError(r submission.Result) error {
	if len(r.Errors) == 0 {
		return fmt.Errorf("%s", r.Message)
	}
	parts := make([]string, len(r.Errors))
	for i, fe := range r.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return fmt.Errorf("%s", strings.Join(parts, "; "))
}

func printTable(w io.Writer, subs []model.Submission) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSUBMITTED\tSTATUS\tCLIENT\tPROJECT\tFILES")
	for _, s := range subs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s <%s>\t%s\t%d\n",
			s.ID, s.SubmittedAt.Local().Format(time.DateTime), s.Status, s.Name, s.Email, s.ProjectTitle, len(s.Files))
	}
	tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
