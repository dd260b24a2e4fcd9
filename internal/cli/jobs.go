package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dkm/jobcards/internal/core/domain"
	"github.com/dkm/jobcards/internal/core/ports"
	"github.com/dkm/jobcards/internal/core/service"
	"github.com/dkm/jobcards/internal/core/session"
)

// JobsCmd groups the job card commands.
func JobsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "List, inspect and capture job cards",
	}
	cmd.AddCommand(jobsListCmd(app))
	cmd.AddCommand(jobsShowCmd(app))
	cmd.AddCommand(jobsAssignCmd(app))
	cmd.AddCommand(jobsStatusCmd(app))
	cmd.AddCommand(jobsTechniciansCmd(app))
	cmd.AddCommand(jobsNewCmd(app))
	return cmd
}

func jobsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List jobs with counts per status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dashboard := service.NewDashboardService(app.backend, ports.NopAuditor{}, app.log)
			return app.withSession(cmd, func(ctx context.Context, _ *session.Store) error {
				view := dashboard.Load(ctx)
				if err := redirected(view.Outcome); err != nil {
					return err
				}
				if view.Message != "" {
					return errors.New(view.Message)
				}

				out := cmd.OutOrStdout()
				renderStats(out, view.Stats)
				if len(view.Jobs) == 0 {
					fmt.Fprintln(out, "No jobs found.")
					return nil
				}
				renderJobs(out, view.Jobs)
				return nil
			})
		},
	}
}

func jobsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseJobID(args[0])
			if err != nil {
				return err
			}
			jobs := service.NewJobService(app.backend, ports.NopAuditor{}, app.log)
			return app.withSession(cmd, func(ctx context.Context, _ *session.Store) error {
				view, err := loadJob(ctx, jobs, id)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				renderJobDetail(out, view.Job)
				if view.CanChangeStatus {
					names := make([]string, 0, len(view.StatusOptions))
					for _, s := range view.StatusOptions {
						names = append(names, string(s))
					}
					fmt.Fprintf(out, "Change status with: jobcards jobs status %d --to <%s>\n", id, strings.Join(names, "|"))
				}
				if view.CanAssign {
					fmt.Fprintf(out, "Assign with: jobcards jobs assign %d --technician <id>\n", id)
					if len(view.Technicians) > 0 {
						renderPeople(out, view.Technicians)
					}
				}
				if view.Message != "" {
					fmt.Fprintln(out, view.Message)
				}
				return nil
			})
		},
	}
}

func jobsAssignCmd(app *App) *cobra.Command {
	var technicianID int64
	cmd := &cobra.Command{
		Use:   "assign <id>",
		Short: "Assign a job to a technician",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseJobID(args[0])
			if err != nil {
				return err
			}
			jobs := service.NewJobService(app.backend, ports.NopAuditor{}, app.log)
			return app.withSession(cmd, func(ctx context.Context, _ *session.Store) error {
				view, err := loadJob(ctx, jobs, id)
				if err != nil {
					return err
				}
				if err := jobs.Assign(ctx, &view, technicianID); err != nil {
					return userError{err}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s Job %s is now with %s\n", okMark, view.Notice, view.Job.Reference(), jobTechnician(view.Job.Job))
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&technicianID, "technician", 0, "technician user id (see 'jobs technicians')")
	return cmd
}

func jobsStatusCmd(app *App) *cobra.Command {
	var target string
	cmd := &cobra.Command{
		Use:   "status <id>",
		Short: "Move a job to another status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseJobID(args[0])
			if err != nil {
				return err
			}
			jobs := service.NewJobService(app.backend, ports.NopAuditor{}, app.log)
			return app.withSession(cmd, func(ctx context.Context, _ *session.Store) error {
				view, err := loadJob(ctx, jobs, id)
				if err != nil {
					return err
				}
				if err := jobs.ChangeStatus(ctx, &view, target); err != nil {
					return userError{err}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s Job %s is %s\n", okMark, view.Notice, view.Job.Reference(), statusText(view.Job.Status))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&target, "to", "", "target status, e.g. \"On-Site\"")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func jobsTechniciansCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "technicians",
		Short: "List technicians jobs can be assigned to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.withSession(cmd, func(ctx context.Context, store *session.Store) error {
				if _, err := admit(store, domain.AdminRoles...); err != nil {
					return err
				}
				techs, err := app.backend.ListTechnicians(ctx)
				if err != nil {
					return userError{err}
				}
				renderPeople(cmd.OutOrStdout(), techs)
				return nil
			})
		},
	}
}

func jobsNewCmd(app *App) *cobra.Command {
	var (
		query       string
		pick        int
		category    string
		description string
		name        string
		phone       string
	)
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Capture a new job against a property",
		Long: `Looks up the property by phone, ERF, address or account number, then opens a
job in the given category. The complainant defaults to the property's account
holder and cellphone.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			wizard := service.NewWizardService(app.backend, ports.NopAuditor{}, app.log)
			return app.withSession(cmd, func(ctx context.Context, store *session.Store) error {
				if _, err := admit(store, domain.JobCreatorRoles...); err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				draft := ports.NewWizardDraft()
				if err := wizard.Lookup(ctx, draft, query); err != nil {
					return userError{err}
				}
				switch n := len(draft.Results); {
				case n == 0:
					return fmt.Errorf("no properties match %q", query)
				case pick == 0 && n > 1:
					renderProperties(out, draft.Results)
					return fmt.Errorf("%d properties match %q, choose one with --pick", n, query)
				case pick == 0:
					pick = 1
				case pick < 1 || pick > n:
					return fmt.Errorf("--pick must be between 1 and %d", n)
				}

				if err := wizard.SelectProperty(ctx, draft, draft.Results[pick-1].ID); err != nil {
					return userError{err}
				}

				in := ports.CaptureInput{
					CategoryName:     category,
					Description:      description,
					ComplainantName:  draft.ComplainantName,
					ComplainantPhone: draft.ComplainantPhone,
				}
				if cmd.Flags().Changed("name") {
					in.ComplainantName = name
				}
				if cmd.Flags().Changed("phone") {
					in.ComplainantPhone = phone
				}
				if err := wizard.Capture(draft, in); err != nil {
					return userError{err}
				}

				property := draft.Property
				categories := draft.Categories
				job, err := wizard.Submit(ctx, draft)
				if err != nil {
					if errors.Is(err, domain.ErrSelectionRequired) {
						names := make([]string, 0, len(categories))
						for _, c := range categories {
							names = append(names, c.Name)
						}
						fmt.Fprintf(out, "Categories: %s\n", strings.Join(names, ", "))
					}
					return userError{err}
				}
				fmt.Fprintf(out, "%s Created job %s for %s\n", okMark, job.Reference(), orNA(property.StreetAddress))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&query, "query", "", "phone, ERF, address or account number")
	cmd.Flags().IntVar(&pick, "pick", 0, "which lookup result to use when several match (1-based)")
	cmd.Flags().StringVar(&category, "category", "", "job category name")
	cmd.Flags().StringVar(&description, "description", "", "what needs doing")
	cmd.Flags().StringVar(&name, "name", "", "complainant name")
	cmd.Flags().StringVar(&phone, "phone", "", "complainant cellphone")
	_ = cmd.MarkFlagRequired("query")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

// loadJob fetches the detail view and converts a redirect or a failed load
// into an error.
func loadJob(ctx context.Context, jobs ports.JobService, id int64) (ports.JobDetailView, error) {
	view := jobs.Detail(ctx, id)
	if err := redirected(view.Outcome); err != nil {
		return view, err
	}
	if view.Job == nil {
		return view, errors.New(view.Message)
	}
	return view, nil
}

func parseJobID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid job id %q", s)
	}
	return id, nil
}
