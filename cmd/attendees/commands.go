package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Germanaz0/phpconfar/internal/app"
	"github.com/Germanaz0/phpconfar/internal/domain"
	"github.com/spf13/cobra"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Import attendees from the configured ticket sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()

			urls := e.cfg.SourceURLs()
			if len(urls) == 0 {
				return errors.New("no ticket sources configured: set EVENBRITE_URL and/or EVENTIOZ_URL")
			}
			summary, err := e.svc.Import(cmd.Context(), app.ImportConfig{URLs: urls})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, src := range domain.Sources() {
				s, ok := summary.Sources[src]
				if !ok {
					continue
				}
				fmt.Fprintf(out, "%s: fetched=%d imported=%d ignored=%d\n", src, s.Fetched, s.Imported, s.Ignored)
			}
			fmt.Fprintf(out, "imported=%d ignored=%d\n", summary.Imported, summary.Ignored)
			return nil
		},
	}
}

func newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <text>...",
		Short: "Search attendees by code, email or name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()

			found, err := e.svc.FindTicket(cmd.Context(), strings.Join(args, " "))
			if errors.Is(err, domain.ErrNoMatch) {
				fmt.Fprintln(cmd.OutOrStdout(), "no result")
				return nil
			}
			if err != nil {
				return err
			}
			return printAttendees(cmd.OutOrStdout(), found, nil)
		},
	}
}

func newEligibleCmd() *cobra.Command {
	var (
		fieldNames []string
		limit      int
	)
	cmd := &cobra.Command{
		Use:   "eligible",
		Short: "List attendees eligible for a raffle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fields, err := domain.ParseFields(fieldNames)
			if err != nil {
				return err
			}
			e, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()

			rows, err := e.svc.Eligible(cmd.Context(), domain.ListOptions{Fields: fields, Limit: limit})
			if err != nil {
				return err
			}
			return printAttendees(cmd.OutOrStdout(), rows, fields)
		},
	}
	cmd.Flags().StringSliceVar(&fieldNames, "field", nil, "columns to show (repeatable)")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum rows, 0 for all")
	return cmd
}

func newRaffleCmd() *cobra.Command {
	var roleNames []string
	cmd := &cobra.Command{
		Use:   "raffle",
		Short: "Draw one random attendee among the given roles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			roles, err := domain.ParseRoles(roleNames)
			if err != nil {
				return err
			}
			e, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()

			winner, err := e.svc.Raffle(cmd.Context(), roles)
			if err != nil {
				return err
			}
			if winner == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "no candidates")
				return nil
			}
			return printAttendees(cmd.OutOrStdout(), []domain.Attendee{*winner}, nil)
		},
	}
	cmd.Flags().StringSliceVar(&roleNames, "role", []string{string(domain.RoleAttendee)}, "roles taking part in the draw")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply store migrations and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			e.close()
			fmt.Fprintf(cmd.OutOrStdout(), "%s store migrated\n", e.cfg.StoreDriver)
			return nil
		},
	}
}

func printAttendees(w io.Writer, rows []domain.Attendee, fields []domain.Field) error {
	if len(fields) == 0 {
		fields = []domain.Field{
			domain.FieldID,
			domain.FieldCode,
			domain.FieldSource,
			domain.FieldFirstName,
			domain.FieldLastName,
			domain.FieldEmail,
			domain.FieldRole,
		}
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	header := make([]string, len(fields))
	for i, f := range fields {
		header[i] = strings.ToUpper(string(f))
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, a := range rows {
		cells := make([]string, len(fields))
		for i, f := range fields {
			cells[i] = fieldValue(a, f)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

func fieldValue(a domain.Attendee, f domain.Field) string {
	switch f {
	case domain.FieldID:
		return fmt.Sprint(a.ID)
	case domain.FieldCode:
		return a.Code
	case domain.FieldSource:
		return string(a.Source)
	case domain.FieldEmail:
		return a.Email
	case domain.FieldFirstName:
		return a.FirstName
	case domain.FieldLastName:
		return a.LastName
	case domain.FieldRole:
		return string(a.Role)
	case domain.FieldImportedAt:
		if a.ImportedAt.IsZero() {
			return ""
		}
		return a.ImportedAt.Format("2006-01-02 15:04")
	}
	return ""
}
