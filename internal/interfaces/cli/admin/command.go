package admin

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/techdesk-io/techdesk/internal/application/ticket/usecases"
	"github.com/techdesk-io/techdesk/internal/infrastructure/database"
	"github.com/techdesk-io/techdesk/internal/infrastructure/repository"
	"github.com/techdesk-io/techdesk/internal/infrastructure/storage"
	"github.com/techdesk-io/techdesk/internal/interfaces/cli/bootstrap"
	"github.com/techdesk-io/techdesk/internal/shared/db"
)

var (
	opts       bootstrap.Options
	confirmAll bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Ticket maintenance commands",
		Long:  `Delete tickets, correct equipment ids and audit the attachment directory.`,
	}

	cmd.PersistentFlags().StringVarP(&opts.Env, "env", "e", "development", "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")

	cmd.AddCommand(
		newDeleteAllCommand(),
		newDeleteCommand(),
		newSetEquipmentCommand(),
		newOrphansCommand(),
	)

	return cmd
}

func newDeleteAllCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete-all",
		Short: "Delete every ticket",
		Long:  `Delete every ticket row. Attachment files are left in the upload directory.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirmAll {
				return fmt.Errorf("refusing to delete all tickets without --yes")
			}
			return withUseCases(cmd.Context(), func(ucs *adminUseCases) error {
				return runDeleteAll(cmd.Context(), ucs.deleteAll, cmd.OutOrStdout())
			})
		},
	}

	cmd.Flags().BoolVarP(&confirmAll, "yes", "y", false, "Confirm deletion of all tickets")

	return cmd
}

func newDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <ticket-id>",
		Short: "Delete one ticket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTicketID(args[0])
			if err != nil {
				return err
			}
			return withUseCases(cmd.Context(), func(ucs *adminUseCases) error {
				return runDelete(cmd.Context(), ucs.deleteOne, id, cmd.OutOrStdout())
			})
		},
	}
}

func newSetEquipmentCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-equipment <ticket-id> <equipment-id>",
		Short: "Set the equipment id of a ticket",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTicketID(args[0])
			if err != nil {
				return err
			}
			return withUseCases(cmd.Context(), func(ucs *adminUseCases) error {
				return runSetEquipment(cmd.Context(), ucs.setEquipment, id, args[1], cmd.OutOrStdout())
			})
		},
	}
}

func newOrphansCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "orphans",
		Short: "List attachment files no ticket references",
		Long:  `Compare the upload directory with the attachments recorded on tickets. Nothing is deleted.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUseCases(cmd.Context(), func(ucs *adminUseCases) error {
				return runOrphans(cmd.Context(), ucs.audit, cmd.OutOrStdout())
			})
		},
	}
}

type adminUseCases struct {
	deleteAll    usecases.DeleteAllTicketsExecutor
	deleteOne    usecases.DeleteTicketExecutor
	setEquipment usecases.UpdateEquipmentIDExecutor
	audit        usecases.AuditAttachmentsExecutor
}

func newAdminUseCases(gdb *gorm.DB, env *bootstrap.Env) *adminUseCases {
	log := env.Log.Named("admin")
	repo := repository.NewTicketRepository(gdb)
	stager := storage.NewAttachmentStager(afero.NewOsFs(), &env.Config.Upload, log)

	return &adminUseCases{
		deleteAll:    usecases.NewDeleteAllTicketsUseCase(repo, log),
		deleteOne:    usecases.NewDeleteTicketUseCase(repo, db.NewTransactionManager(gdb), log),
		setEquipment: usecases.NewUpdateEquipmentIDUseCase(repo, log),
		audit:        usecases.NewAuditAttachmentsUseCase(repo, stager, nil, log),
	}
}

func withUseCases(ctx context.Context, fn func(ucs *adminUseCases) error) error {
	env, err := bootstrap.Load(opts)
	if err != nil {
		return err
	}
	defer env.Close()

	gdb, err := env.OpenDatabase(ctx)
	if err != nil {
		return err
	}
	defer database.Close(gdb)

	return fn(newAdminUseCases(gdb, env))
}

func parseTicketID(raw string) (uint, error) {
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("invalid ticket ID %q", raw)
	}
	return uint(n), nil
}

func runDeleteAll(ctx context.Context, uc usecases.DeleteAllTicketsExecutor, w io.Writer) error {
	result, err := uc.Execute(ctx)
	if err != nil {
		return err
	}
	if result.NotFound {
		fmt.Fprintln(w, "No tickets to delete.")
		return nil
	}
	fmt.Fprintf(w, "Deleted %d tickets.\n", result.RowsAffected)
	return nil
}

func runDelete(ctx context.Context, uc usecases.DeleteTicketExecutor, id uint, w io.Writer) error {
	result, err := uc.Execute(ctx, usecases.DeleteTicketCommand{TicketID: id})
	if err != nil {
		return err
	}
	if result.NotFound {
		fmt.Fprintf(w, "No ticket found with ID %d.\n", id)
		return nil
	}
	fmt.Fprintf(w, "Ticket %d deleted.\n", id)
	for _, name := range result.LeftAttachments {
		fmt.Fprintf(w, "  attachment left on disk: %s\n", name)
	}
	return nil
}

func runSetEquipment(ctx context.Context, uc usecases.UpdateEquipmentIDExecutor, id uint, equipmentID string, w io.Writer) error {
	result, err := uc.Execute(ctx, usecases.UpdateEquipmentIDCommand{TicketID: id, EquipmentID: equipmentID})
	if err != nil {
		return err
	}
	if result.NotFound {
		fmt.Fprintf(w, "No ticket found with ID %d.\n", id)
		return nil
	}
	fmt.Fprintf(w, "Ticket %d updated with equipment_id = %s.\n", id, equipmentID)
	return nil
}

func runOrphans(ctx context.Context, uc usecases.AuditAttachmentsExecutor, w io.Writer) error {
	report, err := uc.Report(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Stored files: %d\n", report.Stored)
	fmt.Fprintf(w, "Orphaned files: %d\n", len(report.Orphaned))
	for _, name := range report.Orphaned {
		fmt.Fprintf(w, "  %s\n", name)
	}
	fmt.Fprintf(w, "Missing files: %d\n", len(report.Missing))
	for _, name := range report.Missing {
		fmt.Fprintf(w, "  %s\n", name)
	}
	return nil
}
