package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	postgresRepo "github.com/casalar/ledger/internal/adapter/repository/postgres"
	"github.com/casalar/ledger/internal/infrastructure/config"
	"github.com/casalar/ledger/internal/infrastructure/postgres"
	"github.com/casalar/ledger/internal/usecase"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "ledgerctl",
		Short:         "Ledger reconciliation tool",
		Long:          `Operator tool for reconstructing and verifying per-tenant bank account ledgers.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newBackfillCmd())
	rootCmd.AddCommand(newRebuildAccountCmd())
	rootCmd.AddCommand(newVerifyCmd())
	rootCmd.AddCommand(newMigrateCmd())

	return rootCmd
}

// connect loads configuration and opens the shared pool. Callers own the
// returned pool.
func connect(ctx context.Context) (*config.Config, *pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns, cfg.DatabaseTimeout)
	if err != nil {
		return nil, nil, err
	}

	return cfg, pool, nil
}

func newBackfillCmd() *cobra.Command {
	var (
		schema string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "Reconstruct missing ledgers for accounts without history",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			_, pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			uc := usecase.NewBackfillUseCase(
				postgresRepo.NewTenantRegistry(pool),
				postgresRepo.NewStoreFactory(pool),
				postgresRepo.NewULIDGenerator(),
				nil,
			)

			report, err := uc.Run(ctx, usecase.BackfillInput{Schema: schema, DryRun: dryRun})
			if err != nil {
				return err
			}

			printBackfillReport(cmd, report)
			return nil
		},
	}

	cmd.Flags().StringVar(&schema, "schema", "", "restrict the run to one tenant schema")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "compute and report without writing")

	return cmd
}

func printBackfillReport(cmd *cobra.Command, report *usecase.BackfillReport) {
	if report.DryRun {
		cmd.Println("DRY RUN - nothing was written")
	}
	for _, res := range report.Results {
		if res.Skipped {
			cmd.Printf("  %s/%s: skipped (ledger history present)\n", res.Schema, res.AccountID)
			continue
		}
		cmd.Printf("  %s/%s: %d transactions, opening %s on %s, final %s (%d entries)\n",
			res.Schema, res.AccountID, res.TransactionCount,
			res.OpeningBalance, res.OpeningDate.Format("2006-01-02"),
			res.FinalBalance, res.EntriesWritten)
	}
	cmd.Printf("Done: %d tenants, %d accounts backfilled, %d skipped\n",
		report.Tenants, report.Backfilled(), report.SkippedCount())
}

func newRebuildAccountCmd() *cobra.Command {
	var (
		schema         string
		accountID      string
		openingBalance string
		openingDate    string
		dryRun         bool
	)

	cmd := &cobra.Command{
		Use:   "rebuild-account",
		Short: "Destructively rebuild one account's ledger from a known opening balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			balance, err := decimal.NewFromString(openingBalance)
			if err != nil {
				return fmt.Errorf("invalid --openingBalance %q: %w", openingBalance, err)
			}

			var openingDatePtr *time.Time
			if openingDate != "" {
				parsed, err := time.Parse("2006-01-02", openingDate)
				if err != nil {
					return fmt.Errorf("invalid --openingDate %q: %w", openingDate, err)
				}
				openingDatePtr = &parsed
			}

			_, pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			uc := usecase.NewRebuildUseCase(
				postgresRepo.NewTenantRegistry(pool),
				postgresRepo.NewStoreFactory(pool),
				postgresRepo.NewULIDGenerator(),
				nil,
			)

			result, err := uc.Run(ctx, usecase.RebuildInput{
				Schema:         schema,
				AccountID:      accountID,
				OpeningBalance: balance,
				OpeningDate:    openingDatePtr,
				DryRun:         dryRun,
			})
			if err != nil {
				return err
			}

			if result.DryRun {
				cmd.Println("DRY RUN - nothing was written")
			}
			cmd.Printf("Account %s/%s\n", result.Schema, result.AccountID)
			cmd.Printf("  opening balance: %s on %s\n", result.OpeningBalance, result.OpeningDate.Format("2006-01-02"))
			cmd.Printf("  transactions:    %d (net impact %s)\n", result.TransactionCount, result.TotalImpact)
			cmd.Printf("  final balance:   %s\n", result.ResultingBalance)
			if !result.DryRun {
				cmd.Printf("  entries:         %d deleted, %d written\n", result.EntriesDeleted, result.EntriesWritten)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&schema, "schema", "", "tenant schema")
	cmd.Flags().StringVar(&accountID, "accountId", "", "bank account ID")
	cmd.Flags().StringVar(&openingBalance, "openingBalance", "", "authoritative opening balance, e.g. 1250.00")
	cmd.Flags().StringVar(&openingDate, "openingDate", "", "opening entry date (YYYY-MM-DD); inferred when omitted")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "compute and report without writing")
	_ = cmd.MarkFlagRequired("schema")
	_ = cmd.MarkFlagRequired("accountId")
	_ = cmd.MarkFlagRequired("openingBalance")

	return cmd
}

func newVerifyCmd() *cobra.Command {
	var (
		schema    string
		accountID string
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check stored ledger chains without modifying them",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			_, pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			uc := usecase.NewLedgerUseCase(
				postgresRepo.NewTenantRegistry(pool),
				postgresRepo.NewStoreFactory(pool),
			)

			if accountID != "" {
				result, err := uc.VerifyAccount(ctx, schema, accountID)
				if err != nil {
					return err
				}
				printConsistency(cmd, schema, result.AccountID, result.Consistent, result.Problems)
				if !result.Consistent {
					return fmt.Errorf("account %s is inconsistent", accountID)
				}
				return nil
			}

			all, err := uc.VerifyTenant(ctx, schema)
			if err != nil {
				return err
			}

			broken := 0
			for _, result := range all {
				printConsistency(cmd, schema, result.AccountID, result.Consistent, result.Problems)
				if !result.Consistent {
					broken++
				}
			}
			cmd.Printf("Checked %d accounts, %d inconsistent\n", len(all), broken)
			if broken > 0 {
				return fmt.Errorf("%d accounts are inconsistent", broken)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&schema, "schema", "", "tenant schema")
	cmd.Flags().StringVar(&accountID, "accountId", "", "check a single bank account")
	_ = cmd.MarkFlagRequired("schema")

	return cmd
}

func printConsistency(cmd *cobra.Command, schema, accountID string, consistent bool, problems []string) {
	if consistent {
		cmd.Printf("  %s/%s: OK\n", schema, accountID)
		return
	}
	cmd.Printf("  %s/%s: INCONSISTENT\n", schema, accountID)
	for _, problem := range problems {
		cmd.Printf("    - %s\n", problem)
	}
}

func newMigrateCmd() *cobra.Command {
	var schema string

	cmd := &cobra.Command{
		Use:   "migrate [up|down]",
		Short: "Apply or roll back database migrations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			path := cfg.SystemMigrationsPath
			if schema != "" {
				path = cfg.TenantMigrationsPath
			}

			switch args[0] {
			case "up":
				return postgres.RunMigrations(cfg.DatabaseURL, path, schema)
			case "down":
				return postgres.RunMigrationsDown(cfg.DatabaseURL, path, schema)
			default:
				return fmt.Errorf("unknown direction %q, want up or down", args[0])
			}
		},
	}

	cmd.Flags().StringVar(&schema, "schema", "", "run tenant migrations inside one schema; empty runs the shared system migrations")

	return cmd
}
