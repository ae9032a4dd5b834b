package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"mrportal/adapters/db"
	"mrportal/adapters/excel"
	"mrportal/app"
	"mrportal/domain/aggregation"
	"mrportal/internal/config"
	"mrportal/internal/migration"
	"mrportal/models"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "mrportal-cli",
		Short: "MR portal CLI for spreadsheet aggregation and administration",
	}

	rootCmd.AddCommand(
		newAggregateCmd(),
		newTabulateCmd(),
		newMigrateCmd(),
		newUserCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newAggregateCmd() *cobra.Command {
	var (
		sheet         string
		statusColumn  string
		yearColumn    string
		yearMode      string
		years         string
		natureza      string
		itemColumn    string
		itemNotEquals string
		statusExclude []string
		completed     []string
		canceled      []string
		precision     int
	)

	cmd := &cobra.Command{
		Use:   "aggregate [file]",
		Short: "Aggregate a spreadsheet into completed, canceled and in-progress counts",
		Long: `Read a .xlsx or .csv file and print the status aggregation as JSON.

Example: mrportal-cli aggregate base.xlsx --status-column "Status" --years 2024-2025`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := aggregation.ParseYearMode(yearMode)
			if err != nil {
				return err
			}
			yearList, err := parseYearSpec(years)
			if err != nil {
				return err
			}

			ds, err := excel.FileReader{}.ReadFile(args[0], sheet)
			if err != nil {
				return err
			}

			result := aggregation.Aggregate(ds, aggregation.Options{
				StatusColumn: statusColumn,
				YearColumn:   yearColumn,
				YearMode:     mode,
				Years:        yearList,
				Filters: aggregation.Filters{
					Natureza:      natureza,
					ItemColumn:    itemColumn,
					ItemNotEquals: itemNotEquals,
					StatusExclude: statusExclude,
				},
				Classifier: aggregation.NewClassifier(completed, canceled),
				Precision:  precision,
			})
			if result.HasWarning() {
				fmt.Fprintln(os.Stderr, "warning:", result.Warning)
			}
			return printJSON(result)
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "", "Worksheet name (first sheet when empty)")
	cmd.Flags().StringVar(&statusColumn, "status-column", app.DefaultStatusColumn, "Status column header")
	cmd.Flags().StringVar(&yearColumn, "year-column", aggregation.DefaultYearColumn, "Year column header")
	cmd.Flags().StringVar(&yearMode, "year-mode", string(aggregation.YearModeDefault), "Year parse mode: default, last4 or extract_year")
	cmd.Flags().StringVar(&years, "years", "", "Years as a list (2024,2025) or a range (2024-2026); defaults to the reporting range")
	cmd.Flags().StringVar(&natureza, "natureza", "", "Keep only rows with this operation nature")
	cmd.Flags().StringVar(&itemColumn, "item-column", "", "Item column used with --item-not-equals")
	cmd.Flags().StringVar(&itemNotEquals, "item-not-equals", "", "Drop rows whose item equals this value")
	cmd.Flags().StringSliceVar(&statusExclude, "status-exclude", nil, "Statuses to drop before counting")
	cmd.Flags().StringSliceVar(&completed, "completed", nil, "Statuses counted as completed (substring match on \"concluído\" when empty)")
	cmd.Flags().StringSliceVar(&canceled, "canceled", nil, "Statuses counted as canceled")
	cmd.Flags().IntVar(&precision, "precision", 2, "Decimals kept in percentages (0 keeps full precision)")

	return cmd
}

func newTabulateCmd() *cobra.Command {
	var sheet, parent, child string

	cmd := &cobra.Command{
		Use:   "tabulate [file]",
		Short: "Count rows by macro and micro process",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := excel.FileReader{}.ReadFile(args[0], sheet)
			if err != nil {
				return err
			}
			groups, err := aggregation.TabulateHierarchy(ds, parent, child)
			if err != nil {
				return err
			}
			return printJSON(groups)
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "", "Worksheet name (first sheet when empty)")
	cmd.Flags().StringVar(&parent, "parent", "Macroprocesso", "Parent column header")
	cmd.Flags().StringVar(&child, "child", "Microprocesso", "Child column header")

	return cmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			conn, err := openDatabase(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer conn.Close()
			fmt.Printf("Schema at version %s\n", migration.NewRunner().Version())
			return nil
		},
	}
}

func newUserCmd() *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage portal users",
	}

	var req app.CreateUserRequest
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user and print its TOTP enrollment URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			conn, err := openDatabase(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer conn.Close()

			created, err := app.NewUserService(db.NewUserRepository(conn)).Create(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Printf("Created %s (%s)\n", created.User.Email, created.User.Role)
			fmt.Printf("TOTP secret: %s\nTOTP URL: %s\n", created.TOTPSecret, created.TOTPURL)
			return nil
		},
	}
	createCmd.Flags().StringVar(&req.Email, "email", "", "User email")
	createCmd.Flags().StringVar(&req.Nome, "nome", "", "Display name")
	createCmd.Flags().StringVar(&req.Senha, "senha", "", "Initial password")
	createCmd.Flags().StringVar(&req.Role, "role", models.RoleUser, "Role (user or dev-master)")
	_ = createCmd.MarkFlagRequired("email")
	_ = createCmd.MarkFlagRequired("nome")
	_ = createCmd.MarkFlagRequired("senha")

	userCmd.AddCommand(createCmd)
	return userCmd
}

// openDatabase connects with the configured driver and applies pending migrations.
func openDatabase(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	conn, err := db.Open(cfg.Database.Driver, cfg.Database.Path, cfg.Database.URL)
	if err != nil {
		return nil, err
	}
	if err := migration.NewRunner().Run(ctx, conn); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

const maxYearSpan = 100

// parseYearSpec accepts "2024,2025" or "2024-2026". Empty yields the default reporting range.
func parseYearSpec(spec string) ([]int, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return app.NewEnelDataService(nil, nil).DefaultYears(), nil
	}
	if from, to, ok := strings.Cut(spec, "-"); ok {
		start, err := strconv.Atoi(strings.TrimSpace(from))
		if err != nil {
			return nil, fmt.Errorf("invalid year %q", from)
		}
		end, err := strconv.Atoi(strings.TrimSpace(to))
		if err != nil {
			return nil, fmt.Errorf("invalid year %q", to)
		}
		if end-start > maxYearSpan {
			return nil, fmt.Errorf("year range %d-%d spans more than %d years", start, end, maxYearSpan)
		}
		return app.YearRange(start, end), nil
	}

	var years []int
	for _, part := range strings.Split(spec, ",") {
		year, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid year %q", part)
		}
		years = append(years, year)
	}
	return years, nil
}

func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
