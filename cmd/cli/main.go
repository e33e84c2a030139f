package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/iho/gomovements/internal/infrastructure/config"
	"github.com/iho/gomovements/internal/infrastructure/postgres"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gomovements-cli",
		Short: "GoMovements CLI tool",
		Long:  `A command line interface for interacting with the GoMovements API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the GoMovements API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	// Movement commands
	movementsCmd := &cobra.Command{
		Use:   "movements",
		Short: "Movement operations",
	}

	var listLimit, listOffset int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List movements",
		Run: func(cmd *cobra.Command, args []string) {
			listMovements(listLimit, listOffset)
		},
	}
	listCmd.Flags().IntVar(&listLimit, "limit", 20, "Maximum movements to list")
	listCmd.Flags().IntVar(&listOffset, "offset", 0, "Listing offset")

	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Get a movement by ID",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/movements/" + args[0])
		},
	}

	ledgerCmd := &cobra.Command{
		Use:   "ledger <id>",
		Short: "Get a movement's ledger entry",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/movements/" + args[0] + "/ledger")
		},
	}

	historyCmd := &cobra.Command{
		Use:   "history <id>",
		Short: "List a movement's history snapshots",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/movements/" + args[0] + "/history")
		},
	}

	movementsCmd.AddCommand(listCmd, getCmd, ledgerCmd, historyCmd)
	rootCmd.AddCommand(movementsCmd)

	consistencyCmd := &cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency",
		Run: func(cmd *cobra.Command, args []string) {
			checkConsistency()
		},
	}
	rootCmd.AddCommand(consistencyCmd)

	// Migration commands run against the database directly
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	migrateUpCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Run: func(cmd *cobra.Command, args []string) {
			runMigrations(false)
		},
	}

	migrateDownCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back all migrations",
		Run: func(cmd *cobra.Command, args []string) {
			runMigrations(true)
		},
	}

	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)
	rootCmd.AddCommand(migrateCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func checkConsistency() {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + "/api/v1/consistency")
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Consistency check FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	if consistent, ok := result["consistent"].(bool); ok && !consistent {
		fmt.Printf("Consistency check FAILED\n")
		printJSON(result["discrepancies"])
		os.Exit(1)
	}

	fmt.Printf("Consistency check PASSED\n")
	fmt.Printf("Movements checked: %v\n", result["movements_checked"])
}

func listMovements(limit, offset int) {
	client := &http.Client{Timeout: timeout}
	url := fmt.Sprintf("%s/api/v1/movements/?limit=%d&offset=%d", baseURL, limit, offset)
	resp, err := client.Get(url)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var movements []map[string]any
	if err := json.Unmarshal(body, &movements); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%-28s %-10s %-12s %-8s %-12s %s\n", "ID", "KIND", "DATE", "STATE", "TOTAL", "CONTACT")
	for _, m := range movements {
		date, _ := m["date"].(string)
		fmt.Printf("%-28s %-10s %-12s %-8s %-12v %v\n",
			truncate(fmt.Sprint(m["id"]), 28),
			truncate(fmt.Sprint(m["kind"]), 10),
			truncate(date, 12),
			truncate(fmt.Sprint(m["state"]), 8),
			m["total"],
			m["contact_id"],
		)
	}
}

func getJSON(path string) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var result any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	printJSON(result)
}

func runMigrations(down bool) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if down {
		err = postgres.RunMigrationsDown(cfg.DatabaseURL, cfg.MigrationsPath)
	} else {
		err = postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath)
	}
	if err != nil {
		fmt.Printf("Migration failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Migrations complete")
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("Failed to format output: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(string(out))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}

	return s[:max-3] + "..."
}
