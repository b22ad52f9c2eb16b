package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/spendwise/spendwise/internal/analyze"
	"github.com/spendwise/spendwise/internal/categorize"
	"github.com/spendwise/spendwise/internal/domain"
	"github.com/spendwise/spendwise/internal/ingest"
	"github.com/spendwise/spendwise/internal/logger"
)

// The CLI runs the full pipeline offline over a local CSV statement. It
// needs no database and no network; learned patterns are not persisted.
func main() {
	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "analyze":
		runAnalyze(log)
	case "categorize":
		runCategorize(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("SpendWise CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> <statement.csv>")
	fmt.Println("\nCommands:")
	fmt.Println("  analyze     Categorize a statement and print recurring charges and insights")
	fmt.Println("  categorize  Categorize a statement and print each transaction")
	fmt.Println("  help        Show this help message")
}

func loadStatement(log zerolog.Logger) []domain.Transaction {
	if len(os.Args) < 3 {
		log.Fatal().Msg("Error: statement file path is required")
	}
	path := os.Args[2]

	f, err := os.Open(path)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("Failed to open statement")
	}
	defer f.Close()

	result, err := ingest.ParseCSV(f, "local", "local")
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("Failed to parse statement")
	}
	if result.Skipped > 0 {
		log.Warn().Int("skipped", result.Skipped).Msg("Some rows could not be parsed")
	}

	categorizer := categorize.New(categorize.DefaultRules(), nil)
	for i := range result.Transactions {
		t := &result.Transactions[i]
		res := categorizer.Categorize(t.Description)
		t.Category = res.Category
		t.Subcategory = res.Subcategory
		t.Tag = analyze.PredictTag(*t)
	}

	return result.Transactions
}

func runCategorize(log zerolog.Logger) {
	transactions := loadStatement(log)

	for _, t := range transactions {
		fmt.Printf("%s  %10.2f  %-18s %-20s %-13s %s\n",
			t.PostedDate.Format("2006-01-02"), t.Amount, t.Category, t.Subcategory, t.Tag, t.Description)
	}
	fmt.Printf("\n%d transactions\n", len(transactions))
}

func runAnalyze(log zerolog.Logger) {
	transactions := loadStatement(log)

	recurring := analyze.DetectRecurring(transactions)
	if len(recurring) > 0 {
		fmt.Println("Recurring charges:")
		for _, r := range recurring {
			fmt.Printf("  %-20s %8.2f  next ~%s\n", r.Name, r.Amount, r.NextDate.Format("2006-01-02"))
		}
		fmt.Println()
	}

	insights := analyze.GeneratePersonalized(analyze.Input{
		Transactions:   transactions,
		AcceptanceRate: 1,
		Now:            time.Now(),
	})
	if len(insights) == 0 {
		fmt.Println("No insights for this statement.")
		return
	}

	fmt.Println("Insights:")
	for _, in := range insights {
		fmt.Printf("  [%.2f] %s\n         %s\n", in.ConfidenceScore, in.Title, in.Message)
		for _, advice := range in.ActionableAdvice {
			fmt.Printf("         - %s\n", advice)
		}
	}
}
