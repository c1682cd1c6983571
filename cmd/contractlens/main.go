// Command contractlens runs a single seller/buyer comparison from the
// command line and prints the analysis report.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Zenyi1/ContractLens/internal/compare"
	"github.com/Zenyi1/ContractLens/internal/store"
)

func main() {
	_ = godotenv.Load()

	var (
		company = flag.String("company", "", "Company name substituted for the generic Seller")
		dbPath  = flag.String("db", envOr("CONTRACTLENS_DB", ""), "Optional SQLite database; used to look up company priorities by name")
		output  = flag.String("o", "", "Write the report to this file instead of stdout")
		budget  = flag.Int("token-budget", compare.DefaultTokenBudget, "Per-chunk token target")
	)
	flag.Parse()

	if flag.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "usage: contractlens [flags] <seller.pdf> <buyer.pdf>")
		flag.PrintDefaults()
		os.Exit(2)
	}
	sellerPath, buyerPath := flag.Arg(0), flag.Arg(1)

	sellerPDF, err := os.ReadFile(sellerPath)
	if err != nil {
		log.Fatal(err)
	}
	buyerPDF, err := os.ReadFile(buyerPath)
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	priorities := loadPriorities(ctx, *dbPath, *company)

	caller, err := compare.NewAnthropicCallerFromEnv()
	if err != nil {
		log.Fatal(err)
	}
	pipeline := compare.NewPipeline(compare.NewClauseTransformer(caller)).WithTokenBudget(*budget)

	result, err := pipeline.Compare(ctx, compare.Request{
		SellerPDF:      sellerPDF,
		BuyerPDF:       buyerPDF,
		SellerFilename: sellerPath,
		BuyerFilename:  buyerPath,
		CompanyName:    *company,
		Priorities:     priorities,
	})
	if err != nil {
		log.Fatalf("comparison failed (stage=%s): %v", compare.StageNameFromError(err), err)
	}

	if dropped := result.DroppedBuyerChunks + result.DroppedSellerChunks; dropped > 0 {
		log.Printf("warning: %d chunk(s) had no counterpart and were not analyzed", dropped)
	}
	log.Printf("analyzed %d clause pair(s) with %d LLM call(s) in %s",
		result.BuyerChunks-result.DroppedBuyerChunks, result.TotalLLMCalls,
		result.CompletedAt.Sub(result.StartedAt).Round(time.Millisecond))

	if *output != "" {
		if err := os.WriteFile(*output, []byte(result.Summary+"\n"), 0o644); err != nil {
			log.Fatal(err)
		}
		return
	}
	fmt.Println(result.Summary)
}

// loadPriorities fetches stored priorities for the named company when a
// database is configured. Lookup failures degrade to a priority-free run.
func loadPriorities(ctx context.Context, dbPath, company string) []compare.CompanyPriority {
	if dbPath == "" || company == "" {
		return nil
	}
	st, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		log.Printf("warning: open database: %v", err)
		return nil
	}
	defer st.Close()

	profile, err := st.GetCompanyByName(ctx, company)
	if err != nil {
		log.Printf("warning: company %q not in database, running without priorities", company)
		return nil
	}
	stored, err := st.ListPriorities(ctx, profile.ID)
	if err != nil {
		log.Printf("warning: load priorities: %v", err)
		return nil
	}
	out := make([]compare.CompanyPriority, 0, len(stored))
	for _, p := range stored {
		out = append(out, compare.CompanyPriority{Name: p.Name, Description: p.Description})
	}
	return out
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
