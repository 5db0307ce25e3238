// Command gastowise-cli is the on-device companion to the gastowise
// backend. It prefers the remote API and falls back to the local cache
// when the backend is unreachable, so every command works offline.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"gastowise/internal/cli"
	"gastowise/internal/client"
	"gastowise/internal/config"
	"gastowise/internal/core"
	"gastowise/internal/editor"
	"gastowise/internal/insights"
	"gastowise/internal/store/localdb"
	"gastowise/internal/store/remote"
)

func main() {
	logger := cli.SetupLogger()
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig(logger)

	cache, err := localdb.New(cfg.LocalDataDir)
	if err != nil {
		logger.Error("Failed to open local cache", "error", err, "dir", cfg.LocalDataDir)
		os.Exit(1)
	}

	svc := client.NewService(remote.New(cfg.APIBaseURL), cache)
	ctx := context.Background()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "status":
		probeCtx, cancel := context.WithTimeout(ctx, cfg.ProbeTimeout)
		defer cancel()
		if svc.Online(probeCtx) {
			fmt.Println("online:", cfg.APIBaseURL)
		} else {
			fmt.Println("offline: usando datos locales")
		}

	case "categories":
		runCategories(ctx, svc, os.Args[2:])

	case "expenses":
		runExpenses(ctx, svc, cfg, os.Args[2:])

	case "summary":
		expenses := svc.Expenses(ctx)
		sum := core.Summarize(expenses)
		fmt.Printf("%d gastos, total %s€\n", sum.Count, sum.Total)
		for _, row := range sum.ByCategory {
			fmt.Printf("  %-20s %s€\n", row.Name, row.Amount)
		}

	case "insights":
		runInsights(ctx, svc, cfg.GeminiAPIKey, cfg.GeminiModel)

	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: gastowise-cli <command>

commands:
  status                         probe the backend
  categories list                show categories and subcategories
  categories add -name N         add a category
  categories rename -id I -name N
  categories move -from I -to J  reorder categories
  categories delete -id I
  expenses list                  show expenses, newest first
  expenses add -amount A -category C [-sub S] [-desc D] [-date YYYY-MM-DD]
  expenses delete -id I
  summary                        totals by category
  insights                       AI spending advice`)
}

func runCategories(ctx context.Context, svc *client.Service, args []string) {
	if len(args) == 0 {
		args = []string{"list"}
	}

	switch args[0] {
	case "list":
		for _, c := range svc.Categories(ctx) {
			fmt.Printf("%s  %s\n", c.ID, c.Name)
			for _, sub := range c.SubCategories {
				fmt.Printf("      - %s\n", sub)
			}
		}

	case "add":
		fs := flag.NewFlagSet("categories add", flag.ExitOnError)
		name := fs.String("name", "", "category name")
		fs.Parse(args[1:])
		ed := editor.New(svc.Categories(ctx), svc)
		ed.AddCategory(ctx, *name)

	case "rename":
		fs := flag.NewFlagSet("categories rename", flag.ExitOnError)
		id := fs.String("id", "", "category id")
		name := fs.String("name", "", "new name")
		fs.Parse(args[1:])
		ed := editor.New(svc.Categories(ctx), svc)
		ed.StartRename(*id)
		ed.CommitRename(ctx, *name)

	case "move":
		fs := flag.NewFlagSet("categories move", flag.ExitOnError)
		from := fs.Int("from", -1, "source position")
		to := fs.Int("to", -1, "target position")
		fs.Parse(args[1:])
		ed := editor.New(svc.Categories(ctx), svc)
		ed.BeginCategoryDrag(*from)
		ed.DropCategory(ctx, *to)

	case "delete":
		fs := flag.NewFlagSet("categories delete", flag.ExitOnError)
		id := fs.String("id", "", "category id")
		fs.Parse(args[1:])
		ed := editor.New(svc.Categories(ctx), svc)
		ed.DeleteCategory(ctx, *id)

	default:
		usage()
		os.Exit(2)
	}
}

func runExpenses(ctx context.Context, svc *client.Service, cfg *config.Config, args []string) {
	if len(args) == 0 {
		args = []string{"list"}
	}

	switch args[0] {
	case "list":
		for _, e := range svc.Expenses(ctx) {
			fmt.Println(e.Summary())
		}

	case "add":
		fs := flag.NewFlagSet("expenses add", flag.ExitOnError)
		amount := fs.String("amount", "", "amount, e.g. 12.50")
		category := fs.String("category", "", "category id or name")
		sub := fs.String("sub", "", "subcategory")
		desc := fs.String("desc", "", "description")
		date := fs.String("date", "", "date (YYYY-MM-DD), defaults to today")
		fs.Parse(args[1:])

		exp, err := buildExpense(ctx, svc, *amount, *category, *sub, *desc, *date)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
		svc.AddExpense(ctx, exp)
		fmt.Println("registrado:", exp.ID)
		autoRefreshInsights(ctx, svc, cfg)

	case "delete":
		fs := flag.NewFlagSet("expenses delete", flag.ExitOnError)
		id := fs.String("id", "", "expense id")
		fs.Parse(args[1:])
		svc.DeleteExpense(ctx, *id)
		fmt.Println("eliminado:", *id)

	default:
		usage()
		os.Exit(2)
	}
}

func buildExpense(ctx context.Context, svc *client.Service, amount, category, sub, desc, date string) (core.Expense, error) {
	money, err := core.ParseAmount(amount)
	if err != nil {
		return core.Expense{}, err
	}
	if date == "" {
		date = core.Today()
	}

	exp := core.Expense{
		ID:          core.NewID("exp"),
		Amount:      money,
		SubCategory: sub,
		Description: desc,
		Date:        date,
	}

	// Accept either a category id or its display name.
	for _, c := range svc.Categories(ctx) {
		if c.ID == category || c.Name == category {
			exp.CategoryID = c.ID
			exp.CategoryName = c.Name
			break
		}
	}
	if exp.CategoryID == "" {
		return core.Expense{}, fmt.Errorf("categoría desconocida: %q", category)
	}

	if err := exp.Validate(); err != nil {
		return core.Expense{}, err
	}
	return exp, nil
}

func runInsights(ctx context.Context, svc *client.Service, apiKey, model string) {
	expenses := svc.Expenses(ctx)
	if !insights.CanRefresh(len(expenses)) {
		fmt.Printf("registra al menos %d gastos para recibir consejos\n", insights.MinExpenses)
		return
	}

	gen, err := insights.NewGemini(apiKey, model)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	printInsights(ctx, gen, expenses)
}

// autoRefreshInsights fires after a recorded expense when the count crosses
// the refresh boundary, mirroring the automatic advice the web UI shows.
// Without an API key it stays silent.
func autoRefreshInsights(ctx context.Context, svc *client.Service, cfg *config.Config) {
	if cfg.GeminiAPIKey == "" {
		return
	}
	expenses := svc.Expenses(ctx)
	if !insights.ShouldAutoRefresh(len(expenses)) {
		return
	}
	gen, err := insights.NewGemini(cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		return
	}
	printInsights(ctx, gen, expenses)
}

func printInsights(ctx context.Context, gen insights.Generator, expenses []core.Expense) {
	for _, in := range insights.NewAdvisor(gen).Insights(ctx, expenses) {
		fmt.Printf("[%s] %s\n    %s\n", in.Type, in.Title, in.Description)
	}
}
