// econfetcher pulls macroeconomic indicator series (interest rate,
// inflation, unemployment) from public statistical APIs, normalizes them
// onto a monthly grid, and publishes the result to a remote document
// store without clobbering sections it did not refresh.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"econfetcher/internal/config"
	"econfetcher/internal/coordinator"
	"econfetcher/internal/docstore"
	"econfetcher/internal/fetcher"
	"econfetcher/internal/fred"
	"econfetcher/internal/series"
	"econfetcher/internal/worldbank"
)

// fetchTimeout bounds the whole batch; individual requests rely on the
// transport's defaults
const fetchTimeout = 2 * time.Minute

var (
	flagCountries []string
	flagWindow    int
	flagDryRun    bool
)

var rootCmd = &cobra.Command{
	Use:   "econfetcher",
	Short: "Fetch macroeconomic indicators and publish them to the document store",
	Long: `econfetcher refreshes interest rate, inflation, and unemployment series
for a set of countries from heterogeneous public data providers, derives
year-over-year inflation from raw price indexes, and merges the result
into the previously published document.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().StringSliceVar(&flagCountries, "countries", nil, "country codes to refresh (default: all configured)")
	rootCmd.Flags().IntVar(&flagWindow, "window", 0, "months of history to keep per series (default: from config)")
	rootCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "print the refreshed sections instead of publishing")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	window := cfg.WindowMonths
	if flagWindow > 0 {
		window = flagWindow
	}

	requested := cfg.Countries
	if len(flagCountries) > 0 {
		requested = flagCountries
	}
	countries, err := coordinator.FindCountries(requested)
	if err != nil {
		return err
	}
	if len(countries) == 0 {
		slog.Info("no countries selected, nothing to do")
		return nil
	}

	sources := map[string]fetcher.SeriesSource{
		coordinator.ProviderFRED:      fred.NewClient(cfg.FREDAPIKey, cfg.FREDBaseURL),
		coordinator.ProviderWorldBank: worldbank.NewClient(cfg.WorldBankBaseURL),
	}

	fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	// Index series lose the first YoYLag months to derivation, so fetch
	// that much extra history to fill the retention window.
	fetchWindow := fetcher.WindowEnding(time.Now(), window+series.YoYLag)

	coord := coordinator.New(sources, window)
	results := coord.FetchAll(fetchCtx, countries, fetchWindow)

	printSummary(results)

	if coordinator.TotalPoints(results) == 0 {
		return fmt.Errorf("no data fetched from any source")
	}

	partial := make(map[string]json.RawMessage, len(results))
	for code, result := range results {
		blob, err := json.Marshal(result)
		if err != nil {
			return fmt.Errorf("failed to encode result for %s: %w", code, err)
		}
		partial[code] = blob
	}

	if flagDryRun {
		preview, err := renderDryRun(partial, time.Now().UTC())
		if err != nil {
			return err
		}
		fmt.Println(string(preview))
		return nil
	}

	store := docstore.NewClient(cfg.DocStoreToken, cfg.DocStoreDocumentID, cfg.DocumentFile, cfg.DocStoreBaseURL)
	if err := store.Publish(fetchCtx, partial); err != nil {
		return fmt.Errorf("publish failed: %w", err)
	}

	slog.Info("published",
		"document_id", cfg.DocStoreDocumentID,
		"countries", len(results),
		"points", coordinator.TotalPoints(results))
	return nil
}

// renderDryRun previews what a publish would write: the refreshed
// sections merged against an empty base, lastUpdated stamp included.
// Sections a real publish would carry through from the prior document
// are not shown — a dry run issues no store requests.
func renderDryRun(partial map[string]json.RawMessage, now time.Time) ([]byte, error) {
	merged := docstore.Merge(nil, partial, now)
	preview, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode dry-run output: %w", err)
	}
	return preview, nil
}

// printSummary emits per-country point counts before the run's outcome is
// decided, so a log alone distinguishes healthy, degraded, and failed runs
func printSummary(results map[string]coordinator.CountryResult) {
	codes := make([]string, 0, len(results))
	for code := range results {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	fmt.Println("================================================")
	for _, code := range codes {
		r := results[code]
		fmt.Printf("%s (%s): interest_rate=%d inflation=%d unemployment=%d\n",
			code, r.Name, len(r.InterestRate), len(r.Inflation), len(r.Unemployment))
	}
	fmt.Println("================================================")
}
