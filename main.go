package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"route-compare/internal/comparator"
	"route-compare/internal/input"
	"route-compare/internal/models"
	"route-compare/internal/provider"
	"route-compare/internal/report"
	"route-compare/internal/web"

	"github.com/joho/godotenv"
)

func main() {
	// Keys may come from a .env file; flags take precedence.
	_ = godotenv.Load()

	var (
		inputPath     string
		outputPath    string
		directionsKey string
		routesKey     string
		workers       int
		serve         bool
		port          string
	)

	flag.StringVar(&inputPath, "input", "", "input CSV/Excel file with geohash pairs")
	flag.StringVar(&inputPath, "i", "", "shorthand for -input")
	flag.StringVar(&outputPath, "output", "", "output CSV file (workbook path is derived; auto-named when omitted)")
	flag.StringVar(&outputPath, "o", "", "shorthand for -output")
	flag.StringVar(&directionsKey, "directions-key", os.Getenv("DIRECTIONS_API_KEY"), "Directions API key")
	flag.StringVar(&routesKey, "routes-key", os.Getenv("ROUTES_API_KEY"), "Routes API key")
	flag.IntVar(&workers, "workers", 4, "max in-flight row comparisons")
	flag.BoolVar(&serve, "serve", false, "run the web UI instead of a one-shot batch")
	flag.StringVar(&port, "port", envOr("PORT", "9595"), "web UI port (with -serve)")
	flag.Parse()

	if serve {
		runServe(port, directionsKey, routesKey)
		return
	}

	if inputPath == "" {
		fatalUsage("missing required flag: -input")
	}
	if directionsKey == "" {
		fatalUsage("missing required flag: -directions-key (or DIRECTIONS_API_KEY)")
	}
	if routesKey == "" {
		fatalUsage("missing required flag: -routes-key (or ROUTES_API_KEY)")
	}

	csvPath, xlsxPath := outputPaths(outputPath)

	pairs, err := input.ReadPairs(inputPath)
	if err != nil {
		log.Fatalf("reading input: %v", err)
	}
	if len(pairs) == 0 {
		log.Fatalf("reading input: %s has no usable geohash pairs", inputPath)
	}

	cmp := comparator.New(
		provider.NewDirectionsClient(directionsKey),
		provider.NewRoutesClient(routesKey),
	)

	start := time.Now()
	records, summary := comparator.RunBatch(context.Background(), cmp, pairs, workers,
		func(current, total int, msg string) {
			if msg != "" {
				fmt.Println(msg)
			}
		},
		func(msg string) {
			fmt.Println(msg)
		})

	if err := report.Write(records, summary, csvPath, xlsxPath); err != nil {
		log.Fatalf("writing output: %v", err)
	}

	fmt.Printf("\nResults saved to:\n")
	fmt.Printf("  CSV:      %s\n", csvPath)
	fmt.Printf("  Workbook: %s\n", xlsxPath)
	fmt.Printf("Processed %d pairs in %s (%d with both providers OK, %d decode failures)\n",
		summary.TotalRows, time.Since(start).Round(time.Millisecond),
		summary.BothSucceeded, summary.DecodeFailures)
	fmt.Println("Comparison summary:")
	printDiffLine("distance diff (m)", summary.DistanceDiff)
	printDiffLine("duration diff (s)", summary.DurationDiff)
	printDiffLine("response time diff (ms)", summary.RespTimeDiff)
}

func runServe(port, directionsKey, routesKey string) {
	cfg := web.Config{
		Port:          port,
		User:          envOr("WEB_USER", "admin"),
		Pass:          os.Getenv("WEB_PASS"),
		SecretKey:     envOr("WEB_SECRET", "route-compare-session-secret"),
		DirectionsKey: directionsKey,
		RoutesKey:     routesKey,
	}
	if cfg.Pass == "" {
		log.Fatal("web mode requires WEB_PASS to be set")
	}

	server := web.NewServer(cfg, func(dKey, rKey string) *comparator.Comparator {
		return comparator.New(
			provider.NewDirectionsClient(dKey),
			provider.NewRoutesClient(rKey),
		)
	})
	if err := server.Run(); err != nil {
		log.Fatalf("web server: %v", err)
	}
}

// outputPaths derives both targets from -output, or generates timestamped
// names when it is omitted.
func outputPaths(output string) (csvPath, xlsxPath string) {
	if output == "" {
		stamp := time.Now().Format("20060102_150405")
		return fmt.Sprintf("comparison_%s.csv", stamp), fmt.Sprintf("comparison_%s.xlsx", stamp)
	}
	base := strings.TrimSuffix(output, ".csv")
	return base + ".csv", base + ".xlsx"
}

func printDiffLine(name string, stats models.FieldStats) {
	if stats.Count == 0 {
		fmt.Printf("  %s: no rows with both values present\n", name)
		return
	}
	fmt.Printf("  %s: n=%d mean=%.2f median=%.2f max=%.2f\n",
		name, stats.Count, stats.Mean, stats.Median, stats.Max)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func fatalUsage(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	flag.Usage()
	os.Exit(2)
}
