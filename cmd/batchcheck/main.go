// Command batchcheck runs authenticity checks over a file of URLs, one per
// line, and writes the verdicts as JSON.
//
// Usage:
//
//	batchcheck -c 3 -d standard -o results.json urls.txt
//
// Lines starting with # are comments; blank lines are ignored.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/iammanoj/interestlens/authenticity"
	"github.com/iammanoj/interestlens/types"
)

type urlResult struct {
	URL          string                    `json:"url"`
	Status       string                    `json:"status"`
	Result       *types.AuthenticityResult `json:"result,omitempty"`
	Error        string                    `json:"error,omitempty"`
	ArticleTitle string                    `json:"article_title,omitempty"`
}

type batchOutput struct {
	Summary struct {
		TotalURLs              int     `json:"total_urls"`
		Successful             int     `json:"successful"`
		Failed                 int     `json:"failed"`
		TotalProcessingSeconds float64 `json:"total_processing_time_seconds"`
	} `json:"summary"`
	Results     []urlResult `json:"results"`
	ParseErrors []string    `json:"parse_errors,omitempty"`
}

func main() {
	_ = godotenv.Load()

	output := flag.String("o", "", "Output JSON file (default: stdout)")
	concurrent := flag.Int("c", 3, "Maximum concurrent checks")
	depth := flag.String("d", types.CheckDepthStandard, "Check depth: quick, standard or thorough")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: batchcheck [-o results.json] [-c 3] [-d standard] urls.txt")
		os.Exit(1)
	}

	content, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input file: %v\n", err)
		os.Exit(1)
	}

	urls, parseErrors := authenticity.ParseURLList(string(content))
	for _, e := range parseErrors {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", e)
	}
	if len(urls) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no valid URLs found in input file")
		os.Exit(1)
	}

	analyst := authenticity.NewAnthropicAnalystFromEnv()
	if analyst == nil {
		fmt.Fprintln(os.Stderr, "Error: ANTHROPIC_API_KEY is required for authenticity checks")
		os.Exit(1)
	}
	extractor := authenticity.NewReadabilityExtractor()
	checker := authenticity.NewChecker(analyst, extractor,
		authenticity.NewNewsSearcher(extractor), authenticity.NewMemoryStore())

	fmt.Fprintf(os.Stderr, "Checking %d URL(s), concurrency %d, depth %s\n\n", len(urls), *concurrent, *depth)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	results := make([]urlResult, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(*concurrent)
	for i, u := range urls {
		g.Go(func() error {
			results[i] = checkURL(gctx, checker, extractor, u, *depth)
			return nil
		})
	}
	_ = g.Wait()

	var out batchOutput
	out.Results = results
	out.ParseErrors = parseErrors
	out.Summary.TotalURLs = len(urls)
	for _, r := range results {
		if r.Status == "success" {
			out.Summary.Successful++
		} else {
			out.Summary.Failed++
		}
	}
	out.Summary.TotalProcessingSeconds = time.Since(start).Seconds()

	raw, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding results: %v\n", err)
		os.Exit(1)
	}

	if *output != "" {
		if err := os.WriteFile(*output, raw, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Results written to %s\n", *output)
	} else {
		fmt.Println(string(raw))
	}

	fmt.Fprintf(os.Stderr, "\nSummary: %d total, %d successful, %d failed in %.1fs\n",
		out.Summary.TotalURLs, out.Summary.Successful, out.Summary.Failed,
		out.Summary.TotalProcessingSeconds)
}

// checkURL extracts the article and runs the verification pipeline on it.
func checkURL(ctx context.Context, checker *authenticity.Checker, extractor authenticity.Extractor, url, depth string) urlResult {
	entry := urlResult{URL: url, Status: "error"}

	content, err := extractor.Extract(ctx, url)
	if err != nil || content.FullText == "" {
		entry.Error = "failed to extract article content"
		fmt.Fprintf(os.Stderr, "[batch] failed to extract: %s\n", url)
		return entry
	}

	result := checker.Check(ctx, types.CheckAuthenticityRequest{
		ItemID:     types.GenerateID(url),
		URL:        url,
		Text:       content.FullText,
		CheckDepth: depth,
	})

	entry.Status = "success"
	entry.Result = result
	entry.ArticleTitle = content.Title
	fmt.Fprintf(os.Stderr, "[batch] %s - score %d\n", url, result.AuthenticityScore)
	return entry
}
