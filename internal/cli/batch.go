package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/fastbunkai/internal/model"
	"github.com/ppiankov/fastbunkai/internal/render"
	"github.com/ppiankov/fastbunkai/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	userAgent    string
	httpProxy    string
	httpsProxy   string
	// noCache and insecureTLS are defined in segment.go and shared here
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Segment many documents listed in a file in parallel",
	Long: `Batch segments many documents concurrently:
- Read refs from the input file (one file path or URL per line, # comments)
- Load and segment them with a configurable worker count
- Rate limit URL fetches per domain and honour robots.txt
- Write <name>.json (layers and boundaries) and <name>.txt (one sentence
  per line) for each document

Example:
  fastbunkai batch refs.txt
  fastbunkai batch refs.txt --concurrency 10 --output-dir ./sentences
  fastbunkai batch refs.txt --concurrency 5 --timeout 5m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default from config)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./fastbunkai-output", "output directory for results")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")

	batchCmd.Flags().StringVar(&userAgent, "ua", "", "HTTP User-Agent (default from config)")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the segmentation cache")
	batchCmd.Flags().BoolVar(&insecureTLS, "insecure", false, "skip TLS certificate verification (use for self-signed certs)")
	batchCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	batchCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")
	batchCmd.Flags().StringVar(&policyFile, "policy", "", "boundary policy YAML (see 'fastbunkai config policy')")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyBatchFlags(cmd, cfg)

	a, err := newApp(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	workers := cfg.Concurrency.Workers
	stderr := cmd.ErrOrStderr()

	fmt.Fprintf(stderr, "\n")
	fmt.Fprintf(stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(stderr, "  FastBunkai Batch Segmentation\n")
	fmt.Fprintf(stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(stderr, "\n")
	fmt.Fprintf(stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(stderr, "  Workers:      %d\n", workers)
	fmt.Fprintf(stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(stderr, "  Cache:        %v\n", cfg.Cache.Enabled)
	fmt.Fprintf(stderr, "\n")

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	opts := []worker.BatchOption{worker.WithBatchLogger(a.logger.Named("batch"))}
	store, err := a.store()
	if err != nil {
		return err
	}
	if store != nil {
		opts = append(opts, worker.WithCache(store))
	}

	processor := worker.NewBatchProcessor(a.loader(), a.engine, workers, opts...)

	fmt.Fprintf(stderr, "⚙️  Segmenting documents with %d workers...\n", workers)
	fmt.Fprintf(stderr, "\n")

	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	successCount := 0
	failureCount := 0
	used := make(map[string]int)

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(stderr, "✗ %s: %v\n", result.Ref, result.Error)
			continue
		}

		slug := uniqueSlug(used, render.Slug(result.Document.Subject))
		jsonPath := filepath.Join(outputDir, slug+".json")
		txtPath := filepath.Join(outputDir, slug+".txt")

		if err := render.WriteJSONFile(jsonPath, result.Document.Text, result.Segmentation); err != nil {
			failureCount++
			fmt.Fprintf(stderr, "✗ %s: failed to write JSON: %v\n", result.Ref, err)
			continue
		}
		if err := render.WriteSentencesFile(txtPath, result.Sentences, cfg.Output.LinebreakPlaceholder); err != nil {
			failureCount++
			fmt.Fprintf(stderr, "✗ %s: failed to write sentences: %v\n", result.Ref, err)
			continue
		}

		successCount++
		note := ""
		if result.Cached {
			note = ", cached"
		}
		fmt.Fprintf(stderr, "✓ %s (%d sentences%s)\n", result.Document.Subject, len(result.Sentences), note)
	}

	fmt.Fprintf(stderr, "\n")
	fmt.Fprintf(stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(stderr, "  Batch Complete\n")
	fmt.Fprintf(stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(stderr, "\n")
	fmt.Fprintf(stderr, "  Total:     %d documents\n", len(results))
	fmt.Fprintf(stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(stderr, "\n")

	return nil
}

// applyBatchFlags lets explicitly set flags override the loaded config
func applyBatchFlags(cmd *cobra.Command, cfg *model.Config) {
	flags := cmd.Flags()
	if flags.Changed("concurrency") {
		cfg.Concurrency.Workers = concurrency
	}
	if cfg.Concurrency.Workers <= 0 {
		cfg.Concurrency.Workers = runtime.NumCPU()
	}
	if flags.Changed("ua") {
		cfg.HTTP.UserAgent = userAgent
	}
	if flags.Changed("no-cache") {
		cfg.Cache.Enabled = !noCache
	}
	if flags.Changed("insecure") {
		cfg.HTTP.InsecureTLS = insecureTLS
	}
	if flags.Changed("http-proxy") {
		cfg.HTTP.HTTPProxy = httpProxy
	}
	if flags.Changed("https-proxy") {
		cfg.HTTP.HTTPSProxy = httpsProxy
	}
	if flags.Changed("policy") {
		cfg.Engine.PolicyFile = policyFile
	}
}

// uniqueSlug suffixes repeated slugs so documents never overwrite each other
func uniqueSlug(used map[string]int, slug string) string {
	n := used[slug]
	used[slug] = n + 1
	if n == 0 {
		return slug
	}
	return fmt.Sprintf("%s-%d", slug, n+1)
}
