package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/fastbunkai/internal/cache"
	"github.com/ppiankov/fastbunkai/internal/input"
	"github.com/ppiankov/fastbunkai/internal/model"
	"github.com/ppiankov/fastbunkai/internal/render"
	"github.com/ppiankov/fastbunkai/pkg/bunkai"
)

// maxLineBytes bounds one line of line-oriented input
const maxLineBytes = 64 * 1024 * 1024

var (
	format      string
	layerFilter []string
	urlRefs     []string
	fileRefs    []string
	htmlInput   bool
	policyFile  string
	timeout     time.Duration
	noCache     bool
	insecureTLS bool
)

// segmentCmd represents the segment command
var segmentCmd = &cobra.Command{
	Use:   "segment [text]...",
	Short: "Split text into sentences",
	Long: `Segment splits text into sentences.

Each argument is one input. Without arguments every line read from stdin
is one input. The line break placeholder (default "▁") stands for a
newline inside an input. In text format each input is printed on one
line with its sentences joined by the separator (default "│").

--url and --file load whole documents instead ("-" as a file is all of
stdin); --html reads all of stdin as one HTML page. HTML is reduced to its
visible text. In text format a document is printed one sentence per line.

Example:
  fastbunkai segment "こんにちは。ありがとう。"
  echo "改行を▁含む文章です。" | fastbunkai segment -f json
  fastbunkai segment --file novel.txt --format boundaries
  fastbunkai segment --url https://ja.wikipedia.org/wiki/文 --format tokens
  curl -s https://example.com | fastbunkai segment --html`,
	RunE: runSegment,
}

func init() {
	rootCmd.AddCommand(segmentCmd)

	segmentCmd.Flags().StringVarP(&format, "format", "f", "", "output format: text, json, boundaries, tokens (default from config)")
	segmentCmd.Flags().StringSliceVar(&layerFilter, "layers", nil, "layers to include in json output (default all)")
	segmentCmd.Flags().StringArrayVarP(&urlRefs, "url", "u", nil, "URL to fetch and segment as one document (repeatable)")
	segmentCmd.Flags().StringArrayVar(&fileRefs, "file", nil, "file to segment as one document, - for stdin (repeatable)")
	segmentCmd.Flags().BoolVar(&htmlInput, "html", false, "read stdin as one HTML document")
	segmentCmd.Flags().StringVar(&policyFile, "policy", "", "boundary policy YAML (see 'fastbunkai config policy')")
	segmentCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall timeout for loading documents")
	segmentCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the segmentation cache")
	segmentCmd.Flags().BoolVar(&insecureTLS, "insecure", false, "skip TLS certificate verification (use for self-signed certs)")
}

func runSegment(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applySegmentFlags(cmd, cfg)

	a, err := newApp(cfg)
	if err != nil {
		return err
	}

	out := bufio.NewWriter(cmd.OutOrStdout())
	defer out.Flush()

	r, err := render.NewRenderer(out, cfg.Output, layerFilter...)
	if err != nil {
		return err
	}

	refs := append(slices.Clone(fileRefs), urlRefs...)
	switch {
	case htmlInput:
		return a.segmentHTML(cmd.InOrStdin(), r, out)
	case len(refs) > 0:
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()
		return a.segmentDocuments(ctx, refs, r, out, input.WithStdin(cmd.InOrStdin()))
	case len(args) > 0:
		return segmentTexts(args, r, a.engine)
	default:
		return segmentLines(cmd.InOrStdin(), r, a.engine)
	}
}

// applySegmentFlags lets explicitly set flags override the loaded config
func applySegmentFlags(cmd *cobra.Command, cfg *model.Config) {
	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Output.Format = format
	}
	if flags.Changed("policy") {
		cfg.Engine.PolicyFile = policyFile
	}
	if flags.Changed("no-cache") {
		cfg.Cache.Enabled = !noCache
	}
	if flags.Changed("insecure") {
		cfg.HTTP.InsecureTLS = insecureTLS
	}
}

// segmentTexts renders one record per argument
func segmentTexts(texts []string, r *render.Renderer, engine *bunkai.Engine) error {
	for _, arg := range texts {
		text := r.DecodeLine(arg)
		if err := r.Render(text, engine.Segment(text)); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
	return nil
}

// segmentLines renders one record per input line
func segmentLines(in io.Reader, r *render.Renderer, engine *bunkai.Engine) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for scanner.Scan() {
		text := r.DecodeLine(strings.TrimSuffix(scanner.Text(), "\r"))
		if err := r.Render(text, engine.Segment(text)); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}

// segmentDocuments loads each ref as a whole document and renders it
func (a *app) segmentDocuments(ctx context.Context, refs []string, r *render.Renderer, out io.Writer, opts ...input.LoaderOption) error {
	store, err := a.store()
	if err != nil {
		return err
	}
	loader := a.loader(opts...)

	for _, ref := range refs {
		doc, err := loader.Load(ctx, ref)
		if err != nil {
			return fmt.Errorf("load %s: %w", ref, err)
		}

		seg, cached := a.segment(store, doc.Text)
		a.logger.Debug("segmented document", "ref", ref, "kind", doc.Kind, "boundaries", len(seg.FinalBoundaries), "cached", cached)

		if err := a.writeDocument(doc.Text, seg, r, out); err != nil {
			return err
		}
	}
	return nil
}

// segmentHTML reads one HTML page from in and renders its visible text
func (a *app) segmentHTML(in io.Reader, r *render.Renderer, out io.Writer) error {
	text, err := input.VisibleText(in)
	if err != nil {
		return err
	}
	return a.writeDocument(text, a.engine.Segment(text), r, out)
}

// writeDocument prints text one sentence per line in text format and
// a single record otherwise
func (a *app) writeDocument(text string, seg model.Segmentation, r *render.Renderer, out io.Writer) error {
	if r.Format() != render.FormatText {
		if err := r.Render(text, seg); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		return nil
	}

	placeholder := a.cfg.Output.LinebreakPlaceholder
	for _, sentence := range bunkai.Split(text, seg.FinalBoundaries) {
		if placeholder != "" {
			sentence = strings.ReplaceAll(sentence, "\n", placeholder)
		}
		if _, err := fmt.Fprintln(out, sentence); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
	return nil
}

// segment runs the engine through the cache when one is configured
func (a *app) segment(store *cache.Segmentations, text string) (model.Segmentation, bool) {
	if store == nil {
		return a.engine.Segment(text), false
	}
	seg, hit, err := store.GetOrCompute(text, a.engine.Segment)
	if err != nil {
		a.logger.Warn("cache store failed", "error", err)
	}
	return seg, hit
}
