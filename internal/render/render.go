// Package render writes segmentation results in the CLI output formats.
package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/fastbunkai/internal/model"
	"github.com/ppiankov/fastbunkai/internal/rules"
	"github.com/ppiankov/fastbunkai/internal/token"
	"github.com/ppiankov/fastbunkai/pkg/bunkai"
)

// ErrUnknownFormat is returned for an unsupported output format
var ErrUnknownFormat = errors.New("unknown output format")

// Format selects how each input is written
type Format string

const (
	FormatText       Format = "text"       // Sentences on one line joined by the separator
	FormatJSON       Format = "json"       // One Segmentation object per line
	FormatBoundaries Format = "boundaries" // One JSON array of boundaries per line
	FormatTokens     Format = "tokens"     // One morpheme per line with its features, EOS after each sentence
)

// ParseFormat validates a format name
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatBoundaries, FormatTokens:
		return f, nil
	case "":
		return FormatText, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Record is the JSON form of one segmented input
type Record struct {
	Text string `json:"text"`
	model.Segmentation
}

// Renderer writes one record per input
type Renderer struct {
	w           io.Writer
	format      Format
	separator   string
	placeholder string
	layers      map[string]bool
	enc         *json.Encoder
}

// NewRenderer creates a renderer from the output settings. When layers is
// non-empty the json format only includes those layers.
func NewRenderer(w io.Writer, cfg model.OutputConfig, layers ...string) (*Renderer, error) {
	format, err := ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	r := &Renderer{
		w:           w,
		format:      format,
		separator:   cfg.Separator,
		placeholder: cfg.LinebreakPlaceholder,
		enc:         enc,
	}
	if len(layers) > 0 {
		r.layers = make(map[string]bool, len(layers))
		for _, name := range layers {
			r.layers[name] = true
		}
	}
	return r, nil
}

// Format returns the renderer's output format
func (r *Renderer) Format() Format {
	return r.format
}

// DecodeLine turns one line of line-oriented input into text, reading the
// placeholder as a newline
func (r *Renderer) DecodeLine(line string) string {
	if r.placeholder == "" {
		return line
	}
	return strings.ReplaceAll(line, r.placeholder, "\n")
}

// Render writes the record for text and its segmentation
func (r *Renderer) Render(text string, seg model.Segmentation) error {
	switch r.format {
	case FormatJSON:
		return r.enc.Encode(Record{Text: text, Segmentation: r.filter(seg)})
	case FormatBoundaries:
		return r.enc.Encode(seg.FinalBoundaries)
	case FormatTokens:
		return r.tokens(text, seg.FinalBoundaries)
	default:
		_, err := fmt.Fprintln(r.w, r.Line(text, seg.FinalBoundaries))
		return err
	}
}

// Line joins the sentences of text with the separator, showing newlines
// as the placeholder
func (r *Renderer) Line(text string, boundaries []int) string {
	sentences := bunkai.Split(text, boundaries)
	for i, s := range sentences {
		sentences[i] = r.encodeNewlines(s)
	}
	return strings.Join(sentences, r.separator)
}

func (r *Renderer) encodeNewlines(s string) string {
	if r.placeholder == "" {
		return s
	}
	return strings.ReplaceAll(s, "\n", r.placeholder)
}

// tokens writes one morpheme per line as surface<TAB>features and EOS
// after every sentence
func (r *Renderer) tokens(text string, boundaries []int) error {
	var b strings.Builder
	for _, sentence := range bunkai.Split(text, boundaries) {
		for _, tok := range token.Analyze(rules.NewText(sentence)) {
			fmt.Fprintf(&b, "%s\t%s\n", r.encodeNewlines(tok.Surface), strings.Join(tok.Features, ","))
		}
		b.WriteString("EOS\n")
	}
	_, err := io.WriteString(r.w, b.String())
	return err
}

func (r *Renderer) filter(seg model.Segmentation) model.Segmentation {
	if r.layers == nil {
		return seg
	}
	kept := make([]model.Layer, 0, len(r.layers))
	for _, layer := range seg.Layers {
		if r.layers[layer.Name] {
			kept = append(kept, layer)
		}
	}
	return model.Segmentation{Layers: kept, FinalBoundaries: seg.FinalBoundaries}
}

// WriteJSONFile writes an indented record to path
func WriteJSONFile(path string, text string, seg model.Segmentation) error {
	data, err := json.MarshalIndent(Record{Text: text, Segmentation: seg}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// WriteSentencesFile writes one sentence per line, newlines inside a
// sentence shown as placeholder
func WriteSentencesFile(path string, sentences []string, placeholder string) error {
	var b strings.Builder
	for _, s := range sentences {
		if placeholder != "" {
			s = strings.ReplaceAll(s, "\n", placeholder)
		}
		b.WriteString(s)
		b.WriteString("\n")
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Slug turns a document subject into a safe file name
func Slug(s string) string {
	s = strings.TrimSpace(s)
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "-",
	)
	s = replacer.Replace(s)
	s = strings.Trim(s, ".")
	if s == "" {
		return "document"
	}

	// Limit length without splitting a rune
	if len(s) > 100 {
		cut := 0
		for i := range s {
			if i > 100 {
				break
			}
			cut = i
		}
		s = s[:cut]
	}
	return s
}
