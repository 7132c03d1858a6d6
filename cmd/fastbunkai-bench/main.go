// Benchmark program for the segmentation engine.
// Times sentence splitting, boundary-only segmentation and parallel
// segmentation over fixed Japanese and English passages.
package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/ppiankov/fastbunkai/pkg/bunkai"
)

var japanesePassages = []string{
	"本日は晴天なり。スタッフ? と話し込み。合宿免許? の若者さん達でしょうか。" +
		"価格は3.5万円です。顔文字(*^_^*)だよ。おすすめ度No.1のホテルです。" +
		"メールはtest@example.comです。やったー(嬉)！わーい…！" +
		"スタッフ? と話し込み\n次の行でも議論は続いた。\n",
	"この文章はFastBunkaiの評価用に作成されたダミーテキストです。" +
		"ROOM No.411でした。おすすめ度No.1のホテルです。" +
		"スタッフ? と話し込み。メールはsample@example.jpです。" +
		"その後、彼らは階段を降りた。\n",
}

var englishPassages = []string{
	"Today the weather is perfect. The staff? kept talking. Could they be young people from the camp-license course?" +
		" The price was 3.5 million yen. Emoji (*^_^*) is everywhere. The hotel ranked No.1 in recommendations." +
		" Email us at contact@example.com. Hooray (excited)! Yay...! The conversation moved to the next line.\n",
	"This paragraph exists solely to benchmark FastBunkai. Room No.411 was assigned." +
		` The guide said, "Staff? kept talking." The mailing list is hello@example.org.` +
		" Later on, they climbed down the staircase and paused for a break.\n",
}

func main() {
	repeats := pflag.Int("repeats", 3, "number of benchmark repetitions")
	jpLoops := pflag.Int("jp-loops", 100, "times the Japanese passages are repeated")
	enLoops := pflag.Int("en-loops", 100, "times the English passages are repeated")
	workers := pflag.Int("workers", 0, "workers for the parallel run (0 = number of CPUs)")
	pflag.Parse()

	engine := bunkai.New()

	fmt.Println("=== FastBunkai Benchmark ===")

	samples := append(slices.Clone(japanesePassages), englishPassages...)
	if err := checkConsistency(engine, samples); err != nil {
		fmt.Fprintf(os.Stderr, "✗ consistency check failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("✓ Sentences reproduce their input and boundaries agree across entry points")

	corpora := []struct {
		name  string
		texts []string
	}{
		{"Japanese", repeat(japanesePassages, *jpLoops)},
		{"English", repeat(englishPassages, *enLoops)},
	}

	for _, c := range corpora {
		fmt.Printf("\n%s corpus (%d docs):\n", c.name, len(c.texts))
		fmt.Println(strings.Repeat("-", 60))

		fmt.Println(pretty("  sentences ", measure(*repeats, func() {
			for _, t := range c.texts {
				engine.Sentences(t)
			}
		})))
		fmt.Println(pretty("  boundaries", measure(*repeats, func() {
			for _, t := range c.texts {
				engine.SegmentBoundaries(t)
			}
		})))
		fmt.Println(pretty("  parallel  ", measure(*repeats, func() {
			if _, err := engine.SegmentMany(context.Background(), c.texts, *workers); err != nil {
				fmt.Fprintf(os.Stderr, "✗ parallel run failed: %v\n", err)
				os.Exit(1)
			}
		})))
	}

	fmt.Println("\n=== Benchmark Complete ===")
}

// checkConsistency verifies the engine against itself on every sample
func checkConsistency(engine *bunkai.Engine, texts []string) error {
	many, err := engine.SegmentMany(context.Background(), texts, 0)
	if err != nil {
		return err
	}
	for i, text := range texts {
		if got := strings.Join(engine.Sentences(text), ""); got != text {
			return fmt.Errorf("sentences of %q do not reproduce it", text)
		}
		boundaries := engine.SegmentBoundaries(text)
		if !slices.Equal(boundaries, engine.Segment(text).FinalBoundaries) {
			return fmt.Errorf("boundary mismatch for %q", text)
		}
		if !slices.Equal(boundaries, many[i].FinalBoundaries) {
			return fmt.Errorf("parallel mismatch for %q", text)
		}
	}
	return nil
}

func repeat(texts []string, n int) []string {
	out := make([]string, 0, len(texts)*max(n, 1))
	for range max(n, 1) {
		out = append(out, texts...)
	}
	return out
}

func measure(repeats int, run func()) []time.Duration {
	timings := make([]time.Duration, 0, repeats)
	for range max(repeats, 1) {
		start := time.Now()
		run()
		timings = append(timings, time.Since(start))
	}
	return timings
}

func pretty(label string, samples []time.Duration) string {
	var sum float64
	for _, s := range samples {
		sum += float64(s)
	}
	mean := sum / float64(len(samples))

	var stdev float64
	if len(samples) > 1 {
		var sq float64
		for _, s := range samples {
			d := float64(s) - mean
			sq += d * d
		}
		stdev = math.Sqrt(sq / float64(len(samples)-1))
	}

	ms := float64(time.Millisecond)
	return fmt.Sprintf("%s: mean=%.2f ms, stdev=%.2f ms", label, mean/ms, stdev/ms)
}
