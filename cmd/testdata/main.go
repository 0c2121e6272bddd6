package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"

	"pkg.jsn.cam/rowstat/cmd/testdata/generator"
)

/* generates key;value row files for feeding the aggregator */

var (
	generatorName = flag.String("generator", "measurements", "Data generator to use (see -list)")
	lineCount     = flag.Int64("count", 0, "Lines to generate, 0 means the generator's default")
	outputPath    = flag.String("output", "var/testdata.txt", "Output file path")
	seed          = flag.Uint64("seed", 0, "PRNG seed, 0 picks one from the clock")
	keyLimit      = flag.Int("keys", 0, "Cap on distinct keys, 0 means the generator's default")
	listNames     = flag.Bool("list", false, "List available generators and exit")
)

const progressStep = 1 << 16

func main() {
	flag.Parse()

	if *listNames {
		fmt.Println("Available generators:")
		for _, name := range generator.List() {
			g, _ := generator.Get(name)
			fmt.Printf("  %-14s %s\n", name, g.Description())
		}
		return
	}

	if *keyLimit > 0 {
		generator.SetKeyLimit(*generatorName, *keyLimit)
	}

	gen, err := generator.Get(*generatorName)
	if err != nil {
		log.Fatalf("%v (available: %s)", err, strings.Join(generator.List(), ", "))
	}

	s := *seed
	if s == 0 {
		s = uint64(time.Now().UnixNano())
	}
	gen.Init(rand.New(rand.NewPCG(s, s)))

	count := *lineCount
	if count <= 0 {
		count = gen.DefaultCount()
	}

	if err := os.MkdirAll(filepath.Dir(*outputPath), 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}
	file, err := os.Create(*outputPath)
	if err != nil {
		log.Fatalf("Failed to create output file: %v", err)
	}
	defer file.Close()

	fmt.Printf("Generating %s lines (%s), seed %d\n", humanize.Comma(count), gen.Description(), s)

	w := bufio.NewWriterSize(file, 4<<20)
	bar := progressbar.Default(count, "generating")
	if err := generateRows(gen, w, bar, count); err != nil {
		log.Fatalf("Failed to generate: %v", err)
	}
	_ = bar.Finish()

	if err := w.Flush(); err != nil {
		log.Fatalf("Failed to flush output: %v", err)
	}

	info, err := file.Stat()
	if err != nil {
		log.Fatalf("Failed to stat output: %v", err)
	}
	fmt.Printf("Wrote %s lines to %s (%s)\n", humanize.Comma(count), *outputPath, humanize.Bytes(uint64(info.Size())))
}

// generateRows writes count lines from gen to w, advancing bar once per
// full progress step and once more for the partial tail so runs shorter
// than a step still reach the end of the bar.
func generateRows(gen generator.Generator, w io.Writer, bar *progressbar.ProgressBar, count int64) error {
	for i := int64(1); i <= count; i++ {
		if err := gen.WriteLine(w); err != nil {
			return fmt.Errorf("failed to write line %d: %w", i, err)
		}
		if i%progressStep == 0 {
			_ = bar.Add(progressStep)
		}
	}
	if rem := count % progressStep; rem > 0 {
		_ = bar.Add64(rem)
	}
	return nil
}
