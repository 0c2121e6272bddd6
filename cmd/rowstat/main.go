package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/profile"

	"pkg.jsn.cam/rowstat/internal/runlog"
	"pkg.jsn.cam/rowstat/pkg/rowstat"
	"pkg.jsn.cam/rowstat/pkg/runners"
)

var (
	runnerName  = flag.String("runner", runners.Default, "Aggregation preset to use (see -list)")
	workerCount = flag.Int("workers", 0, "Worker goroutines, 0 means one per CPU")
	listRunners = flag.Bool("list", false, "List available runners and exit")
	profileMode = flag.String("profile", "", "Write a profile for this run: cpu or mem")
	dbPath      = flag.String("db", "", "Record the run in this run log database")
	showHistory = flag.Bool("history", false, "Print runs recorded in -db and exit")
	forgetID    = flag.String("forget", "", "Delete the run with this ID from -db and exit")
)

func main() {
	flag.Parse()

	if *listRunners {
		printRunners()
		return
	}
	if *showHistory {
		printHistory(requireDB())
		return
	}
	if *forgetID != "" {
		forgetRun(requireDB(), *forgetID)
		return
	}

	path := flag.Arg(0)
	if path == "" {
		log.Fatal("input file is required")
	}

	switch *profileMode {
	case "cpu":
		defer profile.Start(profile.ProfilePath(".")).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
	case "":
	default:
		log.Fatalf("unknown profile mode: %s (want cpu or mem)", *profileMode)
	}

	runner, err := runners.Get(*runnerName)
	if err != nil {
		log.Fatalf("%v (use -list to see runners)", err)
	}

	workers := *workerCount
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	opts := runner.Options()
	opts.Workers = workers

	start := time.Now()
	table, err := rowstat.AggregateFile(context.Background(), path, opts)
	if err != nil {
		log.Fatalf("aggregation failed: %v", err)
	}
	elapsed := time.Since(start)

	fmt.Print(renderTable(table))
	fmt.Println(formatSolved(elapsed))
	fmt.Println(runStats(path, table, elapsed))

	if *dbPath != "" {
		recordRun(*dbPath, path, runner.Name, workers, table, start, elapsed)
	}
}

// runStats summarizes a finished run in one line. Byte figures are
// omitted when the input can no longer be statted; the row and key
// counts come from the table and are always present.
func runStats(path string, table *rowstat.Table, elapsed time.Duration) string {
	line := fmt.Sprintf("%s rows across %s keys",
		humanize.Comma(int64(table.Rows())),
		humanize.Comma(int64(table.Len())))
	info, err := os.Stat(path)
	if err != nil {
		return line
	}
	line += fmt.Sprintf(", %s scanned", humanize.Bytes(uint64(info.Size())))
	if elapsed > 0 {
		rate := float64(info.Size()) / elapsed.Seconds()
		line += fmt.Sprintf(" (%s/s)", humanize.Bytes(uint64(rate)))
	}
	return line
}

func requireDB() string {
	if *dbPath == "" {
		log.Fatal("-db is required for run log operations")
	}
	return *dbPath
}

// renderTable formats the aggregate as {key=min/mean/max, ...} with
// keys in ascending order and one decimal per figure.
func renderTable(table *rowstat.Table) string {
	items := table.Items()
	sort.Slice(items, func(i, j int) bool { return items[i].Key < items[j].Key })

	var sb strings.Builder
	sb.WriteByte('{')
	for i, it := range items {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(it.Key)
		sb.WriteByte('=')
		sb.WriteString(tenths(int64(it.Stats.Min)))
		sb.WriteByte('/')
		sb.WriteString(tenths(meanTenths(it.Stats.Sum, it.Stats.Count)))
		sb.WriteByte('/')
		sb.WriteString(tenths(int64(it.Stats.Max)))
	}
	sb.WriteString("}\n")
	return sb.String()
}

// tenths renders a scaled-tenths value as a decimal string.
func tenths(v int64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%d", sign, v/10, v%10)
}

// meanTenths rounds sum/count to the nearest tenth, halves up. The
// division stays in integers so .x5 means never wobble the way a
// float64 round trip can.
func meanTenths(sum int64, count uint64) int64 {
	n := int64(count)
	return floorDiv(2*sum+n, 2*n)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func formatSolved(d time.Duration) string {
	us := d.Microseconds()
	return fmt.Sprintf("Solved in %ds %03dms %03dµs", us/1_000_000, (us/1000)%1000, us%1000)
}

func printRunners() {
	fmt.Println("Available runners:")
	for _, r := range runners.List() {
		marker := " "
		if r.Name == runners.Default {
			marker = "*"
		}
		fmt.Printf(" %s %-8s %s\n", marker, r.Name, r.Description)
	}
}

func printHistory(dbPath string) {
	l, err := runlog.OpenBbolt(dbPath)
	if err != nil {
		log.Fatalf("Failed to open run log: %v", err)
	}
	defer l.Close()

	entries, err := l.List()
	if err != nil {
		log.Fatalf("Failed to list runs: %v", err)
	}
	if len(entries) == 0 {
		fmt.Println("No recorded runs")
		return
	}

	fmt.Printf("%-36s %-19s %-8s %-4s %-12s %-7s %-10s %s\n",
		"RUN ID", "STARTED", "RUNNER", "W", "ROWS", "KEYS", "SIZE", "DURATION")
	fmt.Println("───────────────────────────────────────────────────────────────────────────────────────────────────────")
	for _, e := range entries {
		fmt.Printf("%-36s %-19s %-8s %-4d %-12s %-7d %-10s %s\n",
			e.ID,
			e.StartedAt.Format("2006-01-02 15:04:05"),
			e.Runner,
			e.Workers,
			humanize.Comma(int64(e.Rows)),
			e.Keys,
			humanize.Bytes(uint64(e.InputBytes)),
			e.Duration.Round(time.Millisecond))
	}
}

func forgetRun(dbPath, id string) {
	l, err := runlog.OpenBbolt(dbPath)
	if err != nil {
		log.Fatalf("Failed to open run log: %v", err)
	}
	defer l.Close()

	if err := l.Delete(id); err != nil {
		log.Fatalf("Failed to forget run %s: %v", id, err)
	}
	fmt.Printf("Forgot run %s\n", id)
}

func recordRun(dbPath, input, runner string, workers int, table *rowstat.Table, start time.Time, elapsed time.Duration) {
	var size int64
	if info, err := os.Stat(input); err == nil {
		size = info.Size()
	}

	l, err := runlog.OpenBbolt(dbPath)
	if err != nil {
		log.Printf("Warning: run not recorded: %v", err)
		return
	}
	defer l.Close()

	entry := runlog.Entry{
		Input:      input,
		InputBytes: size,
		Runner:     runner,
		Workers:    workers,
		Rows:       table.Rows(),
		Keys:       table.Len(),
		Duration:   elapsed,
		StartedAt:  start,
	}
	if err := l.Append(&entry); err != nil {
		log.Printf("Warning: run not recorded: %v", err)
		return
	}
	fmt.Printf("Recorded run %s\n", entry.ID)
}
