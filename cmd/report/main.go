// Command report regenerates sweep reports from the sweep-history database
// without touching the solver. It can list recorded runs or rebuild the
// joined CSV (and constants sidecar) for one run, with a statistics footer.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/banshee-data/cavity.report/internal/db"
	"github.com/banshee-data/cavity.report/internal/hfss/results"
	"github.com/banshee-data/cavity.report/internal/hfss/storage/sqlite"
	"github.com/banshee-data/cavity.report/internal/hfss/variation"
	"github.com/banshee-data/cavity.report/internal/version"
)

func main() {
	dbPath := flag.String("db", "sweeps.db", "Sweep-history database path")
	migrationsDir := flag.String("migrations", "migrations", "Directory containing schema migrations")
	list := flag.Bool("list", false, "List recorded runs and exit")
	limit := flag.Int("limit", 20, "Maximum runs to list")
	runID := flag.String("run", "", "Run ID to rebuild a report for")
	output := flag.String("output", "report.csv", "Output CSV path")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("report %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return
	}

	handle, err := db.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database %s: %v", *dbPath, err)
	}
	if err := handle.MigrateUp(*migrationsDir); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	store := sqlite.NewSweepStore(handle.DB)

	if *list {
		listRuns(store, *limit)
		return
	}
	if *runID == "" {
		log.Fatalf("Either -list or -run <id> is required")
	}
	rebuild(store, *runID, *output)
}

func listRuns(store *sqlite.SweepStore, limit int) {
	runs, err := store.ListRuns(limit)
	if err != nil {
		log.Fatalf("Failed to list runs: %v", err)
	}
	if len(runs) == 0 {
		log.Printf("No recorded runs")
		return
	}
	for _, run := range runs {
		started := time.Unix(0, run.StartedAt).Format(time.RFC3339)
		line := run.RunID + " " + started + " " + run.Strategy + " " + run.Status
		if run.Error != "" {
			line += " (" + run.Error + ")"
		}
		log.Print(line)
	}
}

func rebuild(store *sqlite.SweepStore, runID, output string) {
	run, err := store.GetRun(runID)
	if err != nil {
		log.Fatalf("Failed to load run %s: %v", runID, err)
	}
	if run.Status != sqlite.RunStatusComplete {
		log.Printf("WARNING: run %s status is %q; report may be partial", runID, run.Status)
	}

	stored, err := store.ResultsForRun(runID)
	if err != nil {
		log.Fatalf("Failed to load results for run %s: %v", runID, err)
	}
	if len(stored) == 0 {
		log.Fatalf("Run %s has no stored results", runID)
	}

	rows := make([]results.SimulationResult, 0, len(stored))
	for _, res := range stored {
		snapshot, err := variation.ParseDescriptor(res.SnapshotKey)
		if err != nil {
			log.Fatalf("Corrupt snapshot key for result %s: %v", res.ResultID, err)
		}
		var fields map[string]any
		if err := json.Unmarshal(res.ResultJSON, &fields); err != nil {
			log.Fatalf("Corrupt result fields for result %s: %v", res.ResultID, err)
		}
		rows = append(rows, results.SimulationResult{Result: fields, Snapshot: snapshot})
	}

	joined := results.Join(rows)
	joint, err := results.Minimize(joined)
	if err != nil {
		log.Fatalf("Failed to factor out constants: %v", err)
	}
	if err := joint.SaveCSV(output); err != nil {
		log.Fatalf("Failed to write report: %v", err)
	}

	for _, fs := range results.Summarize(joined) {
		log.Printf("%s: mean=%.6g stddev=%.6g min=%.6g max=%.6g (n=%d)",
			fs.Field, fs.Mean, fs.StdDev, fs.Min, fs.Max, fs.Count)
	}
	log.Printf("Report written: %s (%d rows, %d constants)", output, len(joint.Results), len(joint.ConstantVariables))
}
