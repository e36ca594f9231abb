// Command sweep runs a parameter sweep against an HFSS project through the
// pyEPR bridge: it enumerates the configured variable combinations, solves
// each one, recovers the solver's variation identifiers, runs the classical
// and optionally quantum analysis passes, and writes a joined CSV report.
// Runs and their per-variation rows are persisted to SQLite so reports can
// be regenerated without re-solving.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/banshee-data/cavity.report/internal/config"
	"github.com/banshee-data/cavity.report/internal/db"
	"github.com/banshee-data/cavity.report/internal/hfss/analysis"
	"github.com/banshee-data/cavity.report/internal/hfss/project"
	"github.com/banshee-data/cavity.report/internal/hfss/results"
	"github.com/banshee-data/cavity.report/internal/hfss/storage/sqlite"
	"github.com/banshee-data/cavity.report/internal/hfss/sweep"
	"github.com/banshee-data/cavity.report/internal/version"
)

func main() {
	configPath := flag.String("config", "sweep.json", "Path to the sweep plan JSON file")
	bridgeURL := flag.String("bridge", "", "Bridge base URL (overrides config)")
	output := flag.String("output", "", "Output CSV path (overrides config; defaults to sweep-<timestamp>.csv)")
	dbPath := flag.String("db", "", "Sweep-history database path (overrides config; empty disables persistence)")
	migrationsDir := flag.String("migrations", "migrations", "Directory containing schema migrations")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("sweep %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load sweep plan: %v", err)
	}

	vars, err := cfg.SweepVariables()
	if err != nil {
		log.Fatalf("Invalid swept variables: %v", err)
	}
	strategy := cfg.SweepStrategy()

	bridge := cfg.BridgeAddr()
	if *bridgeURL != "" {
		bridge = *bridgeURL
	}
	client := project.NewClient(bridge)
	if err := checkDesign(context.Background(), client, cfg); err != nil {
		log.Fatalf("Design check failed: %v", err)
	}
	runner := sweep.NewRunner(client, strategy, vars...)

	combos, err := runner.Combinations()
	if err != nil {
		log.Fatalf("Failed to enumerate combinations: %v", err)
	}
	log.Printf("Sweep plan: %d variables, %s strategy, %d combinations", len(vars), strategy, len(combos))

	store := openStore(cfg, *dbPath, *migrationsDir)

	var runID string
	if store != nil {
		varsJSON, err := json.Marshal(cfg.Variables)
		if err != nil {
			log.Fatalf("Failed to encode variables: %v", err)
		}
		run := &sqlite.SweepRun{Strategy: string(strategy), VariablesJSON: varsJSON}
		if err := store.InsertRun(run); err != nil {
			log.Fatalf("Failed to record sweep run: %v", err)
		}
		runID = run.RunID
		log.Printf("Recording run %s", runID)
	}

	ctx := context.Background()
	if deadline := cfg.AnalyzeDeadline(); deadline > 0 {
		// Per-solve limit scaled to the whole batch.
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, deadline*time.Duration(len(combos)))
		defer cancel()
	}

	res, err := runner.Run(ctx)
	if err != nil {
		failRun(store, runID, err)
		log.Fatalf("Sweep failed: %v", err)
	}
	log.Printf("Solved %d variations", len(res.VariationIDs))

	rows, err := analyze(ctx, client, cfg, res)
	if err != nil {
		failRun(store, runID, err)
		log.Fatalf("Analysis failed: %v", err)
	}

	if store != nil {
		for i, row := range rows {
			fieldsJSON, err := json.Marshal(row.Result)
			if err != nil {
				log.Fatalf("Failed to encode result row: %v", err)
			}
			result := &sqlite.SweepResult{
				RunID:       runID,
				VariationID: res.VariationIDs[i],
				SnapshotKey: row.Snapshot.Key(),
				ResultJSON:  fieldsJSON,
			}
			if err := store.InsertResult(result); err != nil {
				log.Fatalf("Failed to persist result row: %v", err)
			}
		}
	}

	joined := results.Join(rows)
	joint, err := results.Minimize(joined)
	if err != nil {
		failRun(store, runID, err)
		log.Fatalf("Failed to factor out constants: %v", err)
	}

	filename := *output
	if filename == "" && cfg.OutputCSV != nil {
		filename = *cfg.OutputCSV
	}
	if filename == "" {
		filename = fmt.Sprintf("sweep-%s.csv", time.Now().Format("20060102-150405"))
	}
	if err := joint.SaveCSV(filename); err != nil {
		failRun(store, runID, err)
		log.Fatalf("Failed to write report: %v", err)
	}

	if store != nil {
		if err := store.CompleteRun(runID, sqlite.RunStatusComplete, ""); err != nil {
			log.Fatalf("Failed to mark run complete: %v", err)
		}
	}

	for _, fs := range results.Summarize(joined) {
		log.Printf("%s: mean=%.6g stddev=%.6g (n=%d)", fs.Field, fs.Mean, fs.StdDev, fs.Count)
	}
	log.Printf("Sweep complete: %s (%d rows, %d constants)", filename, len(joint.Results), len(joint.ConstantVariables))
}

// analyze runs the configured analysis passes over the solved variations
// and merges them into one row per variation.
func analyze(ctx context.Context, p project.Project, cfg *config.SweepConfig, res *sweep.RunResult) ([]results.SimulationResult, error) {
	labels := analysis.Labels(cfg.Labels())

	rows, err := analysis.Classical(ctx, p, res.Snapshots, res.VariationIDs, labels, cfg.Modes)
	if err != nil {
		return nil, err
	}

	if cfg.Quantum != nil && *cfg.Quantum {
		quantum, err := analysis.Quantum(ctx, p, res.Snapshots, res.VariationIDs, labels)
		if err != nil {
			return nil, err
		}
		for i := range rows {
			merged, err := results.Merge(rows[i], quantum[i])
			if err != nil {
				return nil, err
			}
			rows[i] = merged
		}
	}
	return rows, nil
}

// checkDesign verifies the bridge has the expected project, design and
// setup open. Each check applies only when the plan names one; a mismatch
// is fatal before any solver state is touched.
func checkDesign(ctx context.Context, p project.Project, cfg *config.SweepConfig) error {
	if cfg.ProjectName == nil && cfg.DesignName == nil && cfg.SetupName == nil {
		return nil
	}
	info, err := p.DesignInfo(ctx)
	if err != nil {
		return err
	}
	if cfg.ProjectName != nil && info.Project != *cfg.ProjectName {
		return fmt.Errorf("bridge has project %q open, plan expects %q", info.Project, *cfg.ProjectName)
	}
	if cfg.DesignName != nil && info.Design != *cfg.DesignName {
		return fmt.Errorf("bridge has design %q open, plan expects %q", info.Design, *cfg.DesignName)
	}
	if cfg.SetupName != nil && info.Setup != *cfg.SetupName {
		return fmt.Errorf("bridge is on setup %q, plan expects %q", info.Setup, *cfg.SetupName)
	}
	log.Printf("Design check passed: %s / %s / %s", info.Project, info.Design, info.Setup)
	return nil
}

// openStore opens and migrates the sweep-history database, or returns nil
// when no database is configured.
func openStore(cfg *config.SweepConfig, override, migrationsDir string) *sqlite.SweepStore {
	path := override
	if path == "" && cfg.DatabasePath != nil {
		path = *cfg.DatabasePath
	}
	if path == "" {
		return nil
	}

	handle, err := db.New(path)
	if err != nil {
		log.Fatalf("Failed to open database %s: %v", path, err)
	}
	if err := handle.MigrateUp(migrationsDir); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	return sqlite.NewSweepStore(handle.DB)
}

func failRun(store *sqlite.SweepStore, runID string, cause error) {
	if store == nil {
		return
	}
	if err := store.CompleteRun(runID, sqlite.RunStatusError, cause.Error()); err != nil {
		log.Printf("WARNING: Failed to mark run failed: %v", err)
	}
}
