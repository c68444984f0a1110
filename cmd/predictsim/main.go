// Command predictsim runs the discrete-event HPC batch scheduling
// simulator (spec.md §6, "CLI surface"). Usage:
//
//	predictsim <config.toml> [force-progress-frequency-seconds]
//
// The TOML configuration descriptor names the input SWF trace
// (input_file) and the output SWF path (output_swf).
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/algo74/predictsim/internal/config"
	"github.com/algo74/predictsim/internal/job"
	"github.com/algo74/predictsim/internal/observer"
	"github.com/algo74/predictsim/internal/scheduler"
	"github.com/algo74/predictsim/internal/sim"
	"github.com/algo74/predictsim/internal/swf"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: predictsim <config.toml> [force-progress-frequency-seconds]")
	}
	cfg, err := config.Load(args[0])
	if err != nil {
		return err
	}

	var progressFreq int64
	if len(args) > 1 {
		progressFreq, err = strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("force-progress-frequency-seconds: %w", err)
		}
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logger.Sync()
	runID := uuid.NewString()
	log := logger.Sugar().With("run_id", runID)

	inFile, err := os.Open(cfg.InputFile)
	if err != nil {
		return fmt.Errorf("opening input_file: %w", err)
	}
	defer inFile.Close()

	hdr, records, err := swf.Read(inFile, cfg.NumProcessors)
	if err != nil {
		return err
	}

	var jrnl *scheduler.Journal
	if cfg.UseCheckpointing {
		jrnl = scheduler.OpenJournal(cfg.OutputSWF, log)
		defer jrnl.Close()
	}

	hooks, err := buildScheduler(hdr.MaxProcs, cfg.Scheduler, jrnl)
	if err != nil {
		return err
	}

	var subject observer.SimSubject
	if cfg.Stats {
		reg := observer.NewRegistry(func(id string, err error) {
			log.Warnw("observer failed", "observer", id, "error", err)
		})
		reg.RegisterObserver(newStatsCollector(log))
		subject = reg
	}

	driver := sim.New(hooks, subject, log, runID)
	driver.SetProgressFrequency(progressFreq)
	jobs := swf.ToJobs(records)
	byID := make(map[job.ID]swf.Record, len(records))
	for _, r := range records {
		byID[job.ID(r.JobNumber)] = r
	}
	for _, j := range jobs {
		driver.Submit(j)
	}

	result, err := driver.Run(context.Background())
	if err != nil {
		return err
	}

	outFile, err := os.Create(cfg.OutputSWF)
	if err != nil {
		return fmt.Errorf("creating output_swf: %w", err)
	}
	defer outFile.Close()

	outRecords := swf.FromJobs(result.Jobs, byID)
	if err := swf.Write(outFile, hdr.MaxProcs, outRecords); err != nil {
		return fmt.Errorf("writing output_swf: %w", err)
	}
	return nil
}
