package main

import (
	"fmt"

	"github.com/algo74/predictsim/internal/config"
	"github.com/algo74/predictsim/internal/correct"
	"github.com/algo74/predictsim/internal/predict"
	"github.com/algo74/predictsim/internal/scheduler"
)

// buildPredictor resolves scheduler.predictor.name to a predict.Predictor
// (spec.md §4.9, §6). Unknown names fail fast, before any event is
// processed (spec.md §7, "Configuration" errors).
func buildPredictor(cfg config.Predictor) (predict.Predictor, error) {
	switch cfg.Name {
	case "reqtime":
		return predict.Reqtime{}, nil
	case "clairvoyant":
		return predict.NewClairvoyant(cfg.PredictMultiplier), nil
	case "tsafrir":
		return predict.NewTsafrir(), nil
	case "exact":
		return predict.NewExact(cfg.Alpha, cfg.SigmaFactor, cfg.UseWeights), nil
	case "complete":
		return predict.NewComplete(cfg.Alpha, cfg.SigmaFactor, cfg.UseWeights), nil
	case "toppercent":
		return predict.NewTopPercent(cfg.Alpha, cfg.Confidence, cfg.StartWeight, cfg.UseWeights), nil
	case "conditional":
		return predict.NewConditional(cfg.Alpha, cfg.Confidence, cfg.StartWeight, cfg.UseWeights), nil
	default:
		return nil, fmt.Errorf("config: unknown predictor %q", cfg.Name)
	}
}

// buildCorrector resolves scheduler.corrector.name to a
// correct.Corrector (spec.md §4.10, §6).
func buildCorrector(cfg config.Corrector, predictorCfg config.Predictor) (correct.Corrector, error) {
	switch cfg.Name {
	case "reqtime":
		return correct.Reqtime{}, nil
	case "tsafrir":
		return correct.NewTsafrir(), nil
	case "ninetynine":
		return correct.NewNinetynine(predictorCfg.Confidence, predictorCfg.Alpha, predictorCfg.StartWeight, predictorCfg.UseWeights), nil
	default:
		return nil, fmt.Errorf("config: unknown corrector %q", cfg.Name)
	}
}

// buildPresorter resolves a scheduler.presorter/postsorter/alternative_presorter
// id to a scheduler.Sorter (spec.md §6). "None" (and the empty string)
// mean FCFS.
func buildPresorter(name string) (scheduler.Sorter, error) {
	if name == "" || name == "None" {
		return scheduler.Sorters["None"], nil
	}
	s, ok := scheduler.Sorters[name]
	if !ok {
		return nil, fmt.Errorf("config: unknown presorter %q", name)
	}
	return s, nil
}

// buildScheduler resolves scheduler.name plus its presorter/objective
// settings to a scheduler.Hooks implementation over a cluster of the
// given capacity (spec.md §6, §9 "dynamic dispatch... resolves to a
// variant at startup").
func buildScheduler(capacity int, cfg config.Scheduler, journal *scheduler.Journal) (scheduler.Hooks, error) {
	p, err := buildPredictor(cfg.Predictor)
	if err != nil {
		return nil, err
	}
	c, err := buildCorrector(cfg.Corrector, cfg.Predictor)
	if err != nil {
		return nil, err
	}
	presorter, err := buildPresorter(cfg.Presorter)
	if err != nil {
		return nil, err
	}
	postsorter, err := buildPresorter(cfg.Postsorter)
	if err != nil {
		return nil, err
	}

	switch cfg.Name {
	case "easy":
		return scheduler.NewEasy(capacity, p, c, presorter, postsorter), nil

	case "pure_bf":
		s := scheduler.NewPureBF(capacity, p, c, presorter)
		s.RunningJobsPredictionEnabled = cfg.RunningJobsPredictionEnabled
		if cfg.LimitNScheduled > 0 {
			s.LimitNScheduled = cfg.LimitNScheduled
		}
		return s, nil

	case "list_prediction":
		return scheduler.NewListPrediction(capacity, p, c, presorter), nil

	case "cp_tuned":
		s := scheduler.NewCPTuned(capacity, p, c, scheduler.ObjectiveFunction(cfg.ObjectiveFunction), presorter)
		s.BSLDBound = cfg.BSLDBound
		if cfg.SchedulingTimeLimit > 0 {
			s.SchedulingTimeLimit = cfg.SchedulingTimeLimit
		}
		if cfg.LimitNScheduled > 0 {
			s.LimitNScheduled = cfg.LimitNScheduled
		}
		return s, nil

	case "cp_bestofn":
		alternatives := make(map[string]scheduler.Sorter, len(cfg.AlternativePresorter))
		for _, name := range cfg.AlternativePresorter {
			alt, err := buildPresorter(name)
			if err != nil {
				return nil, err
			}
			alternatives[name] = alt
		}
		s := scheduler.NewCPBestOfN(capacity, p, c, scheduler.ObjectiveFunction(cfg.ObjectiveFunction), alternatives)
		s.BSLDBound = cfg.BSLDBound
		if cfg.SchedulingTimeLimit > 0 {
			s.SchedulingTimeLimit = cfg.SchedulingTimeLimit
		}
		s.Journal = journal
		return s, nil

	default:
		return nil, fmt.Errorf("config: unknown scheduler %q", cfg.Name)
	}
}
