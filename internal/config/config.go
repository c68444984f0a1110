// Package config declares the simulator's configuration tree (spec.md
// §6) and loads it from a TOML descriptor with an environment-variable
// overlay, in the teacher's style of tagging a plain struct for every
// feeder it supports (_teacher_ref/modules_scheduler/config.go's
// json/yaml/env/validate/default tags).
package config

import "time"

// Predictor configures one of the predictor variants (spec.md §4.9,
// §6). Only the fields relevant to Name are consulted; the rest are
// ignored, matching the original's permissive per-predictor kwargs.
type Predictor struct {
	Name             string  `toml:"name" env:"SCHEDULER_PREDICTOR_NAME" default:"reqtime"`
	PredictMultiplier float64 `toml:"predict_multiplier" env:"SCHEDULER_PREDICTOR_PREDICT_MULTIPLIER"`
	Alpha            float64 `toml:"alpha" env:"SCHEDULER_PREDICTOR_ALPHA"`
	StartWeight      float64 `toml:"start_weight" env:"SCHEDULER_PREDICTOR_START_WEIGHT"`
	Confidence       float64 `toml:"confidence" env:"SCHEDULER_PREDICTOR_CONFIDENCE"`
	UseWeights       bool    `toml:"use_weights" env:"SCHEDULER_PREDICTOR_USE_WEIGHTS"`
	SigmaFactor      float64 `toml:"sigma_factor" env:"SCHEDULER_PREDICTOR_SIGMA_FACTOR"`
	Decay            float64 `toml:"decay" env:"SCHEDULER_PREDICTOR_DECAY"`
}

// Corrector configures the corrector invoked on under-prediction
// (spec.md §4.10, §6).
type Corrector struct {
	Name string `toml:"name" env:"SCHEDULER_CORRECTOR_NAME" default:"reqtime" validate:"oneof=reqtime tsafrir ninetynine"`
}

// Scheduler configures the scheduling policy and its tuning knobs
// (spec.md §6).
type Scheduler struct {
	Name                        string        `toml:"name" env:"SCHEDULER_NAME" validate:"required"`
	Presorter                   string        `toml:"presorter" env:"SCHEDULER_PRESORTER" default:"None"`
	Postsorter                  string        `toml:"postsorter" env:"SCHEDULER_POSTSORTER" default:"None"`
	ObjectiveFunction           string        `toml:"objective_function" env:"SCHEDULER_OBJECTIVE_FUNCTION" default:"AF" validate:"oneof=AF AWF BSLD ASpWAS"`
	BSLDBound                   int64         `toml:"BSLD_bound" env:"SCHEDULER_BSLD_BOUND" default:"10"`
	SchedulingTimeLimit         time.Duration `toml:"scheduling_timelimit" env:"SCHEDULER_SCHEDULING_TIMELIMIT" default:"1s"`
	LimitNScheduled             int           `toml:"limit_n_scheduled" env:"SCHEDULER_LIMIT_N_SCHEDULED"`
	AlternativePresorter        []string      `toml:"alternative_presorter" env:"SCHEDULER_ALTERNATIVE_PRESORTER"`
	RunningJobsPredictionEnabled bool         `toml:"running_jobs_prediction_enabled" env:"SCHEDULER_RUNNING_JOBS_PREDICTION_ENABLED"`

	Predictor Predictor `toml:"predictor"`
	Corrector Corrector `toml:"corrector"`
}

// Config is the full configuration tree (spec.md §6). Unknown top-level
// or nested keys in the TOML source are rejected at load time rather
// than silently ignored (spec.md §9, "Unknown keys should error").
type Config struct {
	InputFile       string `toml:"input_file" env:"INPUT_FILE" validate:"required"`
	OutputSWF       string `toml:"output_swf" env:"OUTPUT_SWF" validate:"required"`
	NumProcessors   int    `toml:"num_processors" env:"NUM_PROCESSORS"`
	Stats           bool   `toml:"stats" env:"STATS"`
	UseCheckpointing bool  `toml:"use_checkpointing" env:"USE_CHECKPOINTING"`

	Scheduler Scheduler `toml:"scheduler"`
}
