package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/golobby/cast"
	"go.uber.org/multierr"
)

// Load decodes a TOML configuration descriptor into a Config, applies
// struct `default` tags for any field left at its zero value, then
// overlays environment variables named by each field's `env` tag
// (spec.md §6). Unknown keys in the TOML source are a configuration
// error (spec.md §9), not a silently-ignored field.
func Load(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		names := make([]string, len(undecoded))
		for i, k := range undecoded {
			names[i] = k.String()
		}
		return Config{}, fmt.Errorf("config: unknown key(s): %s", strings.Join(names, ", "))
	}

	applyDefaults(reflect.ValueOf(&cfg).Elem())
	if err := applyEnv(reflect.ValueOf(&cfg).Elem()); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyDefaults walks struct fields still at their zero value and fills
// them from the field's `default` tag, mirroring the "default:" tags in
// _teacher_ref/modules_scheduler/config.go.
func applyDefaults(v reflect.Value) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fv := v.Field(i)
		if fv.Kind() == reflect.Struct {
			applyDefaults(fv)
			continue
		}
		def, ok := field.Tag.Lookup("default")
		if !ok || !fv.IsZero() {
			continue
		}
		setFromString(fv, def)
	}
}

// applyEnv overlays environment variables named by each field's `env`
// tag onto the decoded configuration, using golobby/cast to convert the
// raw string into the field's type.
func applyEnv(v reflect.Value) error {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fv := v.Field(i)
		if fv.Kind() == reflect.Struct {
			if err := applyEnv(fv); err != nil {
				return err
			}
			continue
		}
		envName, ok := field.Tag.Lookup("env")
		if !ok {
			continue
		}
		raw, present := os.LookupEnv(envName)
		if !present {
			continue
		}
		if err := setFromCast(fv, raw); err != nil {
			return fmt.Errorf("env %s: %w", envName, err)
		}
	}
	return nil
}

func setFromString(fv reflect.Value, raw string) {
	_ = setFromCast(fv, raw)
}

func setFromCast(fv reflect.Value, raw string) error {
	switch fv.Interface().(type) {
	case time.Duration:
		d, err := time.ParseDuration(raw)
		if err != nil {
			return err
		}
		fv.Set(reflect.ValueOf(d))
		return nil
	case []string:
		parts := strings.Split(raw, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		fv.Set(reflect.ValueOf(parts))
		return nil
	}

	switch fv.Kind() {
	case reflect.String:
		fv.SetString(raw)
	case reflect.Bool:
		b, err := cast.ToBool(raw)
		if err != nil {
			return err
		}
		fv.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := cast.ToInt64(raw)
		if err != nil {
			return err
		}
		fv.SetInt(n)
	case reflect.Float32, reflect.Float64:
		f, err := cast.ToFloat64(raw)
		if err != nil {
			return err
		}
		fv.SetFloat(f)
	default:
		return fmt.Errorf("unsupported field kind %s", fv.Kind())
	}
	return nil
}

// validate enforces the `validate:"required"`/`validate:"oneof=..."`
// tags present on Config (spec.md §7, "Configuration" errors fail fast
// before any event is processed). Every violation found is reported
// together, via go.uber.org/multierr, rather than stopping at the
// first one — a config with three typos should name all three in one
// run, not dribble them out one failed Load at a time.
func validate(cfg Config) error {
	var errs error
	if cfg.InputFile == "" {
		errs = multierr.Append(errs, fmt.Errorf("config: input_file is required"))
	}
	if cfg.OutputSWF == "" {
		errs = multierr.Append(errs, fmt.Errorf("config: output_swf is required"))
	}
	if cfg.Scheduler.Name == "" {
		errs = multierr.Append(errs, fmt.Errorf("config: scheduler.name is required"))
	}
	errs = multierr.Append(errs, oneOf("scheduler.objective_function", cfg.Scheduler.ObjectiveFunction, "AF", "AWF", "BSLD", "ASpWAS"))
	errs = multierr.Append(errs, oneOf("scheduler.corrector.name", cfg.Scheduler.Corrector.Name, "reqtime", "tsafrir", "ninetynine"))
	return errs
}

func oneOf(field, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("config: %s: unknown value %q (want one of %s)", field, value, strings.Join(allowed, ", "))
}
