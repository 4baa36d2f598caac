// Package settings holds the configuration of one inference run.
//
// Values come from command-line flags, MOVENET_* environment variables and an
// optional config file, in that order of precedence.
package settings

import (
	"fmt"
	"strings"

	"github.com/mpromonet/movenet-tflite/pose"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "MOVENET"

// Settings is immutable once loaded; pass it by value.
type Settings struct {
	Verbose                   bool
	Accel                     bool
	AllowFP16                 bool
	LoopCount                 int
	InputMean                 float32
	InputStd                  float32
	ModelName                 string
	ImagePath                 string
	LabelsPath                string
	NumberOfThreads           int
	NumberOfResults           int
	MaxProfilingBufferEntries int
	NumberOfWarmupRuns        int

	InputWidth     int
	InputHeight    int
	OutputPath     string
	ScoreThreshold float32
	ServeAddr      string
	StaticDir      string
	StatsdAddr     string
	LogLevel       string
}

// Default returns the settings used when nothing is configured.
func Default() Settings {
	return Settings{
		LoopCount:                 1,
		InputMean:                 127.5,
		InputStd:                  127.5,
		ModelName:                 "./model.tflite",
		ImagePath:                 "./input_image.bmp",
		LabelsPath:                "./labels.txt",
		NumberOfThreads:           4,
		NumberOfResults:           5,
		MaxProfilingBufferEntries: 1024,
		NumberOfWarmupRuns:        2,
		InputWidth:                256,
		InputHeight:               256,
		ScoreThreshold:            0.3,
		StaticDir:                 "./static",
		LogLevel:                  "info",
	}
}

func newFlagSet(d Settings) *pflag.FlagSet {
	fs := pflag.NewFlagSet("movenet", pflag.ContinueOnError)
	fs.String("config", "", "optional config file (yaml, json, toml or env)")
	fs.Bool("verbose", d.Verbose, "log tensor details and raw output values")
	fs.Bool("accel", d.Accel, "use an EdgeTPU delegate when a device is available")
	fs.Bool("allow_fp16", d.AllowFP16, "allow fp16 precision for fp32 models")
	fs.Int("loop_count", d.LoopCount, "number of timed invocations")
	fs.Float32("input_mean", d.InputMean, "mean subtracted from float inputs")
	fs.Float32("input_std", d.InputStd, "standard deviation dividing float inputs")
	fs.String("model", d.ModelName, "path to model file")
	fs.String("image", d.ImagePath, "path to input image")
	fs.String("labels", d.LabelsPath, "path to joint names file")
	fs.Int("threads", d.NumberOfThreads, "interpreter threads, -1 for the engine default")
	fs.Int("results", d.NumberOfResults, "maximum number of people to report, 0 for all")
	fs.Int("max_profiling_buffer_entries", d.MaxProfilingBufferEntries, "maximum profiling buffer entries")
	fs.Int("warmup_runs", d.NumberOfWarmupRuns, "number of untimed invocations before the timed ones")
	fs.Int("input_width", d.InputWidth, "model input width")
	fs.Int("input_height", d.InputHeight, "model input height")
	fs.String("output", d.OutputPath, "write the annotated image to this path")
	fs.Float32("score_threshold", d.ScoreThreshold, "minimum joint confidence drawn on the output image")
	fs.String("serve", d.ServeAddr, "serve /runmodel on this address instead of running once")
	fs.String("static", d.StaticDir, "directory served at / in serving mode")
	fs.String("statsd_addr", d.StatsdAddr, "statsd address, empty disables metrics")
	fs.String("log_level", d.LogLevel, "log level (debug, info, warn, error)")
	return fs
}

// Load parses args, environment and config file into validated Settings.
func Load(args []string) (Settings, error) {
	fs := newFlagSet(Default())
	if err := fs.Parse(args); err != nil {
		return Settings{}, err
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return Settings{}, err
	}
	if cfg := v.GetString("config"); cfg != "" {
		v.SetConfigFile(cfg)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("%w: reading %s: %v", pose.ErrConfig, cfg, err)
		}
	}

	s := Settings{
		Verbose:                   v.GetBool("verbose"),
		Accel:                     v.GetBool("accel"),
		AllowFP16:                 v.GetBool("allow_fp16"),
		LoopCount:                 v.GetInt("loop_count"),
		InputMean:                 float32(v.GetFloat64("input_mean")),
		InputStd:                  float32(v.GetFloat64("input_std")),
		ModelName:                 v.GetString("model"),
		ImagePath:                 v.GetString("image"),
		LabelsPath:                v.GetString("labels"),
		NumberOfThreads:           v.GetInt("threads"),
		NumberOfResults:           v.GetInt("results"),
		MaxProfilingBufferEntries: v.GetInt("max_profiling_buffer_entries"),
		NumberOfWarmupRuns:        v.GetInt("warmup_runs"),
		InputWidth:                v.GetInt("input_width"),
		InputHeight:               v.GetInt("input_height"),
		OutputPath:                v.GetString("output"),
		ScoreThreshold:            float32(v.GetFloat64("score_threshold")),
		ServeAddr:                 v.GetString("serve"),
		StaticDir:                 v.GetString("static"),
		StatsdAddr:                v.GetString("statsd_addr"),
		LogLevel:                  v.GetString("log_level"),
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate reports the first invalid field as an ErrConfig.
func (s Settings) Validate() error {
	switch {
	case s.ModelName == "":
		return fmt.Errorf("%w: no model file name", pose.ErrConfig)
	case s.LoopCount < 1:
		return fmt.Errorf("%w: loop_count must be at least 1, got %d", pose.ErrConfig, s.LoopCount)
	case s.NumberOfThreads == 0 || s.NumberOfThreads < -1:
		return fmt.Errorf("%w: threads must be -1 or positive, got %d", pose.ErrConfig, s.NumberOfThreads)
	case s.InputStd == 0:
		return fmt.Errorf("%w: input_std must not be zero", pose.ErrConfig)
	case s.NumberOfResults < 0:
		return fmt.Errorf("%w: results must not be negative, got %d", pose.ErrConfig, s.NumberOfResults)
	case s.MaxProfilingBufferEntries < 0:
		return fmt.Errorf("%w: max_profiling_buffer_entries must not be negative, got %d", pose.ErrConfig, s.MaxProfilingBufferEntries)
	case s.NumberOfWarmupRuns < 0:
		return fmt.Errorf("%w: warmup_runs must not be negative, got %d", pose.ErrConfig, s.NumberOfWarmupRuns)
	case s.InputWidth <= 0 || s.InputHeight <= 0:
		return fmt.Errorf("%w: input size must be positive, got %dx%d", pose.ErrConfig, s.InputWidth, s.InputHeight)
	}
	return nil
}

// Threads returns the interpreter thread count, and false when the engine
// default should be kept.
func (s Settings) Threads() (int, bool) {
	if s.NumberOfThreads == -1 {
		return 0, false
	}
	return s.NumberOfThreads, true
}
