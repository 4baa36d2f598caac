package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	_ "go.uber.org/automaxprocs"

	"github.com/mpromonet/movenet-tflite/logger"
	"github.com/mpromonet/movenet-tflite/metrics"
	"github.com/mpromonet/movenet-tflite/pose"
	"github.com/mpromonet/movenet-tflite/settings"
)

func jointNames(path string) []string {
	names, err := pose.LoadJointNames(path)
	if err != nil {
		log.Warn().Err(err).Msg("using built-in joint names")
		return pose.DefaultJointNames()
	}
	if len(names) < pose.NumJoints {
		log.Warn().Str("labels", path).Int("names", len(names)).Msg("labels file names fewer joints than the model predicts")
	}
	return names
}

func run(ctx context.Context, s settings.Settings) error {
	log.Debug().Interface("settings", s).Msg("starting")
	names := jointNames(s.LabelsPath)

	model, err := NewModel(s, MoveNetPostProcessing{})
	if err != nil {
		return err
	}
	defer model.Close()

	if s.ServeAddr != "" {
		return serve(ctx, s, model, names)
	}

	img, err := loadImage(s.ImagePath)
	if err != nil {
		return err
	}
	defer img.Close()

	dets, err := model.Run(img)
	if err != nil {
		return err
	}
	log.Info().Int("people", len(dets)).Msg("inference done")

	reporter := pose.Reporter{
		Width:     img.Cols(),
		Height:    img.Rows(),
		Names:     names,
		MaxPeople: s.NumberOfResults,
	}
	if err := reporter.Write(os.Stdout, dets); err != nil {
		return err
	}

	if s.OutputPath != "" {
		if err := writeAnnotated(s.OutputPath, img, dets, s.ScoreThreshold); err != nil {
			return err
		}
		log.Info().Str("output", s.OutputPath).Msg("annotated image written")
	}
	return nil
}

func main() {
	s, err := settings.Load(os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := logger.Init(s.LogLevel, s.Verbose); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := metrics.Init(s.StatsdAddr); err != nil {
		log.Warn().Err(err).Msg("metrics disabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, s)
	stop()
	metrics.Close()

	if err != nil {
		log.Error().Err(err).Msg("inference failed")
		os.Exit(1)
	}
}
