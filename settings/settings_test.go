package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mpromonet/movenet-tflite/pose"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	s, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
	assert.Equal(t, "./model.tflite", s.ModelName)
	assert.Equal(t, 4, s.NumberOfThreads)
	assert.Equal(t, float32(127.5), s.InputMean)
}

func TestLoad_Flags(t *testing.T) {
	s, err := Load([]string{"--model", "movenet.tflite", "--loop_count", "3", "--threads", "-1", "--verbose"})
	require.NoError(t, err)
	assert.Equal(t, "movenet.tflite", s.ModelName)
	assert.Equal(t, 3, s.LoopCount)
	assert.True(t, s.Verbose)

	_, ok := s.Threads()
	assert.False(t, ok)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("MOVENET_THREADS", "2")
	t.Setenv("MOVENET_IMAGE", "person.bmp")

	s, err := Load([]string{"--image", "flag.bmp"})
	require.NoError(t, err)

	n, ok := s.Threads()
	assert.True(t, ok)
	assert.Equal(t, 2, n)
	assert.Equal(t, "flag.bmp", s.ImagePath)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movenet.yaml")
	require.NoError(t, os.WriteFile(path, []byte("results: 1\nscore_threshold: 0.5\n"), 0o644))

	s, err := Load([]string{"--config", path})
	require.NoError(t, err)
	assert.Equal(t, 1, s.NumberOfResults)
	assert.Equal(t, float32(0.5), s.ScoreThreshold)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	_, err := Load([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")})
	assert.ErrorIs(t, err, pose.ErrConfig)
}

func TestLoad_Help(t *testing.T) {
	_, err := Load([]string{"--help"})
	assert.ErrorIs(t, err, pflag.ErrHelp)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"empty model", func(s *Settings) { s.ModelName = "" }},
		{"zero loop count", func(s *Settings) { s.LoopCount = 0 }},
		{"zero threads", func(s *Settings) { s.NumberOfThreads = 0 }},
		{"threads below -1", func(s *Settings) { s.NumberOfThreads = -2 }},
		{"zero std", func(s *Settings) { s.InputStd = 0 }},
		{"negative results", func(s *Settings) { s.NumberOfResults = -1 }},
		{"negative profiling entries", func(s *Settings) { s.MaxProfilingBufferEntries = -1 }},
		{"negative warmup", func(s *Settings) { s.NumberOfWarmupRuns = -1 }},
		{"zero width", func(s *Settings) { s.InputWidth = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.mutate(&s)
			assert.ErrorIs(t, s.Validate(), pose.ErrConfig)
		})
	}
}

func TestLoad_InvalidValue(t *testing.T) {
	_, err := Load([]string{"--loop_count", "0"})
	assert.ErrorIs(t, err, pose.ErrConfig)
}
