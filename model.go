package main

import (
	"fmt"
	"image"
	"time"

	"github.com/mattn/go-tflite"
	"github.com/mattn/go-tflite/delegates/edgetpu"
	"github.com/rs/zerolog/log"
	"gocv.io/x/gocv"

	"github.com/mpromonet/movenet-tflite/metrics"
	"github.com/mpromonet/movenet-tflite/pose"
	"github.com/mpromonet/movenet-tflite/settings"
)

type delegate interface {
	Delete()
}

// Model owns one interpreter and everything it depends on.
// It is not safe for concurrent use.
type Model struct {
	model    *tflite.Model
	interp   *tflite.Interpreter
	delegate delegate
	settings settings.Settings
	post     PostProcessing
	invoke   func() error
	// warm is set once the warmup runs succeeded
	warm bool
}

func NewModel(s settings.Settings, post PostProcessing) (*Model, error) {
	if s.ModelName == "" {
		return nil, fmt.Errorf("%w: no model file name", pose.ErrConfig)
	}

	model := tflite.NewModelFromFile(s.ModelName)
	if model == nil {
		return nil, fmt.Errorf("%w: failed to map model %s", pose.ErrModelLoad, s.ModelName)
	}
	m := &Model{model: model, settings: s, post: post}
	m.invoke = func() error {
		if status := m.interp.Invoke(); status != tflite.OK {
			return fmt.Errorf("%w: status %v", pose.ErrInvoke, status)
		}
		return nil
	}

	options := tflite.NewInterpreterOptions()
	defer options.Delete()

	if threads, ok := s.Threads(); ok {
		options.SetNumThread(threads)
	}
	options.SetErrorReporter(func(msg string, _ interface{}) {
		log.Error().Str("source", "tflite").Msg(msg)
	}, nil)
	if s.AllowFP16 {
		log.Warn().Msg("allow_fp16 is not exposed by the TensorFlow Lite C API, ignoring")
	}

	if s.Accel {
		devices, err := edgetpu.DeviceList()
		if err != nil {
			log.Warn().Err(err).Msg("could not get EdgeTPU devices")
		}
		if len(devices) == 0 {
			log.Warn().Msg("no EdgeTPU devices found, running on CPU")
		} else if d := edgetpu.New(devices[0]); d != nil {
			options.AddDelegate(d)
			m.delegate = d
			log.Info().Interface("device", devices[0]).Msg("using EdgeTPU delegate")
		}
	}

	m.interp = tflite.NewInterpreter(model, options)
	if m.interp == nil {
		m.Close()
		return nil, fmt.Errorf("%w: failed to construct interpreter", pose.ErrInterpreterInit)
	}
	log.Debug().
		Int("inputs", m.interp.GetInputTensorCount()).
		Int("outputs", m.interp.GetOutputTensorCount()).
		Msg("interpreter created")

	dims := []int32{1, int32(s.InputHeight), int32(s.InputWidth), 3}
	if status := m.interp.ResizeInputTensor(0, dims); status != tflite.OK {
		m.Close()
		return nil, fmt.Errorf("%w: resize input to %v: status %v", pose.ErrTensorAllocation, dims, status)
	}
	if status := m.interp.AllocateTensors(); status != tflite.OK {
		m.Close()
		return nil, fmt.Errorf("%w: status %v", pose.ErrTensorAllocation, status)
	}

	input := m.interp.GetInputTensor(0)
	log.Debug().Str("name", input.Name()).Ints("shape", getTensorShape(input)).Interface("type", input.Type()).Msg("input tensor allocated")
	return m, nil
}

// Close releases the interpreter before the delegate it runs on, then the model.
func (m *Model) Close() {
	if m.interp != nil {
		m.interp.Delete()
		m.interp = nil
	}
	if m.delegate != nil {
		m.delegate.Delete()
		m.delegate = nil
	}
	if m.model != nil {
		m.model.Delete()
		m.model = nil
	}
}

// Run feeds img to the model and returns every detected person.
func (m *Model) Run(img gocv.Mat) (pose.Detections, error) {
	input := m.interp.GetInputTensor(0)
	if err := fillInput(input, img, m.settings.InputMean, m.settings.InputStd); err != nil {
		return nil, err
	}

	if err := m.invokeRuns(); err != nil {
		return nil, err
	}
	return m.post.extractResult(m.interp)
}

// invokeRuns does the warmup runs on the first call only, then loop_count timed runs.
func (m *Model) invokeRuns() error {
	if !m.warm {
		for i := 0; i < m.settings.NumberOfWarmupRuns; i++ {
			if err := m.invoke(); err != nil {
				return fmt.Errorf("warmup run %d: %w", i, err)
			}
		}
		m.warm = true
	}

	start := time.Now()
	for i := 0; i < m.settings.LoopCount; i++ {
		invokeStart := time.Now()
		if err := m.invoke(); err != nil {
			return fmt.Errorf("run %d: %w", i, err)
		}
		metrics.Timing(metrics.InvokeLatency, time.Since(invokeStart), nil)
	}
	log.Debug().
		Int("loop_count", m.settings.LoopCount).
		Dur("average", time.Since(start)/time.Duration(m.settings.LoopCount)).
		Msg("invoke done")
	return nil
}

// loadImage reads an image file in BGR order.
func loadImage(path string) (gocv.Mat, error) {
	img := gocv.IMRead(path, gocv.IMReadColor)
	if img.Empty() {
		img.Close()
		return img, fmt.Errorf("%w: %s", pose.ErrImageLoad, path)
	}
	return img, nil
}

func fillInput(input *tflite.Tensor, img gocv.Mat, mean, std float32) error {
	wantedHeight := input.Dim(1)
	wantedWidth := input.Dim(2)

	rgb := gocv.NewMat()
	defer rgb.Close()
	gocv.CvtColor(img, &rgb, gocv.ColorBGRToRGB)

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(rgb, &resized, image.Pt(wantedWidth, wantedHeight), 0, 0, gocv.InterpolationDefault)

	switch input.Type() {
	case tflite.UInt8:
		v, err := resized.DataPtrUint8()
		if err != nil {
			return fmt.Errorf("%w: %v", pose.ErrImageLoad, err)
		}
		dst := input.UInt8s()
		if len(dst) != len(v) {
			return fmt.Errorf("%w: input tensor holds %d values, image has %d", pose.ErrTensorAllocation, len(dst), len(v))
		}
		copy(dst, v)
	case tflite.Int32:
		v, err := resized.DataPtrUint8()
		if err != nil {
			return fmt.Errorf("%w: %v", pose.ErrImageLoad, err)
		}
		dst := input.Int32s()
		if len(dst) != len(v) {
			return fmt.Errorf("%w: input tensor holds %d values, image has %d", pose.ErrTensorAllocation, len(dst), len(v))
		}
		for i := range v {
			dst[i] = int32(v[i])
		}
	case tflite.Float32:
		converted := gocv.NewMat()
		defer converted.Close()
		resized.ConvertTo(&converted, gocv.MatTypeCV32FC3)
		v, err := converted.DataPtrFloat32()
		if err != nil {
			return fmt.Errorf("%w: %v", pose.ErrImageLoad, err)
		}
		dst := input.Float32s()
		if len(dst) != len(v) {
			return fmt.Errorf("%w: input tensor holds %d values, image has %d", pose.ErrTensorAllocation, len(dst), len(v))
		}
		for i := range v {
			dst[i] = (v[i] - mean) / std
		}
	default:
		return fmt.Errorf("%w: %v", pose.ErrUnsupportedInputType, input.Type())
	}
	return nil
}
