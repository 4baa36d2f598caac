/* ---------------------------------------------------------------------------
** This software is in the public domain, furnished "as is", without technical
** support, and with no warranty, express or implied, as to its usefulness for
** any purpose.
** -------------------------------------------------------------------------*/

package main

import (
	"fmt"

	"github.com/mattn/go-tflite"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mpromonet/movenet-tflite/pose"
)

// MoveNetPostProcessing reads the keypoints of the single and multi-pose MoveNet models.
type MoveNetPostProcessing struct {
	PostProcessing
}

func (p MoveNetPostProcessing) extractResult(interp *tflite.Interpreter) (pose.Detections, error) {
	output := interp.GetOutputTensor(0)
	shape := getTensorShape(output)
	log.Debug().Str("name", output.Name()).Ints("shape", shape).Interface("type", output.Type()).Msg("output tensor")

	isFloat32 := output.Type() == tflite.Float32
	var loc []float32
	if isFloat32 {
		loc = copySlice(output.Float32s())
		if zerolog.GlobalLevel() <= zerolog.DebugLevel {
			log.Debug().Floats32("raw", loc).Msg("output values")
		}
	}

	dets, err := pose.FromOutput(shape, isFloat32, loc)
	if err != nil {
		return nil, fmt.Errorf("output %s of type %v: %w", output.Name(), output.Type(), err)
	}
	return dets, nil
}
