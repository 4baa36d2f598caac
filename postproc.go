/*
 * SPDX-License-Identifier: Unlicense
 *
 * This is free and unencumbered software released into the public domain.
 *
 * Anyone is free to copy, modify, publish, use, compile, sell, or distribute this
 * software, either in source code form or as a compiled binary, for any purpose,
 * commercial or non-commercial, and by any means.
 *
 * For more information, please refer to <http://unlicense.org/>
 */

package main

import (
	"github.com/mattn/go-tflite"

	"github.com/mpromonet/movenet-tflite/pose"
)

// PostProcessing turns the output tensors of an invoked interpreter into detections.
type PostProcessing interface {
	extractResult(interp *tflite.Interpreter) (pose.Detections, error)
}

// getTensorShape lists the dims of tensor, outermost first.
func getTensorShape(tensor *tflite.Tensor) []int {
	shape := make([]int, tensor.NumDims())
	for i := range shape {
		shape[i] = tensor.Dim(i)
	}
	return shape
}

// copySlice detaches f from the tensor buffer, which the next Invoke overwrites.
func copySlice(f []float32) []float32 {
	ff := make([]float32, len(f))
	copy(ff, f)
	return ff
}
