package pose

import "fmt"

// FromOutput picks the MoveNet layout from the output tensor shape.
//
//	multi-pose:  (1, people, 56) 17 joints and a bounding box per person
//	single-pose: (1, 1, 17, 3)
func FromOutput(shape []int, isFloat32 bool, values []float32) (Detections, error) {
	if !isFloat32 {
		return nil, fmt.Errorf("%w: only float32 output is handled", ErrUnsupportedOutputType)
	}
	switch len(shape) {
	case 3:
		return Unpack(values, shape[1], shape[2])
	case 4:
		if shape[2] < 0 || shape[3] < 0 {
			return nil, fmt.Errorf("%w: unexpected output dims %v", ErrInvalidShape, shape)
		}
		return UnpackTrailing(values, shape[1], shape[2]*shape[3], 0)
	default:
		return nil, fmt.Errorf("%w: unexpected output dims %v", ErrInvalidShape, shape)
	}
}
