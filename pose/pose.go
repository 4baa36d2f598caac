// Package pose turns the raw MoveNet output tensor into people and joints.
package pose

import "fmt"

const (
	// ValuesPerJoint is the size of one (y, x, confidence) triple.
	ValuesPerJoint = 3
	// TrailingValues is the size of the bounding box block that ends every
	// multi-pose row: ymin, xmin, ymax, xmax, score.
	TrailingValues = 5
	// MultiPoseValues is the row size of the multi-pose model output.
	MultiPoseValues = NumJoints*ValuesPerJoint + TrailingValues
)

// Joint is one keypoint. Y and X are normalized to the input image.
type Joint struct {
	Y          float32 `json:"y"`
	X          float32 `json:"x"`
	Confidence float32 `json:"confidence"`
}

// Detection holds the joints of one person in joint index order.
type Detection struct {
	Joints []Joint `json:"joints"`
}

// Detections holds every person found in one output tensor, in tensor order.
type Detections []Detection

// Unpack groups a multi-pose output buffer of shape (numPeople, valuesPerPerson) into
// Detections. The trailing bounding box block of each row is never read and no
// confidence filtering is applied.
func Unpack(values []float32, numPeople, valuesPerPerson int) (Detections, error) {
	return UnpackTrailing(values, numPeople, valuesPerPerson, TrailingValues)
}

// UnpackTrailing is Unpack with a custom trailing block size.
func UnpackTrailing(values []float32, numPeople, valuesPerPerson, trailing int) (Detections, error) {
	if numPeople < 0 || trailing < 0 || valuesPerPerson < trailing {
		return nil, fmt.Errorf("%w: %d people x %d values (trailing %d)", ErrInvalidShape, numPeople, valuesPerPerson, trailing)
	}
	jointValues := valuesPerPerson - trailing
	if jointValues%ValuesPerJoint != 0 {
		return nil, fmt.Errorf("%w: %d joint values is not a multiple of %d", ErrInvalidShape, jointValues, ValuesPerJoint)
	}
	if valuesPerPerson == 0 && numPeople > 0 {
		return nil, fmt.Errorf("%w: %d people with empty rows", ErrInvalidShape, numPeople)
	}
	if valuesPerPerson > 0 && numPeople > len(values)/valuesPerPerson {
		return nil, fmt.Errorf("%w: buffer holds %d values, too short for %d people x %d values",
			ErrInvalidShape, len(values), numPeople, valuesPerPerson)
	}

	dets := make(Detections, 0, numPeople)
	for p := 0; p < numPeople; p++ {
		row := values[p*valuesPerPerson : p*valuesPerPerson+jointValues]
		joints := make([]Joint, 0, jointValues/ValuesPerJoint)
		for k := 0; k < len(row); k += ValuesPerJoint {
			joints = append(joints, Joint{Y: row[k], X: row[k+1], Confidence: row[k+2]})
		}
		dets = append(dets, Detection{Joints: joints})
	}
	return dets, nil
}
