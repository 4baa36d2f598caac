package pose

import (
	"fmt"
	"io"
)

// ScaledJoint is a named joint expressed in image pixels.
type ScaledJoint struct {
	Name       string  `json:"name"`
	Y          float32 `json:"y"`
	X          float32 `json:"x"`
	Confidence float32 `json:"confidence"`
}

// Scale maps the normalized joints of d onto a width x height image.
func Scale(d Detection, width, height int, names []string) []ScaledJoint {
	scaled := make([]ScaledJoint, 0, len(d.Joints))
	for i, j := range d.Joints {
		scaled = append(scaled, ScaledJoint{
			Name:       JointName(names, i),
			Y:          j.Y * float32(height),
			X:          j.X * float32(width),
			Confidence: j.Confidence,
		})
	}
	return scaled
}

// Reporter prints detections as plain text.
type Reporter struct {
	Width  int
	Height int
	Names  []string
	// MaxPeople bounds how many detections are printed. Zero prints all of them.
	MaxPeople int
}

func (r Reporter) Write(w io.Writer, dets Detections) error {
	if _, err := fmt.Fprintf(w, "number of people: %d\n", len(dets)); err != nil {
		return err
	}
	n := len(dets)
	if r.MaxPeople > 0 && r.MaxPeople < n {
		n = r.MaxPeople
	}
	for i := 0; i < n; i++ {
		joints := Scale(dets[i], r.Width, r.Height, r.Names)
		if _, err := fmt.Fprintf(w, "number of joints: %d\n", len(joints)); err != nil {
			return err
		}
		for j, joint := range joints {
			_, err := fmt.Fprintf(w, "person: %d\tjoint: %d\n%s\ny coordinate: %g\nx coordinate: %g\nconfidence: %g\n",
				i, j, joint.Name, joint.Y, joint.X, joint.Confidence)
			if err != nil {
				return err
			}
		}
	}
	return nil
}
