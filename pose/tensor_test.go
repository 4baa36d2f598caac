package pose

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromOutput(t *testing.T) {
	tests := []struct {
		name       string
		shape      []int
		isFloat32  bool
		values     []float32
		wantPeople int
		wantErr    error
	}{
		{"multi pose", []int{1, 6, MultiPoseValues}, true, multiPoseBuffer(6, 0), 6, nil},
		{"single pose", []int{1, 1, NumJoints, ValuesPerJoint}, true, make([]float32, NumJoints*ValuesPerJoint), 1, nil},
		{"two dims", []int{6, MultiPoseValues}, true, multiPoseBuffer(6, 0), 0, ErrInvalidShape},
		{"uint8 output", []int{1, 6, MultiPoseValues}, false, nil, 0, ErrUnsupportedOutputType},
		{"bad row size", []int{1, 1, 55}, true, make([]float32, 55), 0, ErrInvalidShape},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dets, err := FromOutput(tt.shape, tt.isFloat32, tt.values)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, dets)
				return
			}
			require.NoError(t, err)
			require.Len(t, dets, tt.wantPeople)
			for _, d := range dets {
				assert.Len(t, d.Joints, NumJoints)
			}
		})
	}
}

func TestFromOutput_SinglePoseOrder(t *testing.T) {
	values := make([]float32, NumJoints*ValuesPerJoint)
	values[0], values[1], values[2] = 0.1, 0.2, 0.9
	dets, err := FromOutput([]int{1, 1, NumJoints, ValuesPerJoint}, true, values)
	require.NoError(t, err)
	assert.Equal(t, Joint{Y: 0.1, X: 0.2, Confidence: 0.9}, dets[0].Joints[0])
}
