package pose

import (
	"bufio"
	"os"
	"strings"
)

// NumJoints is the number of keypoints MoveNet predicts for each person.
const NumJoints = 17

// JointNames maps a joint index to its name.
var JointNames = [NumJoints]string{
	"nose",
	"left eye",
	"right eye",
	"left ear",
	"right ear",
	"left shoulder",
	"right shoulder",
	"left elbow",
	"right elbow",
	"left wrist",
	"right wrist",
	"left hip",
	"right hip",
	"left knee",
	"right knee",
	"left ankle",
	"right ankle",
}

// Skeleton lists the joint pairs connected by a limb.
var Skeleton = [][2]int{
	{0, 1}, {0, 2}, {1, 3}, {2, 4},
	{5, 6}, {5, 7}, {7, 9}, {6, 8}, {8, 10},
	{5, 11}, {6, 12}, {11, 12},
	{11, 13}, {13, 15}, {12, 14}, {14, 16},
}

// DefaultJointNames returns a copy of JointNames as a slice.
func DefaultJointNames() []string {
	names := make([]string, NumJoints)
	copy(names, JointNames[:])
	return names
}

// JointName returns the name of joint idx, or "unknown joint" when names has no entry for it.
func JointName(names []string, idx int) string {
	label := "unknown joint"
	if idx >= 0 && idx < len(names) {
		label = names[idx]
	}
	return label
}

// LoadJointNames reads one joint name per line. Blank lines are skipped.
func LoadJointNames(filename string) ([]string, error) {
	names := []string{}
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		names = append(names, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return names, nil
}
