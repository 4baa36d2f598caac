package pose

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJointName(t *testing.T) {
	names := DefaultJointNames()
	assert.Equal(t, "nose", JointName(names, 0))
	assert.Equal(t, "right ankle", JointName(names, 16))
	assert.Equal(t, "unknown joint", JointName(names, 17))
	assert.Equal(t, "unknown joint", JointName(names, -1))
}

func TestDefaultJointNames_IsCopy(t *testing.T) {
	names := DefaultJointNames()
	names[0] = "changed"
	assert.Equal(t, "nose", JointNames[0])
}

func TestSkeleton_IndicesInRange(t *testing.T) {
	for _, limb := range Skeleton {
		assert.GreaterOrEqual(t, limb[0], 0)
		assert.Less(t, limb[0], NumJoints)
		assert.GreaterOrEqual(t, limb[1], 0)
		assert.Less(t, limb[1], NumJoints)
	}
}

func TestLoadJointNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.txt")
	require.NoError(t, os.WriteFile(path, []byte("nez\n\n oeil gauche \n"), 0o644))

	names, err := LoadJointNames(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"nez", "oeil gauche"}, names)
}

func TestLoadJointNames_Missing(t *testing.T) {
	_, err := LoadJointNames(filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
