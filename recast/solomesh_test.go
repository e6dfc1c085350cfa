package recast

import (
	"os"
	"testing"
)

// flatGroundOBJ is a small walkable ground plane, large enough to exercise
// rasterization, region partitioning and contour/polygon generation with the
// default build settings used by SoloMesh.Build.
const flatGroundOBJ = `
v -10.0 0.0 -10.0
v  10.0 0.0 -10.0
v  10.0 0.0  10.0
v -10.0 0.0  10.0
f 1 2 3
f 1 3 4
`

func writeTempOBJ(t *testing.T, contents string) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "*.obj")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	defer f.Close()
	if _, err := f.WriteString(contents); err != nil {
		t.Fatalf("WriteString: %v", err)
	}
	return f.Name()
}

func TestSoloMeshBuildMonotone(t *testing.T) {
	path := writeTempOBJ(t, flatGroundOBJ)

	sm := NewSoloMesh()
	sm.partitionType = SAMPLE_PARTITION_MONOTONE
	if !sm.Load(path) {
		t.Fatalf("SoloMesh.Load failed")
	}
	if _, ok := sm.Build(); !ok {
		t.Fatalf("SoloMesh.Build failed")
	}
}

func TestSoloMeshBuildWatershed(t *testing.T) {
	path := writeTempOBJ(t, flatGroundOBJ)

	sm := NewSoloMesh()
	sm.partitionType = SAMPLE_PARTITION_WATERSHED
	if !sm.Load(path) {
		t.Fatalf("SoloMesh.Load failed")
	}
	if _, ok := sm.Build(); !ok {
		t.Fatalf("SoloMesh.Build failed")
	}
}
