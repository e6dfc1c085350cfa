// Package recast bakes a triangle mesh into a walkable navigation mesh.
//
// SoloMesh drives the pipeline end to end: load geometry, rasterize it
// into a Heightfield, compact and filter that into a CompactHeightfield,
// grow it into regions, trace region boundaries into a ContourSet, and
// polygonize the contours into a PolyMesh plus a height-accurate
// PolyMeshDetail. BuildSettings holds the tunables for every stage
// (cell size, agent dimensions, region/edge/detail thresholds); a
// BuildContext threaded through the pipeline collects per-stage timing
// and log output.
//
// A PolyMesh is ready to hand to navgraph for adjacency/pathfinding once
// its quantized vertices are converted back to world space with
// PolyMesh.ToNavfile.
package recast
