package recast

// Config is the per-stage tunable set a SoloMesh.Build run resolves
// BuildSettings into before rasterizing. Most fields are in voxel units
// (vx), the rest in world units (wu); SoloMesh.Build converts the
// world-unit measurements of BuildSettings into these using Cs/Ch.
type Config struct {
	// Heightfield width along x, in voxels. Derived from the input
	// bounds and Cs; must be >= 0.
	Width int32

	// Heightfield height along z, in voxels. Derived from the input
	// bounds and Cs; must be >= 0.
	Height int32

	// Tile edge length on the xz-plane, in voxels. Zero for a
	// single-tile build. Must be >= 0.
	TileSize int32

	// Width of the non-navigable border voxels added around the
	// heightfield. Must be >= 0.
	BorderSize int32

	// Cell size on the xz-plane, in world units. Must be > 0.
	Cs float32

	// Cell height along y, in world units. Must be > 0.
	Ch float32

	// Minimum corner of the build's AABB, in world units.
	BMin [3]float32

	// Maximum corner of the build's AABB, in world units.
	BMax [3]float32

	// Steepest slope, in degrees, still considered walkable ground.
	// Must be in [0, 90).
	WalkableSlopeAngle float32

	// Minimum floor-to-ceiling clearance, in voxels, for a span to
	// count as walkable. Must be >= 3.
	WalkableHeight int32

	// Tallest ledge, in voxels, an agent can still step up or down.
	// Must be >= 0.
	WalkableClimb int32

	// Distance, in voxels, the walkable area is eroded inward from
	// obstructions and unwalkable edges. Must be >= 1.
	WalkableRadius int32

	// Longest contour edge allowed along the mesh border before it is
	// split, in voxels. Zero disables the limit. Must be >= 0.
	MaxEdgeLen int32

	// Maximum deviation, in voxels, a simplified contour edge may have
	// from the raw, unsimplified contour. Must be >= 0.
	MaxSimplificationError float32

	// Smallest span count, in voxels, a region is allowed to keep on
	// its own before being merged or discarded. Must be >= 0.
	MinRegionArea int32

	// Span count threshold, in voxels, below which a region is folded
	// into a larger neighbor rather than kept isolated. Must be >= 0.
	MergeRegionArea int32

	// Upper bound on vertices per output polygon. Must be >= 3.
	MaxVertsPerPoly int32

	// Sampling distance used when building the height-detail mesh, in
	// world units. Zero skips detail sampling; otherwise must be >= 0.9.
	DetailSampleDist float32

	// Maximum world-unit deviation the detail mesh surface may have
	// from the source heightfield. Must be >= 0.
	DetailSampleMaxError float32
}
