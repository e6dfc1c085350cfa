package recast

// Contour build flags.
// @see rcBuildContours
//enum rcBuildContoursFlags
const (
	RC_CONTOUR_TESS_WALL_EDGES int32 = 0x01 ///< Tessellate solid (impassable) edges during contour simplification.
	RC_CONTOUR_TESS_AREA_EDGES int32 = 0x02 ///< Tessellate edges between areas during contour simplification.
)

// Applied to the region id field of contour vertices in order to extract the region id.
// The region id field of a vertex may have several flags applied to it.  So the
// fields value can't be used directly.
// @see rcContour::verts, rcContour::rverts
const RC_CONTOUR_REG_MASK int32 = 0xffff

// An value which indicates an invalid index within a mesh.
// @note This does not necessarily indicate an error.
// @see rcPolyMesh::polys
const RC_MESH_NULL_IDX uint16 = 0xffff

// meshNullIdx is the lowercase spelling used throughout mesh.go,
// meshdetail.go and polymesh.go.
const meshNullIdx = RC_MESH_NULL_IDX

// borderReg, applied to a region id, marks spans/regions painted along the
// heightfield border so they can be recognized and culled from the final
// mesh. See region.go.
const borderReg uint16 = 0x8000

// borderVertex and areaBorder are flags stored above the 16-bit region id
// in a raw contour vertex's packed region field (see contour.go); masking
// a vertex's region field with contourRegMask strips them back off.
const (
	borderVertex   int32 = 0x10000
	areaBorder     int32 = 0x20000
	contourRegMask int32 = RC_CONTOUR_REG_MASK
)

// notConnected is the lowercase spelling of RC_NOT_CONNECTED used
// throughout contour.go, region.go and meshdetail.go.
const notConnected = RC_NOT_CONNECTED

// nullArea is the lowercase spelling of RC_NULL_AREA used in region.go.
const nullArea = RC_NULL_AREA

// multipleRegs marks a polygon vertex or contour point whose region
// cannot be unambiguously resolved to a single neighbor, because more
// than one candidate region touches it. Used by removeVertex in
// mesh.go and by the height sampling in meshdetail.go.
const multipleRegs = 0

// Represents the null area.
// When a data element is given this value it is considered to no longer be
// assigned to a usable area.  (E.g. It is unwalkable.)
const RC_NULL_AREA uint8 = 0

// The default area id used to indicate a walkable polygon.
// This is also the maximum allowed area id, and the only non-null area id
// recognized by some steps in the build process.
const RC_WALKABLE_AREA uint8 = 63

// The value returned by #rcGetCon if the specified direction is not connected
// to another span. (Has no neighbor.)
const RC_NOT_CONNECTED int32 = 0x3f