package recast

import (
	"github.com/aurelien-rainone/math32"
)

type SamplePartitionType int

const (
	SAMPLE_PARTITION_WATERSHED SamplePartitionType = iota
	SAMPLE_PARTITION_MONOTONE
	SAMPLE_PARTITION_LAYERS
)

// BuildSettings collects the tunables that drive SoloMesh.Build, loadable
// from a YAML build-settings file (see cmd/bake).
type BuildSettings struct {
	CellSize     float32 `yaml:"cell_size"`
	CellHeight   float32 `yaml:"cell_height"`

	AgentHeight   float32 `yaml:"agent_height"`
	AgentMaxClimb float32 `yaml:"agent_max_climb"`
	AgentRadius   float32 `yaml:"agent_radius"`

	RegionMinSize   int32 `yaml:"region_min_size"`
	RegionMergeSize int32 `yaml:"region_merge_size"`

	EdgeMaxLen   int32   `yaml:"edge_max_len"`
	EdgeMaxError float32 `yaml:"edge_max_error"`
	VertsPerPoly int32   `yaml:"verts_per_poly"`

	DetailSampleDist     float32 `yaml:"detail_sample_dist"`
	DetailSampleMaxError float32 `yaml:"detail_sample_max_error"`

	WalkableSlopeAngle float32 `yaml:"walkable_slope_angle"`

	// Partition selects the region partitioning algorithm: "watershed",
	// "monotone" or "layers". Defaults to "monotone" when empty or
	// unrecognized. "layers" is accepted but runs no region partitioning,
	// so every span keeps region 0 and no polygons are produced.
	Partition string `yaml:"partition"`
}

// DefaultBuildSettings returns the settings this package used before
// BuildSettings was configurable, tuned for human-scale geometry in world
// units (agent roughly 2m tall, 0.6m in radius).
func DefaultBuildSettings() BuildSettings {
	return BuildSettings{
		CellSize:             0.3,
		CellHeight:           0.2,
		AgentHeight:          2.0,
		AgentMaxClimb:        0.9,
		AgentRadius:          0.6,
		RegionMinSize:        8,
		RegionMergeSize:      20,
		EdgeMaxLen:           12,
		EdgeMaxError:         1.3,
		VertsPerPoly:         6,
		DetailSampleDist:     6,
		DetailSampleMaxError: 1,
		WalkableSlopeAngle:   45,
		Partition:            "monotone",
	}
}

func (s BuildSettings) partitionType() SamplePartitionType {
	switch s.Partition {
	case "watershed":
		return SAMPLE_PARTITION_WATERSHED
	case "layers":
		return SAMPLE_PARTITION_LAYERS
	default:
		return SAMPLE_PARTITION_MONOTONE
	}
}

type SoloMesh struct {
	ctx           *BuildContext
	geom          InputGeom
	meshName      string
	cfg           Config
	settings      BuildSettings
	partitionType SamplePartitionType
	pmesh         *PolyMesh
	dmesh         *PolyMeshDetail
}

func NewSoloMesh() *SoloMesh {
	sm := &SoloMesh{}
	sm.ctx = NewBuildContext(true)
	sm.settings = DefaultBuildSettings()
	sm.partitionType = SAMPLE_PARTITION_MONOTONE
	return sm
}

// SetPartitionType selects the region partitioning algorithm used by Build.
func (sm *SoloMesh) SetPartitionType(t SamplePartitionType) {
	sm.partitionType = t
}

// SetBuildSettings replaces the rasterization, region and polygonization
// tunables Build uses, and sets the partition type from settings.Partition.
func (sm *SoloMesh) SetBuildSettings(s BuildSettings) {
	sm.settings = s
	sm.partitionType = s.partitionType()
}

// PolyMesh returns the polygon mesh produced by the last successful Build
// call, or nil if Build has not been called yet.
func (sm *SoloMesh) PolyMesh() *PolyMesh {
	return sm.pmesh
}

// DetailMesh returns the detail mesh produced by the last successful Build
// call, or nil if Build has not been called yet.
func (sm *SoloMesh) DetailMesh() *PolyMeshDetail {
	return sm.dmesh
}

func (sm *SoloMesh) Load(path string) bool {
	// load geometry
	if err := sm.geom.LoadOBJMesh(path); err != nil {
		sm.ctx.Errorf("Load: %v", err)
		return false
	}
	sm.ctx.DumpLog("Geom load log %s:", path)
	return true
}

func (sm *SoloMesh) Build() (*PolyMesh, bool) {

	bmin := sm.geom.NavMeshBoundsMin()
	bmax := sm.geom.NavMeshBoundsMax()
	verts := sm.geom.Mesh().Verts()
	nverts := sm.geom.Mesh().VertCount()
	tris := sm.geom.Mesh().Tris()
	ntris := sm.geom.Mesh().TriCount()

	//
	// Step 1. Initialize build config.
	//

	st := sm.settings
	if st.CellSize == 0 {
		st = DefaultBuildSettings()
	}

	sm.cfg.Cs = st.CellSize
	sm.cfg.Ch = st.CellHeight
	sm.cfg.WalkableSlopeAngle = st.WalkableSlopeAngle
	sm.cfg.WalkableHeight = int32(math32.Ceil(st.AgentHeight / sm.cfg.Ch))
	sm.cfg.WalkableClimb = int32(math32.Floor(st.AgentMaxClimb / sm.cfg.Ch))
	sm.cfg.WalkableRadius = int32(math32.Ceil(st.AgentRadius / sm.cfg.Cs))
	sm.cfg.MaxEdgeLen = int32(float32(st.EdgeMaxLen) / st.CellSize)
	sm.cfg.MaxSimplificationError = st.EdgeMaxError
	sm.cfg.MinRegionArea = st.RegionMinSize * st.RegionMinSize       // Note: area = size*size
	sm.cfg.MergeRegionArea = st.RegionMergeSize * st.RegionMergeSize // Note: area = size*size
	sm.cfg.MaxVertsPerPoly = st.VertsPerPoly

	if st.DetailSampleDist < 0.9 {
		sm.cfg.DetailSampleDist = 0
	} else {
		sm.cfg.DetailSampleDist = st.CellSize * st.DetailSampleDist
	}
	sm.cfg.DetailSampleMaxError = st.CellHeight * st.DetailSampleMaxError

	// Set the area where the navigation will be build.
	// Here the bounds of the input mesh are used, but the
	// area could be specified by an user defined box, etc.
	copy(sm.cfg.BMin[:], bmin)
	copy(sm.cfg.BMax[:], bmax)
	sm.cfg.Width, sm.cfg.Height = CalcGridSize(sm.cfg.BMin, sm.cfg.BMax, sm.cfg.Cs)

	sm.ctx.Progressf("config: %+v", sm.cfg)

	// Reset build times gathering.
	sm.ctx.ResetTimers()

	// Start the build process.
	sm.ctx.StartTimer(TimerTotal)

	sm.ctx.Progressf("Building navigation:")
	sm.ctx.Progressf(" - %d x %d cells", sm.cfg.Width, sm.cfg.Height)
	sm.ctx.Progressf(" - %.1fK verts, %.1fK tris", float64(nverts)/1000.0, float64(ntris)/1000.0)

	//
	// Step 2. Rasterize input polygon soup.
	//

	// Allocate voxel heightfield where we rasterize our input data to.
	m_solid := NewHeightfield()
	if m_solid == nil {
		sm.ctx.Errorf("buildNavigation: Out of memory 'solid'.")
		return nil, false
	}
	if !m_solid.Create(sm.ctx, sm.cfg.Width, sm.cfg.Height, sm.cfg.BMin[:], sm.cfg.BMax[:], sm.cfg.Cs, sm.cfg.Ch) {
		sm.ctx.Errorf("buildNavigation: Could not create solid heightfield.")
		return nil, false
	}

	// Allocate array that can hold triangle area types.
	// If you have multiple meshes you need to process, allocate
	// and array which can hold the max number of triangles you need to process.
	m_triareas := make([]uint8, ntris)

	// Find triangles which are walkable based on their slope and rasterize them.
	// If your input data is multiple meshes, you can transform them here, calculate
	// the are type for each of the meshes and rasterize them.
	MarkWalkableTriangles(sm.ctx, sm.cfg.WalkableSlopeAngle, verts, nverts, tris, ntris, m_triareas)

	if !RasterizeTriangles(sm.ctx, verts, nverts, tris, m_triareas, ntris, m_solid, sm.cfg.WalkableClimb) {
		sm.ctx.Errorf("buildNavigation: Could not rasterize triangles.")
		return nil, false
	}

	//
	// Step 3. Filter walkables surfaces.
	//

	// Once all geoemtry is rasterized, we do initial pass of filtering to
	// remove unwanted overhangs caused by the conservative rasterization
	// as well as filter spans where the character cannot possibly stand.
	FilterLowHangingWalkableObstacles(sm.ctx, sm.cfg.WalkableClimb, m_solid)
	FilterLedgeSpans(sm.ctx, sm.cfg.WalkableHeight, sm.cfg.WalkableClimb, m_solid)
	FilterWalkableLowHeightSpans(sm.ctx, sm.cfg.WalkableHeight, m_solid)

	// Compact the heightfield so that it is faster to handle from now on.
	// This will result more cache coherent data as well as the neighbours
	// between walkable cells will be calculated.

	m_chf := &CompactHeightfield{}
	if !BuildCompactHeightfield(sm.ctx, sm.cfg.WalkableHeight, sm.cfg.WalkableClimb, m_solid, m_chf) {
		sm.ctx.Errorf("buildNavigation: Could not build compact data.")
		return nil, false
	}

	// Erode the walkable area by agent radius.
	if !ErodeWalkableArea(sm.ctx, sm.cfg.WalkableRadius, m_chf) {
		sm.ctx.Errorf("buildNavigation: Could not erode.")
		return nil, false
	}

	//// (Optional) Mark areas.
	vols := sm.geom.ConvexVolumes()

	// CONTROL: ConvexVOlumnesCount() is also 0 on org library
	for i := int32(0); i < sm.geom.ConvexVolumesCount(); i++ {
		MarkConvexPolyArea(sm.ctx, vols[i].Verts[:], vols[i].NVerts, vols[i].HMin, vols[i].HMax, uint8(vols[i].Area), m_chf)
	}

	// Partition the heightfield so that we can use simple algorithm later to triangulate the walkable areas.
	// There are 3 martitioning methods, each with some pros and cons:
	// 1) Watershed partitioning
	//   - the classic Recast partitioning
	//   - creates the nicest tessellation
	//   - usually slowest
	//   - partitions the heightfield into nice regions without holes or overlaps
	//   - the are some corner cases where this method creates produces holes and overlaps
	//      - holes may appear when a small obstacles is close to large open area (triangulation can handle this)
	//      - overlaps may occur if you have narrow spiral corridors (i.e stairs), this make triangulation to fail
	//   * generally the best choice if you precompute the nacmesh, use this if you have large open areas
	// 2) Monotone partioning
	//   - fastest
	//   - partitions the heightfield into regions without holes and overlaps (guaranteed)
	//   - creates long thin polygons, which sometimes causes paths with detours
	//   * use this if you want fast navmesh generation
	// 3) Layer partitoining
	//   - quite fast
	//   - partitions the heighfield into non-overlapping regions
	//   - relies on the triangulation code to cope with holes (thus slower than monotone partitioning)
	//   - produces better triangles than monotone partitioning
	//   - does not have the corner cases of watershed partitioning
	//   - can be slow and create a bit ugly tessellation (still better than monotone)
	//     if you have large open areas with small obstacles (not a problem if you use tiles)
	//   * good choice to use for tiled navmesh with medium and small sized tiles

	if sm.partitionType == SAMPLE_PARTITION_WATERSHED {
		// Prepare for region partitioning, by calculating distance field along the walkable surface.
		if !BuildDistanceField(sm.ctx, m_chf) {
			sm.ctx.Errorf("buildNavigation: Could not build distance field.")
			return nil, false
		}

		// Partition the walkable surface into simple regions without holes.
		if !BuildRegions(sm.ctx, m_chf, 0, sm.cfg.MinRegionArea, sm.cfg.MergeRegionArea) {
			sm.ctx.Errorf("buildNavigation: Could not build watershed regions.")
			return nil, false
		}
	} else if sm.partitionType == SAMPLE_PARTITION_MONOTONE {
		// Partition the walkable surface into simple regions without holes.
		// Monotone partitioning does not need distancefield.
		if !BuildRegionsMonotone(sm.ctx, m_chf, 0, sm.cfg.MinRegionArea, sm.cfg.MergeRegionArea) {
			sm.ctx.Errorf("buildNavigation: Could not build monotone regions.")
			return nil, false
		}
	} else {
		// SAMPLE_PARTITION_LAYERS
		// Partition the walkable surface into simple regions without holes.
		//if !rcBuildLayerRegions(m_ctx, *m_chf, 0, m_cfg.minRegionArea) {
		//m_ctx.log(RC_LOG_ERROR, "buildNavigation: Could not build layer regions.")
		//return nil, false
		//}
	}

	//
	// Step 5. Trace and simplify region contours.
	//

	// Create contours.
	m_cset := &ContourSet{}
	if !BuildContours(sm.ctx, m_chf, sm.cfg.MaxSimplificationError, sm.cfg.MaxEdgeLen, m_cset, RC_CONTOUR_TESS_WALL_EDGES) {
		sm.ctx.Errorf("buildNavigation: Could not create contours.")
		return nil, false
	}

	//
	// Step 6. Build polygons mesh from contours.
	//

	// Build polygon navmesh from the contours.
	var (
		ret     bool
		m_pmesh *PolyMesh
	)

	m_pmesh, ret = BuildPolyMesh(sm.ctx, m_cset, sm.cfg.MaxVertsPerPoly)
	if !ret {
		sm.ctx.Errorf("buildNavigation: Could not triangulate contours.")
		return nil, false
	}

	//
	// Step 7. Create detail mesh which allows to access approximate height on each polygon.
	//

	sm.dmesh, ret = BuildPolyMeshDetail(sm.ctx, m_pmesh, m_chf, sm.cfg.DetailSampleDist, sm.cfg.DetailSampleMaxError)
	if !ret {
		sm.ctx.Errorf("buildNavigation: Could not build detail mesh.")
		return nil, false
	}

	sm.ctx.StopTimer(TimerTotal)
	// Show performance stats.
	LogBuildTimes(sm.ctx, sm.ctx.AccumulatedTime(TimerTotal))
	sm.ctx.Progressf(">> Polymesh: %d vertices  %d polygons", m_pmesh.NVerts, m_pmesh.NPolys)

	sm.pmesh = m_pmesh

	//m_tileBuildTime := sm.ctx.AccumulatedTime(TimerTotal) / 1000.0
	//dataSize = navDataSize
	sm.ctx.DumpLog("Navmesh Build log")
	return m_pmesh, true
}
