// Package status defines the typed result value used across pathfinder3d
// instead of panics or wrapped stdlib errors, in keeping with the rest of
// the toolkit's "return, don't unwind" policy.
package status

import "fmt"

// Status is a bitflag result code. The three high bits carry coarse
// outcome; the low 28 bits carry a detail code further qualifying a
// Failure.
type Status uint32

// Coarse outcome bits.
const (
	Failure    Status = 1 << 31
	Success    Status = 1 << 30
	InProgress Status = 1 << 29

	DetailMask Status = 0x0fffffff
)

// Detail bits, one per error-taxonomy entry.
const (
	BakeInputEmpty      Status = 1 << 0
	BakeStageFailure    Status = 1 << 1
	RegionIDOverflow    Status = 1 << 2
	TooManyLayers       Status = 1 << 3
	NonManifoldEdge     Status = 1 << 4
	SampleOutside       Status = 1 << 5
	NoPath              Status = 1 << 6
	AgentAddFailed      Status = 1 << 7
	DeleteUnknownAgent  Status = 1 << 8
	FileFormatError     Status = 1 << 9
	InvalidParam        Status = 1 << 10
	OutOfMemory         Status = 1 << 11
)

// OK reports whether s carries the Success bit.
func (s Status) OK() bool { return s&Success != 0 }

// Failed reports whether s carries the Failure bit.
func (s Status) Failed() bool { return s&Failure != 0 }

// Pending reports whether s carries the InProgress bit.
func (s Status) Pending() bool { return s&InProgress != 0 }

// Has reports whether the given detail bit is set.
func (s Status) Has(detail Status) bool { return s&detail != 0 }

// Error implements the error interface so a failing Status can be
// returned/wrapped anywhere an error is expected.
func (s Status) Error() string {
	if !s.Failed() {
		return "success"
	}
	switch s & DetailMask {
	case BakeInputEmpty:
		return "bake: input geometry is empty"
	case BakeStageFailure:
		return "bake: pipeline stage failed"
	case RegionIDOverflow:
		return "bake: region id counter overflowed"
	case TooManyLayers:
		return "bake: more than 62 neighbor spans in one column"
	case NonManifoldEdge:
		return "navmesh: non-manifold edge (>2 incident polygons)"
	case SampleOutside:
		return "query: point not inside any polygon"
	case NoPath:
		return "query: no path between endpoints"
	case AgentAddFailed:
		return "rvo: agent position does not sample to any polygon"
	case DeleteUnknownAgent:
		return "rvo: delete of unknown agent id"
	case FileFormatError:
		return "navfile: malformed persistence stream"
	case InvalidParam:
		return "invalid parameter"
	case OutOfMemory:
		return "out of memory"
	default:
		return fmt.Sprintf("unspecified failure 0x%x", uint32(s))
	}
}

// Fail builds a Failure status carrying the given detail bit.
func Fail(detail Status) Status { return Failure | detail }
