// internal/status/recorder.go
package status

import "github.com/tamzrod/modbus-od/internal/od"

// Recorder owns the sync status record and keeps its blob in step
// with the current Snapshot. The blob is rewritten only on change.
//
// Recorder is not synchronized; callers hold the same lock that
// guards the dictionary the record lives in.
type Recorder struct {
	obj  od.Object
	snap Snapshot
}

func NewRecorder() *Recorder {
	info := od.MustRecord(od.Status,
		readOnly(od.FieldOf[uint16](od.Status, "health", 0, od.Range{})),
		readOnly(od.FieldOf[uint16](od.Status, "last_error", 2, od.Range{})),
		readOnly(od.FieldOf[uint16](od.Status, "seconds_in_error", 4, od.Range{})),
	)

	r := &Recorder{
		obj:  od.NewObject(ObjectName, info, make([]byte, blobSize)),
		snap: Snapshot{Health: HealthUnknown},
	}
	encodeInto(r.obj.Data(), r.snap)
	return r
}

func readOnly(f od.FieldSpec) od.FieldSpec {
	f.Set = od.ReadOnlySetter
	return f
}

// Item places the record at address in a dictionary.
func (r *Recorder) Item(address uint16) od.Item {
	return od.Item{Address: address, Object: r.obj}
}

func (r *Recorder) Object() od.Object { return r.obj }

func (r *Recorder) Snapshot() Snapshot { return r.snap }

// Observe records the outcome of one sync cycle. It reports whether
// the record changed.
func (r *Recorder) Observe(err error) bool {
	return r.apply(r.snap.Observe(err))
}

// Tick advances seconds_in_error. Call it at 1 Hz.
func (r *Recorder) Tick() bool {
	return r.apply(r.snap.Tick())
}

func (r *Recorder) apply(next Snapshot) bool {
	if next == r.snap {
		return false
	}
	r.snap = next
	encodeInto(r.obj.Data(), next)
	return true
}
