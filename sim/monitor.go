// Monitoring record types for one replication. Pure data: this file has no
// behavior beyond appending, so downstream reporting stays decoupled from
// the kernel.

package sim

// ResourceEvent captures one completed service at a resource.
type ResourceEvent struct {
	EntityID    string  `yaml:"entity_id"`
	Resource    string  `yaml:"resource"`
	EnqueueTime float64 `yaml:"enqueue_time"`
	StartTime   float64 `yaml:"start_time"`
	EndTime     float64 `yaml:"end_time"`
	QueueLen    int     `yaml:"queue_len"` // waiters left behind at release time
}

// EntitySnapshot is the per-entity attribute snapshot taken at completion,
// or at the horizon for entities still in flight (Completed false).
type EntitySnapshot struct {
	ID         string             `yaml:"id"`
	Class      string             `yaml:"class"`
	CreatedAt  float64            `yaml:"created_at"`
	Completed  bool               `yaml:"completed"`
	Attributes map[string]float64 `yaml:"attributes"`
}

// MonitoringRecord is the append-only log of one replication. Immutable once
// the replication ends; consumed by the report package.
type MonitoringRecord struct {
	Replication int     `yaml:"replication"`
	MasterSeed  int64   `yaml:"master_seed"`
	Horizon     float64 `yaml:"horizon"`
	Arrivals    int     `yaml:"arrivals"`

	Events   []ResourceEvent  `yaml:"events"`
	Entities []EntitySnapshot `yaml:"entities"`

	// BusyTime and Capacity are keyed by resource name.
	BusyTime map[string]float64 `yaml:"busy_time"`
	Capacity map[string]int     `yaml:"capacity"`
}

// NewMonitoringRecord creates an empty record for one replication.
func NewMonitoringRecord(replication int, masterSeed int64, horizon float64) *MonitoringRecord {
	return &MonitoringRecord{
		Replication: replication,
		MasterSeed:  masterSeed,
		Horizon:     horizon,
		Events:      make([]ResourceEvent, 0),
		Entities:    make([]EntitySnapshot, 0),
		BusyTime:    make(map[string]float64),
		Capacity:    make(map[string]int),
	}
}

// RecordService appends one completed service event.
func (m *MonitoringRecord) RecordService(ev ResourceEvent) {
	m.Events = append(m.Events, ev)
}

// RecordEntity appends a snapshot of one entity.
func (m *MonitoringRecord) RecordEntity(e *Entity) {
	m.Entities = append(m.Entities, EntitySnapshot{
		ID:         e.ID,
		Class:      e.Class,
		CreatedAt:  e.CreatedAt,
		Completed:  e.Completed,
		Attributes: e.Attrs.Snapshot(),
	})
}
