// Defines the Entity struct that models an individual patient in the
// simulation. Tracks creation time, pathway progress, and completion.

package sim

import "fmt"

// Well-known attribute keys written by the pathway engine.
const (
	AttrPathwayStart = "pathway_start"
	AttrTotalTime    = "total_time"
)

// frame is one level of the pathway cursor: a pathway and the index of the
// next step to execute in it. Branch steps push a frame for the selected
// sub-pathway; popping an exhausted frame resumes the parent.
type frame struct {
	pathway *Pathway
	next    int
}

// Entity models a single patient's lifecycle in the simulation.
// It is owned exclusively by the pathway engine run that created it and is
// eligible for collection once its terminal step executes or the horizon is
// reached while it is still in flight.
type Entity struct {
	ID        string
	Class     string // patient class label, set by the pathway
	CreatedAt float64
	Attrs     *AttributeStore
	Completed bool

	frames []frame
}

// NewEntity creates an entity at the given simulated creation time.
func NewEntity(id string, createdAt float64) *Entity {
	return &Entity{
		ID:        id,
		CreatedAt: createdAt,
		Attrs:     NewAttributeStore(),
	}
}

func (e *Entity) String() string {
	return fmt.Sprintf("Entity(ID: %s, Class: %s, CreatedAt: %.3f, Completed: %v)",
		e.ID, e.Class, e.CreatedAt, e.Completed)
}
