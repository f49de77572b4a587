package systems

// SystemInfo names one stage of the tick.
type SystemInfo struct {
	ID          string // perf phase key
	Name        string
	Description string
}

// SystemRegistry lists the tick stages in execution order.
// IDs double as perf phase keys so timings can be reported by name.
type SystemRegistry struct {
	systems []SystemInfo
	byID    map[string]int
}

// NewSystemRegistry creates a registry holding every tick stage.
func NewSystemRegistry() *SystemRegistry {
	r := &SystemRegistry{byID: make(map[string]int)}
	r.Register(SystemInfo{ID: "irrigation", Name: "Irrigation", Description: "refills water and soil stock"})
	r.Register(SystemInfo{ID: "planting", Name: "Planting", Description: "places seeds requested by players"})
	r.Register(SystemInfo{ID: "lifecycle", Name: "Lifecycle", Description: "advances organisms through their phases"})
	r.Register(SystemInfo{ID: "ledger", Name: "Ledger", Description: "credits harvests to player inventories"})
	r.Register(SystemInfo{ID: "telemetry", Name: "Telemetry", Description: "samples the population and writes outputs"})
	return r
}

// Register adds or replaces a stage. Replacing keeps the original position.
func (r *SystemRegistry) Register(info SystemInfo) {
	if i, ok := r.byID[info.ID]; ok {
		r.systems[i] = info
		return
	}
	r.byID[info.ID] = len(r.systems)
	r.systems = append(r.systems, info)
}

// Get returns the stage with id.
func (r *SystemRegistry) Get(id string) (SystemInfo, bool) {
	i, ok := r.byID[id]
	if !ok {
		return SystemInfo{}, false
	}
	return r.systems[i], true
}

// Name returns the display name of id, or id itself if unknown.
func (r *SystemRegistry) Name(id string) string {
	if info, ok := r.Get(id); ok {
		return info.Name
	}
	return id
}

// All returns the stages in execution order.
func (r *SystemRegistry) All() []SystemInfo {
	return r.systems
}
