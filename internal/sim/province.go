package sim

// province is the engine-owned mutable record of one region. Snapshots
// leave the engine as ProvinceEvent values; the record itself never
// escapes.
type province struct {
	id        RegionID
	bonus     bool
	infection float64
	outposts  int
	disabled  bool
}

// fullyInfected reports whether the province is past the near-maximal
// infection threshold.
func (p *province) fullyInfected(threshold float64) bool {
	return p.infection >= threshold
}

// snapshot converts the record into its outbound event form.
func (p *province) snapshot(fullyInfectedThreshold float64) ProvinceEvent {
	return ProvinceEvent{
		Region:        p.id,
		Infection:     p.infection,
		OutpostCount:  p.outposts,
		Disabled:      p.disabled,
		FullyInfected: p.fullyInfected(fullyInfectedThreshold),
	}
}
