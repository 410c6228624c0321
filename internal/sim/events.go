package sim

// RegionID identifies a province in the region catalog.
type RegionID string

// ProvinceEvent is a snapshot of one province, emitted whenever its
// observable state changes.
type ProvinceEvent struct {
	Region        RegionID `json:"region"`
	Infection     float64  `json:"infection"`
	OutpostCount  int      `json:"outpostCount"`
	Disabled      bool     `json:"disabled"`
	FullyInfected bool     `json:"fullyInfected"`
}

// GlobalEvent is a snapshot of the run-wide aggregates, emitted whenever
// any of them changes.
type GlobalEvent struct {
	CureProgress    float64 `json:"cureProgress"`
	ActiveOutposts  int     `json:"activeOutposts"`
	TotalOutposts   int     `json:"totalOutposts"`
	CurrencyBalance int     `json:"currencyBalance"`
}

// OutcomeKind is the terminal result of a run.
type OutcomeKind int

const (
	OutcomeNone OutcomeKind = iota
	OutcomeVictory
	OutcomeDefeat
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeVictory:
		return "victory"
	case OutcomeDefeat:
		return "defeat"
	default:
		return "none"
	}
}

// OutcomeRecord captures the statistics of a run at the moment its
// terminal condition was first detected. The engine latches it exactly
// once per run.
type OutcomeRecord struct {
	Kind            OutcomeKind `json:"kind"`
	CureProgress    float64     `json:"cureProgress"`
	Day             int         `json:"day"`
	ActiveOutposts  int         `json:"activeOutposts"`
	TotalOutposts   int         `json:"totalOutposts"`
	CurrencyBalance int         `json:"currencyBalance"`
	ProvincesSaved  int         `json:"provincesSaved"`
	ProvincesLost   int         `json:"provincesLost"`
}

// Listener receives engine notifications. Callbacks run synchronously
// inside the engine call that caused them, in registration order, so
// implementations must not call back into the engine.
type Listener interface {
	ProvinceChanged(ProvinceEvent)
	GlobalChanged(GlobalEvent)
	OutcomeReached(OutcomeRecord)
}
