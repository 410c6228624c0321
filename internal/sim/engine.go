// Package sim implements the outbreak-vs-cure simulation core: per
// province infection levels, the global cure meter, the outpost economy,
// and the win/loss rules. The engine is driven from outside by time
// ticks and build commands and reports changes through listeners.
package sim

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"curefront/internal/config"
)

// Engine owns all mutable simulation state for one run. All methods are
// safe for concurrent use; a single mutex serializes ticks and builds so
// the global build order and the aggregates never interleave.
type Engine struct {
	mu  sync.Mutex
	cfg config.Balance

	provinces map[RegionID]*province
	order     []RegionID // region ids in sorted order, fixed at init

	// buildOrder records one region id per outpost in construction
	// order. Slot positions for diminishing returns come from here.
	buildOrder []RegionID

	cureProgress   float64
	currency       int
	activeOutposts int
	totalOutposts  int

	outcome   OutcomeRecord
	listeners []Listener
}

// New creates an engine from a validated balance configuration. The
// seed drives the initial per-province infection draw: the same seed
// and catalog always produce the same world.
func New(cfg config.Balance, seed int64) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}

	e := &Engine{
		cfg:       cfg,
		provinces: make(map[RegionID]*province, len(cfg.Regions)),
		order:     make([]RegionID, 0, len(cfg.Regions)),
		currency:  cfg.Costs.StartingCurrency,
	}
	for _, r := range cfg.Regions {
		id := RegionID(r.ID)
		e.provinces[id] = &province{id: id, bonus: r.Bonus}
		e.order = append(e.order, id)
	}
	sort.Slice(e.order, func(i, j int) bool { return e.order[i] < e.order[j] })

	// Seed starting infection in sorted region order so the draw is
	// reproducible regardless of catalog order.
	rng := rand.New(rand.NewSource(seed))
	span := cfg.Rates.InitialInfectionMax - cfg.Rates.InitialInfectionMin
	for _, id := range e.order {
		e.provinces[id].infection = cfg.Rates.InitialInfectionMin + rng.Float64()*span
	}
	return e, nil
}

// AddListener registers a notification sink. Listeners are invoked
// synchronously, in registration order, from inside engine calls.
func (e *Engine) AddListener(l Listener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, l)
}

// Advance applies one time step of deltaHours in-game hours on the given
// 1-based day. Rejected ticks leave every province and aggregate
// untouched.
func (e *Engine) Advance(deltaHours float64, day int) error {
	if deltaHours < 0 {
		return ErrNegativeDelta
	}
	if day < 1 {
		return ErrInvalidDay
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	virusStrength := 1 + e.cfg.Rates.DailyGrowth*float64(day-1)
	threshold := e.cfg.Rates.FullyInfectedThreshold

	changed := make([]ProvinceEvent, 0, len(e.order))
	for _, id := range e.order {
		p := e.provinces[id]
		before := *p

		delta := e.cfg.Rates.BaseInfectionPerHour * virusStrength * deltaHours
		cure := 0.0
		if p.outposts > 0 && !p.disabled {
			cure = e.cfg.Rates.LocalCurePerHour * float64(p.outposts) * deltaHours
		}
		p.infection = clamp01(p.infection + delta - cure)

		// Hysteresis gate: only provinces that actually host outposts
		// flip, and only at the threshold crossings.
		if p.outposts > 0 && p.infection >= e.cfg.Rates.DisableThreshold {
			p.disabled = true
		} else if p.disabled && p.infection < e.cfg.Rates.DisableThreshold {
			p.disabled = false
		}

		if before.infection != p.infection || before.disabled != p.disabled {
			changed = append(changed, p.snapshot(threshold))
		}
	}

	// Global cure: walk the build order, skipping disabled provinces,
	// and discount each surviving slot by its position among the active
	// ones. Bonus regions contribute a boosted share.
	effective := 0.0
	slot := 0
	for _, id := range e.buildOrder {
		p := e.provinces[id]
		if p.disabled {
			continue
		}
		m := GlobalMultiplier(slot, e.cfg.Rates.DiminishingFactor)
		if p.bonus {
			m *= e.cfg.Rates.BonusMultiplier
		}
		effective += m
		slot++
	}
	beforeCure := e.cureProgress
	e.cureProgress = clamp01(e.cureProgress + e.cfg.Rates.GlobalCurePerHour*effective*deltaHours)

	beforeActive, beforeTotal := e.activeOutposts, e.totalOutposts
	e.recountOutposts()

	for _, ev := range changed {
		e.notifyProvince(ev)
	}
	if beforeCure != e.cureProgress || beforeActive != e.activeOutposts || beforeTotal != e.totalOutposts {
		e.notifyGlobal(e.globalSnapshot())
	}

	e.checkTerminal(day)
	return nil
}

// TryBuildOutpost attempts to construct an outpost in the region. The
// returned cost is the price that was (or would have been) charged; it
// is valid even when the build is rejected for insufficient funds. The
// operation either fully applies or leaves no trace.
func (e *Engine) TryBuildOutpost(id RegionID) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cost, err := e.buildCheck(id)
	if err != nil {
		return cost, err
	}

	p := e.provinces[id]
	e.currency -= cost
	p.outposts++
	// New capacity starts active; the next step re-evaluates the gate.
	p.disabled = false
	e.buildOrder = append(e.buildOrder, id)
	e.recountOutposts()

	e.notifyProvince(p.snapshot(e.cfg.Rates.FullyInfectedThreshold))
	e.notifyGlobal(e.globalSnapshot())
	return cost, nil
}

// CanBuildOutpost runs the build preconditions without mutating
// anything, so a UI can preview cost and eligibility.
func (e *Engine) CanBuildOutpost(id RegionID) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buildCheck(id)
}

// buildCheck applies the precondition order: unknown region, fully
// infected province, then affordability. Callers hold the mutex.
func (e *Engine) buildCheck(id RegionID) (int, error) {
	p, ok := e.provinces[id]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRegion, id)
	}
	cost := BuildCost(e.totalOutposts, e.cfg.Costs)
	if p.fullyInfected(e.cfg.Rates.FullyInfectedThreshold) {
		return cost, ErrProvinceFullyInfected
	}
	if cost > e.currency {
		return cost, ErrNotEnoughCurrency
	}
	return cost, nil
}

// Province returns a snapshot of one region's state.
func (e *Engine) Province(id RegionID) (ProvinceEvent, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, ok := e.provinces[id]
	if !ok {
		return ProvinceEvent{}, fmt.Errorf("%w: %q", ErrInvalidRegion, id)
	}
	return p.snapshot(e.cfg.Rates.FullyInfectedThreshold), nil
}

// Provinces returns snapshots of every region in sorted id order.
func (e *Engine) Provinces() []ProvinceEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]ProvinceEvent, 0, len(e.order))
	for _, id := range e.order {
		out = append(out, e.provinces[id].snapshot(e.cfg.Rates.FullyInfectedThreshold))
	}
	return out
}

// Global returns a snapshot of the run-wide aggregates.
func (e *Engine) Global() GlobalEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.globalSnapshot()
}

// Outcome returns the latched terminal record, if the run has ended.
func (e *Engine) Outcome() (OutcomeRecord, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.outcome, e.outcome.Kind != OutcomeNone
}

func (e *Engine) globalSnapshot() GlobalEvent {
	return GlobalEvent{
		CureProgress:    e.cureProgress,
		ActiveOutposts:  e.activeOutposts,
		TotalOutposts:   e.totalOutposts,
		CurrencyBalance: e.currency,
	}
}

func (e *Engine) recountOutposts() {
	total, active := 0, 0
	for _, p := range e.provinces {
		total += p.outposts
		if !p.disabled {
			active += p.outposts
		}
	}
	e.totalOutposts = total
	e.activeOutposts = active
}

// checkTerminal latches the outcome the first time a terminal condition
// holds. Once latched, later steps keep advancing the world but never
// re-evaluate or overwrite the record.
func (e *Engine) checkTerminal(day int) {
	if e.outcome.Kind != OutcomeNone {
		return
	}

	kind := OutcomeNone
	if e.cureProgress >= 1 {
		kind = OutcomeVictory
	} else {
		allLost := true
		for _, p := range e.provinces {
			if !p.fullyInfected(e.cfg.Rates.FullyInfectedThreshold) {
				allLost = false
				break
			}
		}
		if allLost {
			kind = OutcomeDefeat
		}
	}
	if kind == OutcomeNone {
		return
	}

	saved, lost := 0, 0
	for _, p := range e.provinces {
		if p.fullyInfected(e.cfg.Rates.FullyInfectedThreshold) {
			lost++
		} else {
			saved++
		}
	}
	e.outcome = OutcomeRecord{
		Kind:            kind,
		CureProgress:    e.cureProgress,
		Day:             day,
		ActiveOutposts:  e.activeOutposts,
		TotalOutposts:   e.totalOutposts,
		CurrencyBalance: e.currency,
		ProvincesSaved:  saved,
		ProvincesLost:   lost,
	}
	for _, l := range e.listeners {
		l.OutcomeReached(e.outcome)
	}
}

func (e *Engine) notifyProvince(ev ProvinceEvent) {
	for _, l := range e.listeners {
		l.ProvinceChanged(ev)
	}
}

func (e *Engine) notifyGlobal(ev GlobalEvent) {
	for _, l := range e.listeners {
		l.GlobalChanged(ev)
	}
}
