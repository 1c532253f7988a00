package federation

import (
	"math"
	"sync"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type Dimension string

const (
	DimensionPhysical         Dimension = "physical"
	DimensionAstral           Dimension = "astral"
	DimensionQuantum          Dimension = "quantum"
	DimensionGalactic         Dimension = "galactic"
	DimensionInterdimensional Dimension = "interdimensional"
)

type PortalStatus string

const (
	PortalActive       PortalStatus = "active"
	PortalInactive     PortalStatus = "inactive"
	PortalAnchoring    PortalStatus = "anchoring"
	PortalSynchronized PortalStatus = "synchronized"
)

// Federation standards every portal is measured against.
const (
	portalSyncFrequency       = 432.0
	quantumCoherenceThreshold = 0.9
	alignmentTolerance        = 0.05
	standardsVersion          = "Galactic Federation v1.0"
)

// MinimumAbundanceLevel is the smallest capacity a portal may anchor with,
// and the treasury floor the compliance check requires.
var MinimumAbundanceLevel = decimal.NewFromInt(1000)

var (
	ErrPortalExists     = errors.New("portal already exists")
	ErrPortalNotFound   = errors.New("portal not found")
	ErrCapacityTooSmall = errors.New("portal capacity below minimum abundance level")
)

// Portal is one anchored abundance portal in the registry.
type Portal struct {
	ID          string             `json:"portal_id"`
	Dimension   Dimension          `json:"dimension"`
	Capacity    decimal.Decimal    `json:"capacity"`
	Status      PortalStatus       `json:"status"`
	Coordinates map[string]float64 `json:"coordinates"`
}

// SyncReport is the outcome of synchronizing the active portals.
type SyncReport struct {
	Synchronized        bool        `json:"synchronized"`
	AverageCoherence    float64     `json:"average_coherence"`
	ActivePortals       int         `json:"active_portals"`
	SynchronizedPortals int         `json:"synchronized_portals"`
	Dimensions          []Dimension `json:"dimensions"`
}

// ComplianceReport is the outcome of verifying the framework against the
// federation standards.
type ComplianceReport struct {
	Compliant          bool            `json:"compliant"`
	FederationApproved bool            `json:"federation_approved"`
	Checks             map[string]bool `json:"checks"`
	StandardsVersion   string          `json:"standards_version"`
	ProsperityIndex    float64         `json:"prosperity_index"`
}

// Status is a comprehensive snapshot of the framework.
type Status struct {
	TreasuryBalance        decimal.Decimal `json:"treasury_balance"`
	TotalPortals           int             `json:"total_portals"`
	ActivePortals          int             `json:"active_portals"`
	SynchronizedPortals    int             `json:"synchronized_portals"`
	SynchronizedDimensions []Dimension     `json:"synchronized_dimensions"`
	FederationApproved     bool            `json:"federation_approved"`
	ProsperityIndex        float64         `json:"prosperity_index"`
}

// Framework keeps the portal registry on top of a named treasury balance.
// Compliance and prosperity read the treasury; portal bookkeeping is local.
type Framework struct {
	mu       sync.Mutex
	treasury *Treasury
	account  string

	portals          map[string]*Portal
	syncedDimensions []Dimension
	approved         bool
}

// NewFramework wires the registry to the named balance of an existing
// treasury; the treasury is shared, not owned.
func NewFramework(treasury *Treasury, account string) *Framework {
	return &Framework{
		treasury: treasury,
		account:  account,
		portals:  make(map[string]*Portal),
	}
}

// AnchorPortal registers a new portal in the anchoring state. Coordinates
// default to the origin at the standard sync frequency when omitted.
func (f *Framework) AnchorPortal(id string, dimension Dimension, capacity decimal.Decimal, coordinates map[string]float64) (Portal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.portals[id]; exists {
		return Portal{}, errors.Wrap(ErrPortalExists, id)
	}
	if capacity.LessThan(MinimumAbundanceLevel) {
		return Portal{}, errors.Wrapf(ErrCapacityTooSmall, "%s < %s", capacity, MinimumAbundanceLevel)
	}

	if coordinates == nil {
		coordinates = map[string]float64{
			"x": 0, "y": 0, "z": 0,
			"dimensional_frequency": portalSyncFrequency,
		}
	}

	portal := &Portal{
		ID:          id,
		Dimension:   dimension,
		Capacity:    capacity,
		Status:      PortalAnchoring,
		Coordinates: coordinates,
	}
	f.portals[id] = portal
	return *portal, nil
}

// ActivatePortal moves a portal to the active state and registers its
// dimension as synchronized. Activation is refused, without error, when the
// portal's frequency is out of alignment tolerance.
func (f *Framework) ActivatePortal(id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	portal, exists := f.portals[id]
	if !exists {
		return false, errors.Wrap(ErrPortalNotFound, id)
	}
	if !portalAligned(portal) {
		return false, nil
	}

	portal.Status = PortalActive
	f.recordDimension(portal.Dimension)
	return true, nil
}

// SynchronizePortals averages coherence over the active portals and promotes
// those at or above the threshold to the synchronized state.
func (f *Framework) SynchronizePortals() SyncReport {
	f.mu.Lock()
	defer f.mu.Unlock()

	var active []*Portal
	for _, p := range f.portals {
		if p.Status == PortalActive {
			active = append(active, p)
		}
	}
	if len(active) == 0 {
		return SyncReport{}
	}

	total := 0.0
	for _, p := range active {
		total += portalCoherence(p)
	}
	average := total / float64(len(active))

	for _, p := range active {
		if portalCoherence(p) >= quantumCoherenceThreshold {
			p.Status = PortalSynchronized
		}
	}

	synchronized := 0
	for _, p := range f.portals {
		if p.Status == PortalSynchronized {
			synchronized++
		}
	}

	return SyncReport{
		Synchronized:        average >= quantumCoherenceThreshold,
		AverageCoherence:    average,
		ActivePortals:       len(active),
		SynchronizedPortals: synchronized,
		Dimensions:          append([]Dimension(nil), f.syncedDimensions...),
	}
}

// VerifyCompliance checks the framework against every federation standard
// and records the approval verdict.
func (f *Framework) VerifyCompliance() ComplianceReport {
	balance := f.treasury.Balance(f.account)

	f.mu.Lock()
	defer f.mu.Unlock()

	checks := map[string]bool{
		"abundance_level":         balance.GreaterThanOrEqual(MinimumAbundanceLevel),
		"portal_count":            len(f.portals) > 0,
		"synchronized_dimensions": len(f.syncedDimensions) >= 1,
		"quantum_coherence":       f.overallCoherent(),
		"dimensional_alignment":   len(f.syncedDimensions) >= 1,
	}

	compliant := true
	for _, ok := range checks {
		compliant = compliant && ok
	}
	f.approved = compliant

	return ComplianceReport{
		Compliant:          compliant,
		FederationApproved: f.approved,
		Checks:             checks,
		StandardsVersion:   standardsVersion,
		ProsperityIndex:    f.prosperityIndex(balance),
	}
}

// FrameworkStatus returns a comprehensive snapshot.
func (f *Framework) FrameworkStatus() Status {
	balance := f.treasury.Balance(f.account)

	f.mu.Lock()
	defer f.mu.Unlock()

	active, synchronized := 0, 0
	for _, p := range f.portals {
		switch p.Status {
		case PortalActive:
			active++
		case PortalSynchronized:
			synchronized++
		}
	}

	return Status{
		TreasuryBalance:        balance,
		TotalPortals:           len(f.portals),
		ActivePortals:          active,
		SynchronizedPortals:    synchronized,
		SynchronizedDimensions: append([]Dimension(nil), f.syncedDimensions...),
		FederationApproved:     f.approved,
		ProsperityIndex:        f.prosperityIndex(balance),
	}
}

// Portal returns a copy of the named portal.
func (f *Framework) Portal(id string) (Portal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	portal, exists := f.portals[id]
	if !exists {
		return Portal{}, errors.Wrap(ErrPortalNotFound, id)
	}
	return *portal, nil
}

func (f *Framework) recordDimension(d Dimension) {
	for _, existing := range f.syncedDimensions {
		if existing == d {
			return
		}
	}
	f.syncedDimensions = append(f.syncedDimensions, d)
}

// portalAligned checks the portal frequency against the standard within the
// alignment tolerance.
func portalAligned(p *Portal) bool {
	frequency := p.Coordinates["dimensional_frequency"]
	return math.Abs(frequency-portalSyncFrequency)/portalSyncFrequency <= alignmentTolerance
}

// portalCoherence scores a portal 0..1: a 0.5 base, +0.3 for alignment,
// +0.2 for capacity at or above the abundance minimum.
func portalCoherence(p *Portal) float64 {
	coherence := 0.5
	if portalAligned(p) {
		coherence += 0.3
	}
	if p.Capacity.GreaterThanOrEqual(MinimumAbundanceLevel) {
		coherence += 0.2
	}
	return math.Min(coherence, 1.0)
}

// overallCoherent averages coherence over active and synchronized portals.
// Must be called with the lock held.
func (f *Framework) overallCoherent() bool {
	total, count := 0.0, 0
	for _, p := range f.portals {
		if p.Status == PortalActive || p.Status == PortalSynchronized {
			total += portalCoherence(p)
			count++
		}
	}
	if count == 0 {
		return false
	}
	return total/float64(count) >= quantumCoherenceThreshold
}

// prosperityIndex averages the treasury, portal and dimension factors, each
// clamped to 1. Optimal at 10x the abundance minimum, 5 live portals and 3
// synchronized dimensions. Must be called with the lock held.
func (f *Framework) prosperityIndex(balance decimal.Decimal) float64 {
	var factors []float64

	if balance.IsPositive() {
		target := MinimumAbundanceLevel.Mul(decimal.NewFromInt(10))
		ratio, _ := balance.Div(target).Float64()
		factors = append(factors, math.Min(ratio, 1.0))
	}

	if len(f.portals) > 0 {
		live := 0
		for _, p := range f.portals {
			if p.Status == PortalActive || p.Status == PortalSynchronized {
				live++
			}
		}
		factors = append(factors, math.Min(float64(live)/5, 1.0))
	}

	factors = append(factors, math.Min(float64(len(f.syncedDimensions))/3, 1.0))

	total := 0.0
	for _, factor := range factors {
		total += factor
	}
	return total / float64(len(factors))
}
