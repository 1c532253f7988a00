package federation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFramework(t *testing.T, balance int64) *Framework {
	t.Helper()
	tr := NewTreasury()
	if balance > 0 {
		_, err := tr.Deposit("galactic", decimal.NewFromInt(balance))
		require.NoError(t, err)
	}
	return NewFramework(tr, "galactic")
}

func anchorAligned(t *testing.T, f *Framework, id string, dimension Dimension) Portal {
	t.Helper()
	portal, err := f.AnchorPortal(id, dimension, decimal.NewFromInt(5000), nil)
	require.NoError(t, err)
	return portal
}

func TestAnchorPortal(t *testing.T) {
	f := newTestFramework(t, 0)

	portal := anchorAligned(t, f, "portal_earth", DimensionPhysical)
	assert.Equal(t, PortalAnchoring, portal.Status)
	assert.Equal(t, 432.0, portal.Coordinates["dimensional_frequency"])

	_, err := f.AnchorPortal("portal_earth", DimensionPhysical, decimal.NewFromInt(5000), nil)
	assert.ErrorIs(t, err, ErrPortalExists)

	_, err = f.AnchorPortal("portal_tiny", DimensionAstral, decimal.NewFromInt(999), nil)
	assert.ErrorIs(t, err, ErrCapacityTooSmall)
}

func TestActivatePortal(t *testing.T) {
	f := newTestFramework(t, 0)
	anchorAligned(t, f, "portal_earth", DimensionPhysical)

	activated, err := f.ActivatePortal("portal_earth")
	require.NoError(t, err)
	assert.True(t, activated)

	portal, err := f.Portal("portal_earth")
	require.NoError(t, err)
	assert.Equal(t, PortalActive, portal.Status)

	_, err = f.ActivatePortal("portal_unknown")
	assert.ErrorIs(t, err, ErrPortalNotFound)
}

func TestActivatePortalRefusesMisaligned(t *testing.T) {
	f := newTestFramework(t, 0)

	// 500 Hz is more than 5% off the 432 Hz standard.
	_, err := f.AnchorPortal("portal_drift", DimensionQuantum, decimal.NewFromInt(5000),
		map[string]float64{"dimensional_frequency": 500})
	require.NoError(t, err)

	activated, err := f.ActivatePortal("portal_drift")
	require.NoError(t, err)
	assert.False(t, activated)

	portal, err := f.Portal("portal_drift")
	require.NoError(t, err)
	assert.Equal(t, PortalAnchoring, portal.Status)
}

func TestSynchronizePortals(t *testing.T) {
	f := newTestFramework(t, 0)
	anchorAligned(t, f, "portal_earth", DimensionPhysical)
	anchorAligned(t, f, "portal_astral", DimensionAstral)
	for _, id := range []string{"portal_earth", "portal_astral"} {
		_, err := f.ActivatePortal(id)
		require.NoError(t, err)
	}

	report := f.SynchronizePortals()
	// Aligned, well-capitalized portals score the full coherence of 1.0.
	assert.True(t, report.Synchronized)
	assert.InDelta(t, 1.0, report.AverageCoherence, 1e-9)
	assert.Equal(t, 2, report.ActivePortals)
	assert.Equal(t, 2, report.SynchronizedPortals)
	assert.ElementsMatch(t, []Dimension{DimensionPhysical, DimensionAstral}, report.Dimensions)

	portal, err := f.Portal("portal_earth")
	require.NoError(t, err)
	assert.Equal(t, PortalSynchronized, portal.Status)
}

func TestSynchronizeWithoutActivePortals(t *testing.T) {
	f := newTestFramework(t, 0)
	anchorAligned(t, f, "portal_idle", DimensionGalactic)

	report := f.SynchronizePortals()
	assert.False(t, report.Synchronized)
	assert.Zero(t, report.ActivePortals)
	assert.Zero(t, report.AverageCoherence)
}

func TestVerifyCompliance(t *testing.T) {
	f := newTestFramework(t, 10000)
	anchorAligned(t, f, "portal_earth", DimensionPhysical)
	_, err := f.ActivatePortal("portal_earth")
	require.NoError(t, err)
	f.SynchronizePortals()

	report := f.VerifyCompliance()
	assert.True(t, report.Compliant)
	assert.True(t, report.FederationApproved)
	assert.Equal(t, "Galactic Federation v1.0", report.StandardsVersion)
	for check, ok := range report.Checks {
		assert.True(t, ok, "check %s", check)
	}
	assert.Greater(t, report.ProsperityIndex, 0.0)
}

func TestVerifyComplianceUnderfundedTreasury(t *testing.T) {
	f := newTestFramework(t, 500)
	anchorAligned(t, f, "portal_earth", DimensionPhysical)
	_, err := f.ActivatePortal("portal_earth")
	require.NoError(t, err)
	f.SynchronizePortals()

	report := f.VerifyCompliance()
	assert.False(t, report.Compliant)
	assert.False(t, report.FederationApproved)
	assert.False(t, report.Checks["abundance_level"])
	assert.True(t, report.Checks["portal_count"])
}

func TestVerifyComplianceEmptyRegistry(t *testing.T) {
	f := newTestFramework(t, 10000)

	report := f.VerifyCompliance()
	assert.False(t, report.Compliant)
	assert.False(t, report.Checks["portal_count"])
	assert.False(t, report.Checks["quantum_coherence"])
}

func TestFrameworkStatus(t *testing.T) {
	f := newTestFramework(t, 10000)
	anchorAligned(t, f, "portal_earth", DimensionPhysical)
	anchorAligned(t, f, "portal_quantum", DimensionQuantum)
	_, err := f.ActivatePortal("portal_earth")
	require.NoError(t, err)

	status := f.FrameworkStatus()
	assert.True(t, status.TreasuryBalance.Equal(decimal.NewFromInt(10000)))
	assert.Equal(t, 2, status.TotalPortals)
	assert.Equal(t, 1, status.ActivePortals)
	assert.Equal(t, 0, status.SynchronizedPortals)
	assert.Equal(t, []Dimension{DimensionPhysical}, status.SynchronizedDimensions)
	assert.False(t, status.FederationApproved)

	// Treasury at 10x the minimum, 1 of 5 live portals, 1 of 3 dimensions:
	// (1.0 + 0.2 + 1/3) / 3.
	assert.InDelta(t, (1.0+0.2+1.0/3)/3, status.ProsperityIndex, 1e-9)
}
