package stocktake_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/conteo-api/internal/domain/entity"
	"github.com/jhoicas/conteo-api/internal/domain/stocktake"
)

func entriesWithStatus(statuses ...string) []*entity.ItemCountEntry {
	out := make([]*entity.ItemCountEntry, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, &entity.ItemCountEntry{VerificationStatus: s})
	}
	return out
}

// Un estante sin conteos siempre es PENDING.
func TestDeriveShelfStatus_SinConteos(t *testing.T) {
	assert.Equal(t, entity.VerificationPending, stocktake.DeriveShelfStatus(nil))
	assert.Equal(t, entity.VerificationPending, stocktake.DeriveShelfStatus([]*entity.ItemCountEntry{}))
}

// Un solo REJECTED domina sobre cualquier combinación.
func TestDeriveShelfStatus_RejectedDomina(t *testing.T) {
	entries := entriesWithStatus(
		entity.VerificationApproved,
		entity.VerificationRejected,
		entity.VerificationPending,
	)
	assert.Equal(t, entity.VerificationRejected, stocktake.DeriveShelfStatus(entries))
}

// Todos aprobados y al menos uno → APPROVED.
func TestDeriveShelfStatus_TodosAprobados(t *testing.T) {
	entries := entriesWithStatus(entity.VerificationApproved, entity.VerificationApproved)
	assert.Equal(t, entity.VerificationApproved, stocktake.DeriveShelfStatus(entries))
}

// Mezcla de aprobados y pendientes → PENDING.
func TestDeriveShelfStatus_MezclaPendiente(t *testing.T) {
	entries := entriesWithStatus(entity.VerificationApproved, entity.VerificationPending)
	assert.Equal(t, entity.VerificationPending, stocktake.DeriveShelfStatus(entries))
}

// La derivación es idempotente: recomputar sobre el mismo conjunto no cambia.
func TestDeriveShelfStatus_Idempotente(t *testing.T) {
	entries := entriesWithStatus(entity.VerificationApproved, entity.VerificationRejected)
	first := stocktake.DeriveShelfStatus(entries)
	second := stocktake.DeriveShelfStatus(entries)
	assert.Equal(t, first, second)
}

func TestNormalizeShelfKey(t *testing.T) {
	assert.Equal(t, "estante a1", stocktake.NormalizeShelfKey("  Estante A1 "))
	assert.Equal(t, stocktake.NormalizeShelfKey("A1"), stocktake.NormalizeShelfKey("a1"),
		"A1 y a1 deben colisionar como el mismo estante")
}

func TestResolveCapability(t *testing.T) {
	assert.Equal(t, stocktake.CapabilityAdmin, stocktake.ResolveCapability(entity.RoleAdmin))
	assert.Equal(t, stocktake.CapabilityAdmin, stocktake.ResolveCapability(entity.RoleAuditor))
	assert.Equal(t, stocktake.CapabilityVerifier, stocktake.ResolveCapability(entity.RoleVerificador))
	assert.Equal(t, stocktake.CapabilityCounter, stocktake.ResolveCapability(entity.RoleContador))
	assert.Equal(t, stocktake.CapabilityNone, stocktake.ResolveCapability("vendedor"))
	assert.Equal(t, stocktake.CapabilityNone, stocktake.ResolveCapability(""))
}

func TestCapability_Predicados(t *testing.T) {
	assert.True(t, stocktake.CapabilityAdmin.CanStartSession())
	assert.False(t, stocktake.CapabilityVerifier.CanStartSession())

	assert.True(t, stocktake.CapabilityAdmin.CanVerify())
	assert.True(t, stocktake.CapabilityVerifier.CanVerify())
	assert.False(t, stocktake.CapabilityCounter.CanVerify())

	assert.True(t, stocktake.CapabilityCounter.CanCount())
	assert.False(t, stocktake.CapabilityNone.CanCount())
}
