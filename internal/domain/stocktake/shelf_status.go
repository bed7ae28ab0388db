package stocktake

import (
	"strings"

	"github.com/jhoicas/conteo-api/internal/domain/entity"
)

// DeriveShelfStatus deriva el estado de verificación de un estante desde sus
// conteos (servicio de dominio, recomputación idempotente).
// Precedencia: algún REJECTED → REJECTED; todos APPROVED y n ≥ 1 → APPROVED;
// en cualquier otro caso → PENDING.
func DeriveShelfStatus(entries []*entity.ItemCountEntry) string {
	if len(entries) == 0 {
		return entity.VerificationPending
	}
	allApproved := true
	for _, e := range entries {
		switch e.VerificationStatus {
		case entity.VerificationRejected:
			return entity.VerificationRejected
		case entity.VerificationApproved:
		default:
			allApproved = false
		}
	}
	if allApproved {
		return entity.VerificationApproved
	}
	return entity.VerificationPending
}

// NormalizeShelfKey clave de unicidad case-insensitive para nombres de estante
// dentro de una sesión. El nombre visible conserva su capitalización original.
func NormalizeShelfKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
