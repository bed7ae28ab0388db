package stocktake

import "github.com/jhoicas/conteo-api/internal/domain/entity"

// Capability capacidad cerrada de un usuario dentro del conteo físico.
// Reemplaza las comparaciones de strings de rol dispersas: el rol se resuelve
// una sola vez por petición y el resto del núcleo solo ve la capacidad.
type Capability int

const (
	CapabilityNone Capability = iota
	CapabilityCounter
	CapabilityVerifier
	CapabilityAdmin
)

// String nombre legible de la capacidad (para logs y respuestas).
func (c Capability) String() string {
	switch c {
	case CapabilityAdmin:
		return "admin"
	case CapabilityVerifier:
		return "verifier"
	case CapabilityCounter:
		return "counter"
	default:
		return "none"
	}
}

// CanStartSession solo Admin inicia, cancela o completa sesiones.
func (c Capability) CanStartSession() bool { return c == CapabilityAdmin }

// CanVerify Admin y Verifier pueden aprobar/rechazar estantes.
func (c Capability) CanVerify() bool {
	return c == CapabilityAdmin || c == CapabilityVerifier
}

// CanCount cualquier capacidad distinta de None puede contar.
func (c Capability) CanCount() bool { return c != CapabilityNone }

// ResolveCapability mapea el rol persistido a la capacidad del conteo.
// El rol auditor equivale a admin para efectos del conteo físico.
func ResolveCapability(role string) Capability {
	switch role {
	case entity.RoleAdmin, entity.RoleAuditor:
		return CapabilityAdmin
	case entity.RoleVerificador:
		return CapabilityVerifier
	case entity.RoleContador:
		return CapabilityCounter
	default:
		return CapabilityNone
	}
}
