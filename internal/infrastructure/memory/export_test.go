package memory

import "time"

// SetNow inyecta un reloj determinista; solo disponible en tests.
func (r *LockRegistry) SetNow(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}
