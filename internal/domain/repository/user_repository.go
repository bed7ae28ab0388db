package repository

import "github.com/jhoicas/conteo-api/internal/domain/entity"

// UserRepository directorio de usuarios/roles (DIP). El núcleo de conteo
// resuelve capacidades desde aquí; nunca persiste roles propios.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByEmailAndCompany(email, companyID string) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
	// DisplayName nombre visible de un usuario (indicadores "quién cuenta qué").
	DisplayName(id string) (string, error)
}
