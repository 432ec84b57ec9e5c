package models

import (
	"fmt"
	"time"
)

// Имена ролей образуют закрытый словарь: токен с неизвестной ролью
// не выпускается.
const (
	RoleUser     = "ROLE_USER"     // Обычный пользователь сервиса
	RoleEmployee = "ROLE_EMPLOYEE" // Сотрудник, обслуживающий парк монопатинов
	RoleAdmin    = "ROLE_ADMIN"    // Администратор системы
)

// Role представляет именованную группу прав, назначаемую пользователям.
// Роли создаются один раз при старте системы и далее не изменяются.
type Role struct {
	ID          int64  // Уникальный идентификатор роли
	Name        string // Имя роли из закрытого словаря
	Description string // Человекочитаемое описание
}

// UserRole представляет назначение роли пользователю.
type UserRole struct {
	UserID     int64     // Идентификатор пользователя
	RoleID     int64     // Идентификатор роли
	AssignedAt time.Time // Момент назначения роли
}

// AllRoles возвращает полный словарь ролей с описаниями для
// первоначальной инициализации.
func AllRoles() []Role {
	return []Role{
		{Name: RoleUser, Description: "Usuario del servicio de monopatines"},
		{Name: RoleEmployee, Description: "Empleado de mantenimiento"},
		{Name: RoleAdmin, Description: "Administrador del sistema"},
	}
}

// ValidateRoles проверяет, что все имена ролей входят в закрытый словарь.
func ValidateRoles(roles []string) error {
	for _, r := range roles {
		switch r {
		case RoleUser, RoleEmployee, RoleAdmin:
		default:
			return fmt.Errorf("%w: %s", ErrUnknownRole, r)
		}
	}
	return nil
}
