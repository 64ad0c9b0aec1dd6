package dto

import "time"

// UserRequest formulario de alta/edición de usuario (todos los campos son obligatorios).
// El password llega en texto y se hashea en el use case.
type UserRequest struct {
	Name     string `json:"nombre" validate:"required,min=1,max=200"`
	Email    string `json:"correo" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"rol" validate:"required,oneof=admin empleado cliente"`
}

// RegisterRequest alta de una cuenta propia; el rol siempre es cliente.
type RegisterRequest struct {
	Name     string `json:"nombre" validate:"required,min=1,max=200"`
	Email    string `json:"correo" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"nombre"`
	Email     string    `json:"correo"`
	Role      string    `json:"rol"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginRequest credenciales de inicio de sesión.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse token de sesión y perfil resuelto.
type LoginResponse struct {
	Token     string          `json:"token"`
	ExpiresAt *time.Time      `json:"expires_at,omitempty"`
	Profile   ProfileResponse `json:"profile"`
}

// ProfileResponse perfil del usuario de la sesión.
type ProfileResponse struct {
	ID         int64    `json:"id,omitempty"`
	Email      string   `json:"correo"`
	Role       string   `json:"rol"`
	RoleLetter string   `json:"letra_rol"`
	Actions    []string `json:"acciones"`
}

// ChangePasswordRequest nueva contraseña del usuario de la sesión.
type ChangePasswordRequest struct {
	Password string `json:"password" validate:"required,min=6"`
}
