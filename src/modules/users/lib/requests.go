package users

import (
	users "movienest/src/modules/users/models"
)

type RegisterRequest struct {
	Username string  `json:"username" binding:"required,min=3,max=50,username"`
	Password string  `json:"password" binding:"required,min=6,max=100"`
	FullName string  `json:"fullName" binding:"max=100"`
	Age      *int    `json:"age" binding:"omitempty,gte=1,lte=150"`
	Email    *string `json:"email" binding:"omitempty,email,max=100"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required"`
}

// UpdateRequest replaces a user's profile. An empty Password keeps the
// current one; Role is only honoured for admins.
type UpdateRequest struct {
	UserID   uint    `json:"userId"`
	Username string  `json:"username" binding:"required,min=3,max=50,username"`
	Password string  `json:"password" binding:"omitempty,min=6,max=100"`
	FullName string  `json:"fullName" binding:"max=100"`
	Age      *int    `json:"age" binding:"omitempty,gte=1,lte=150"`
	Email    *string `json:"email" binding:"omitempty,email,max=100"`
	Role     string  `json:"role" binding:"omitempty,oneof=user admin"`
	Version  *int    `json:"version" binding:"omitempty,gt=0"`
}

type RoleRequest struct {
	Role string `json:"role" binding:"required,oneof=user admin"`
}

// Filter holds the optional contains-filters of the user search.
type Filter struct {
	Username string
	Email    string
	FullName string
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	User  *users.User `json:"user"`
	Token string      `json:"token"`
}

type UserOption struct {
	UserID   uint   `json:"userId"`
	Username string `json:"username"`
}
