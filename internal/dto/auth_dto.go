package dto

// LoginRequest carries the credentials and the role the caller claims to hold.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
	Role     string `json:"role" validate:"required,oneof=admin student"`
}

// LoginResponse is returned after a successful authentication. The password
// hash is never exposed.
type LoginResponse struct {
	Token string `json:"token"`
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}
