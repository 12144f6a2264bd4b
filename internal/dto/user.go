package dto

import "github.com/yukikurage/todo-list-api/internal/models"

// UserProfileDTO is the public view of a user. Credentials and reset tokens
// never leave the server.
type UserProfileDTO struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Age       int    `json:"age"`
	Email     string `json:"email"`
}

// UserDTO is returned after registration
type UserDTO struct {
	ID uint64 `json:"id"`
	UserProfileDTO
}

// TokenResponse carries a session token
type TokenResponse struct {
	Token string `json:"token"`
}

// MessageResponse carries a short confirmation
type MessageResponse struct {
	Message string `json:"message"`
}

// ToUserProfileDTO converts a User model to UserProfileDTO
func ToUserProfileDTO(user models.User) UserProfileDTO {
	return UserProfileDTO{
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Age:       user.Age,
		Email:     user.Email,
	}
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:             user.ID,
		UserProfileDTO: ToUserProfileDTO(user),
	}
}
