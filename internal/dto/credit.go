package dto

import "github.com/minaharu/timebank-api/internal/identity"

// SessionUserDTO represents the authenticated user and their balance
type SessionUserDTO struct {
	UID         string `json:"uid"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	TimeCredits int    `json:"time_credits"`
}

// ToSessionUserDTO combines a provider identity with the user's balance
func ToSessionUserDTO(ident identity.Identity, balanceMinutes int) SessionUserDTO {
	return SessionUserDTO{
		UID:         ident.UID,
		DisplayName: ident.DisplayName,
		Email:       ident.Email,
		TimeCredits: balanceMinutes,
	}
}
