package response

import (
	"github.com/lbonnet/formatrack-api/internal/domain"
)

type LoginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}
