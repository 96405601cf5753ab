package response

import "github.com/alsadi22/swaedfirebase-sub001/internal/domain"

type LoginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}
