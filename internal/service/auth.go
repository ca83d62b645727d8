package service

import (
	"github.com/clerk/clerk-sdk-go/v2"

	"github.com/deppfellow/invoice-dashboard/internal/server"
)

// AuthService configures the Clerk SDK. Without a secret key Clerk is
// left unconfigured and the seed route stays public.
type AuthService struct {
	server  *server.Server
	enabled bool
}

func NewAuthService(s *server.Server) *AuthService {
	key := s.Config.Auth.SecretKey
	if key != "" {
		clerk.SetKey(key)
	}

	return &AuthService{
		server:  s,
		enabled: key != "",
	}
}

// Enabled reports whether Clerk has a secret key.
func (a *AuthService) Enabled() bool {
	return a.enabled
}
