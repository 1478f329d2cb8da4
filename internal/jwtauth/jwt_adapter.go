package jwtauth

import (
	"github.com/D00256764/u-vote-sub002/internal/platform/middleware"
)

func ToMiddlewareClaims(claims *Claims) *middleware.ServiceClaims {
	return &middleware.ServiceClaims{
		ActorID: claims.ActorID,
		Scope:   claims.Scope,
	}
}

// ServiceAdapter bridges the token service to the auth middleware.
type ServiceAdapter struct {
	service *Service
}

func NewServiceAdapter(service *Service) *ServiceAdapter {
	return &ServiceAdapter{service: service}
}

func (a *ServiceAdapter) ValidateToken(tokenString string) (*middleware.ServiceClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return ToMiddlewareClaims(claims), nil
}
