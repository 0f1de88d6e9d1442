package jwttoken

import (
	authmw "github.com/DRYTRIX/TimeTracker-sub005/pkg/platform/middleware/auth"
)

// JWTServiceAdapter adapts JWTService to the auth middleware's validator
// interface.
type JWTServiceAdapter struct {
	service *JWTService
}

func NewJWTServiceAdapter(service *JWTService) *JWTServiceAdapter {
	return &JWTServiceAdapter{service: service}
}

func (a *JWTServiceAdapter) ValidateToken(tokenString string) (*authmw.Claims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	return &authmw.Claims{
		Subject: claims.Subject,
	}, nil
}
