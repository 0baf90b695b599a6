package auth

import (
	"crypto/subtle"
	"fmt"
	"xtvredirect/entity"
)

// Auth knows a single API token, issued to the hosting platform's dashboard.
type Auth struct {
	token string
}

func New(token string) *Auth {
	return &Auth{token: token}
}

func (a Auth) ClientByToken(token string) (*entity.ApiClient, error) {
	if a.token == "" {
		return nil, fmt.Errorf("api token not configured")
	}
	if subtle.ConstantTimeCompare([]byte(a.token), []byte(token)) != 1 {
		return nil, fmt.Errorf("token mismatch")
	}
	return &entity.ApiClient{Name: "operator"}, nil
}
