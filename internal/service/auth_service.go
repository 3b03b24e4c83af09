package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"autoparts-backoffice/internal/model"
)

var ErrInvalidToken = errors.New("invalid token")

// Servicio que consulta al microservicio externo de autenticación.
type AuthService struct {
	authURL string
	client  *http.Client
}

type authUser struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Role    string `json:"role"`
	Enabled bool   `json:"enabled"`
}

func NewAuthService(authURL string) *AuthService {
	return &AuthService{
		authURL: authURL,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// ValidateToken resuelve el bearer token consultando /users/current del
// servicio de auth y devuelve la sesión {userID, role} que se inyecta en
// las operaciones. Un token inválido o vencido devuelve ErrInvalidToken.
func (a *AuthService) ValidateToken(ctx context.Context, token string) (model.Session, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/users/current", a.authURL), nil)
	if err != nil {
		return model.Session{}, err
	}

	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := a.client.Do(req)
	if err != nil {
		return model.Session{}, fmt.Errorf("auth request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.Session{}, ErrInvalidToken
	}

	var user authUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return model.Session{}, err
	}

	if !user.Enabled {
		return model.Session{}, errors.New("user disabled")
	}

	role := model.Role(user.Role)
	if !role.Valid() {
		return model.Session{}, ErrInvalidToken
	}

	return model.Session{UserID: user.ID, Role: role}, nil
}
