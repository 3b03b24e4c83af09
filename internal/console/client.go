// client.go
package console

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"autoparts-backoffice/internal/model"
)

// Taxonomía de errores que el panel muestra al operador.
var (
	ErrNotPermitted = errors.New("operación no permitida")
	ErrNotFound     = errors.New("el recurso ya no existe")
	ErrUnavailable  = errors.New("el servicio no respondió")
)

// APIClient es el cliente HTTP del panel contra el backend. Toda llamada
// viaja con el bearer token de la sesión y decodifica el sobre
// {success, data, error}.
type APIClient struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewAPIClient(baseURL, token string) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		token:   token,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type orderEnvelope struct {
	Success bool         `json:"success"`
	Data    *model.Order `json:"data"`
	Error   string       `json:"error"`
}

type orderListEnvelope struct {
	Success bool           `json:"success"`
	Data    []*model.Order `json:"data"`
	Error   string         `json:"error"`
}

type userEnvelope struct {
	Success bool        `json:"success"`
	Data    *model.User `json:"data"`
	Error   string      `json:"error"`
}

type userListEnvelope struct {
	Success bool          `json:"success"`
	Data    []*model.User `json:"data"`
	Error   string        `json:"error"`
}

// UpdateOrderStatus ejecuta PUT /orders/{id}/status.
func (c *APIClient) UpdateOrderStatus(ctx context.Context, orderID string, status model.OrderStatus, reason string) (*model.Order, error) {
	body := map[string]string{"status": string(status)}
	if reason != "" {
		body["reason"] = reason
	}

	var env orderEnvelope
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/orders/%s/status", orderID), body, &env); err != nil {
		return nil, err
	}
	if !env.Success || env.Data == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, env.Error)
	}
	return env.Data, nil
}

func (c *APIClient) GetOrder(ctx context.Context, orderID string) (*model.Order, error) {
	var env orderEnvelope
	if err := c.do(ctx, http.MethodGet, "/orders/"+orderID, nil, &env); err != nil {
		return nil, err
	}
	if !env.Success || env.Data == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, env.Error)
	}
	return env.Data, nil
}

func (c *APIClient) ListOrders(ctx context.Context) ([]*model.Order, error) {
	var env orderListEnvelope
	if err := c.do(ctx, http.MethodGet, "/orders", nil, &env); err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, env.Error)
	}
	return env.Data, nil
}

// PatchUserApproval ejecuta el PATCH genérico de usuario con las claves
// con punto del contrato de aprobación. En revocación approvedAt y
// approvedBy viajan como null explícito.
func (c *APIClient) PatchUserApproval(ctx context.Context, userID string, approved bool, approvedAt *time.Time, approvedBy *string) (*model.User, error) {
	body := map[string]any{
		"distributorInfo.isApproved": approved,
	}
	if approved {
		if approvedAt != nil {
			body["distributorInfo.approvedAt"] = approvedAt.Format(time.RFC3339)
		}
		body["distributorInfo.approvedBy"] = approvedBy
	} else {
		body["distributorInfo.approvedAt"] = nil
		body["distributorInfo.approvedBy"] = nil
	}

	var env userEnvelope
	if err := c.do(ctx, http.MethodPatch, "/users/"+userID, body, &env); err != nil {
		return nil, err
	}
	if !env.Success || env.Data == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, env.Error)
	}
	return env.Data, nil
}

func (c *APIClient) ListUsers(ctx context.Context) ([]*model.User, error) {
	var env userListEnvelope
	if err := c.do(ctx, http.MethodGet, "/users", nil, &env); err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, env.Error)
	}
	return env.Data, nil
}

func (c *APIClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrNotPermitted
	case http.StatusNotFound:
		return ErrNotFound
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
