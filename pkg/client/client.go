// Package client implementa los contratos de la consola sobre la API HTTP:
// historial con "cargar más", y la confirmación previa a acciones destructivas.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/domain/reversal"
)

// Client cliente HTTP autenticado con Bearer Token.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New construye el cliente. Si httpClient es nil se usa uno con timeout de 15 s.
func New(baseURL, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: httpClient,
	}
}

// APIError respuesta de error de la API ({code, message}).
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api %d %s: %s", e.Status, e.Code, e.Message)
}

// IsCode informa si err es un APIError con el código indicado.
func IsCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("serializar petición: %w", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("crear petición: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("leer respuesta: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode}
		var payload dto.ErrorResponse
		if json.Unmarshal(raw, &payload) == nil {
			apiErr.Code, apiErr.Message = payload.Code, payload.Message
		}
		return apiErr
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decodificar respuesta: %w", err)
	}
	return nil
}

// History obtiene una página del historial de movimientos.
func (c *Client) History(ctx context.Context, tipo, recurso string, pagina, limite int) (*dto.HistoryResponse, error) {
	q := url.Values{}
	if tipo != "" {
		q.Set("tipo", tipo)
	}
	if recurso != "" {
		q.Set("recurso", recurso)
	}
	q.Set("pagina", strconv.Itoa(pagina))
	if limite > 0 {
		q.Set("limite", strconv.Itoa(limite))
	}
	var out dto.HistoryResponse
	if err := c.do(ctx, http.MethodGet, "/api/movimientos/historial", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MovementPlan obtiene el plan de eliminación de un movimiento.
func (c *Client) MovementPlan(ctx context.Context, id string) (*reversal.Plan, error) {
	var out reversal.Plan
	if err := c.do(ctx, http.MethodGet, "/api/movimientos/"+url.PathEscape(id)+"/plan", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteMovementRaw elimina un movimiento sin pedir confirmación.
func (c *Client) DeleteMovementRaw(ctx context.Context, id string, fallback bool) (*dto.DeleteMovementResponse, error) {
	var q url.Values
	if fallback {
		q = url.Values{"fallback": {"true"}}
	}
	var out dto.DeleteMovementResponse
	if err := c.do(ctx, http.MethodDelete, "/api/movimientos/"+url.PathEscape(id), q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
