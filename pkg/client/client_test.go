package client_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/domain/reversal"
	"github.com/jhoicas/Produccion-api/pkg/client"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ── HistoryPager ──────────────────────────────────────────────────────────────

func TestHistoryPager_AcumulaSinDuplicados(t *testing.T) {
	// página 2 repite m2 (un movimiento nuevo desplazó la ventana)
	pages := map[int][]string{1: {"m1", "m2"}, 2: {"m2", "m3"}, 3: {"m4"}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "/api/movimientos/historial", r.URL.Path)
		assert.Equal(t, "produccion", r.URL.Query().Get("tipo"))
		pagina, _ := strconv.Atoi(r.URL.Query().Get("pagina"))
		out := dto.HistoryResponse{Pagina: pagina, TotalPaginas: 3, Total: 5, Limite: 2}
		for _, id := range pages[pagina] {
			out.Movimientos = append(out.Movimientos, dto.MovementResponse{ID: id})
		}
		writeJSON(w, http.StatusOK, out)
	}))
	defer srv.Close()

	p := client.NewHistoryPager(client.New(srv.URL, "tok", nil), "produccion", "", 2)
	ctx := context.Background()

	require.True(t, p.HasMore())
	added, err := p.LoadMore(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	added, err = p.LoadMore(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	assert.True(t, p.HasMore())

	_, err = p.LoadMore(ctx)
	require.NoError(t, err)
	assert.False(t, p.HasMore())

	added, err = p.LoadMore(ctx)
	require.NoError(t, err)
	assert.Zero(t, added)

	var ids []string
	for _, m := range p.Items() {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"m1", "m2", "m3", "m4"}, ids)

	p.Reset()
	assert.True(t, p.HasMore())
	assert.Empty(t, p.Items())
}

func TestHistoryPager_HistorialVacio(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, dto.HistoryResponse{Pagina: 1})
	}))
	defer srv.Close()

	p := client.NewHistoryPager(client.New(srv.URL, "tok", nil), "", "", 0)
	_, err := p.LoadMore(context.Background())
	require.NoError(t, err)
	assert.False(t, p.HasMore())
}

func TestClient_ErrorDeLaAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"})
	}))
	defer srv.Close()

	_, err := client.New(srv.URL, "tok", nil).History(context.Background(), "", "", 1, 0)
	require.Error(t, err)
	assert.True(t, client.IsCode(err, "FORBIDDEN"))

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
}

// ── DeleteMovement ────────────────────────────────────────────────────────────

type movementServer struct {
	plan       reversal.Plan
	deletes    atomic.Int32
	fallbacks  atomic.Int32
	missingRun bool
}

func (s *movementServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/movimientos/{id}/plan", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.plan)
	})
	mux.HandleFunc("DELETE /api/movimientos/{id}", func(w http.ResponseWriter, r *http.Request) {
		s.deletes.Add(1)
		fallback := r.URL.Query().Get("fallback") == "true"
		if fallback {
			s.fallbacks.Add(1)
		}
		if (s.plan.RequiresFallbackConsent() || s.missingRun) && !fallback {
			writeJSON(w, http.StatusConflict, dto.ErrorResponse{
				Code: "PRODUCTION_ID_NOT_FOUND", Message: reversal.FallbackWarning,
			})
			return
		}
		writeJSON(w, http.StatusOK, dto.DeleteMovementResponse{
			Mensaje: "eliminado", Estrategia: string(s.plan.Strategy),
		})
	})
	return mux
}

type scriptedConfirmer struct {
	answers  []bool
	messages []string
}

func (c *scriptedConfirmer) Confirm(_ context.Context, message string) (bool, error) {
	c.messages = append(c.messages, message)
	if len(c.messages) > len(c.answers) {
		return false, fmt.Errorf("pregunta inesperada: %s", message)
	}
	return c.answers[len(c.messages)-1], nil
}

func TestDeleteMovement_ConfirmaConElTextoDelPlan(t *testing.T) {
	s := &movementServer{plan: reversal.Plan{
		MovementID: "m1", Strategy: reversal.StrategyDeleteEntry, Confirmation: "¿Eliminar el movimiento?",
	}}
	srv := httptest.NewServer(s.handler())
	defer srv.Close()

	conf := &scriptedConfirmer{answers: []bool{true}}
	out, err := client.New(srv.URL, "tok", nil).DeleteMovement(context.Background(), "m1", conf)
	require.NoError(t, err)
	assert.Equal(t, "eliminado", out.Mensaje)
	assert.Equal(t, []string{"¿Eliminar el movimiento?"}, conf.messages)
	assert.EqualValues(t, 1, s.deletes.Load())
	assert.Zero(t, s.fallbacks.Load())
}

func TestDeleteMovement_RechazoNoElimina(t *testing.T) {
	s := &movementServer{plan: reversal.Plan{Strategy: reversal.StrategyDeleteEntry, Confirmation: "¿Eliminar?"}}
	srv := httptest.NewServer(s.handler())
	defer srv.Close()

	_, err := client.New(srv.URL, "tok", nil).DeleteMovement(context.Background(), "m1",
		&scriptedConfirmer{answers: []bool{false}})
	assert.ErrorIs(t, err, client.ErrCancelled)
	assert.Zero(t, s.deletes.Load())
}

func TestDeleteMovement_PlanConAdvertenciaUsaFallback(t *testing.T) {
	s := &movementServer{plan: reversal.Plan{
		Strategy: reversal.StrategyDeleteEntryFallback, Warning: reversal.FallbackWarning, Confirmation: "¿Eliminar solo el movimiento?",
	}}
	srv := httptest.NewServer(s.handler())
	defer srv.Close()

	_, err := client.New(srv.URL, "tok", nil).DeleteMovement(context.Background(), "m1",
		&scriptedConfirmer{answers: []bool{true}})
	require.NoError(t, err)
	assert.EqualValues(t, 1, s.deletes.Load())
	assert.EqualValues(t, 1, s.fallbacks.Load())
}

func TestDeleteMovement_ProduccionDesaparecidaPideSegundaConfirmacion(t *testing.T) {
	s := &movementServer{
		plan:       reversal.Plan{Strategy: reversal.StrategyDeleteProductionRun, ProductionID: "abc", Confirmation: "¿Eliminar la producción?"},
		missingRun: true,
	}
	srv := httptest.NewServer(s.handler())
	defer srv.Close()
	c := client.New(srv.URL, "tok", nil)

	declined := &scriptedConfirmer{answers: []bool{true, false}}
	_, err := c.DeleteMovement(context.Background(), "m1", declined)
	assert.ErrorIs(t, err, client.ErrCancelled)
	assert.Zero(t, s.fallbacks.Load())
	assert.Equal(t, reversal.FallbackWarning, declined.messages[1])

	accepted := &scriptedConfirmer{answers: []bool{true, true}}
	_, err = c.DeleteMovement(context.Background(), "m1", accepted)
	require.NoError(t, err)
	assert.EqualValues(t, 1, s.fallbacks.Load())
}

func TestDeleteMovement_ConfirmerRespetaContexto(t *testing.T) {
	s := &movementServer{plan: reversal.Plan{Strategy: reversal.StrategyDeleteEntry, Confirmation: "¿Eliminar?"}}
	srv := httptest.NewServer(s.handler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	waiting := client.ConfirmFunc(func(ctx context.Context, _ string) (bool, error) {
		<-ctx.Done()
		return false, ctx.Err()
	})

	_, err := client.New(srv.URL, "tok", nil).DeleteMovement(ctx, "m1", waiting)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Zero(t, s.deletes.Load())
}
