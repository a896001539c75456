package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_CountsBusinessEvents(t *testing.T) {
	r := NewRecorder(false)

	r.MovementRecorded("ingrediente", "salida")
	r.MovementRecorded("ingrediente", "salida")
	r.MovementRecorded("produccion", "produccion")
	r.ReversalExecuted("cascada")
	r.ProductionTransition("receta", "completada")
	r.ValidationFailed("crear_produccion")
	r.TransferRecorded(true)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.movements.WithLabelValues("ingrediente", "salida")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.movements.WithLabelValues("produccion", "produccion")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.reversals.WithLabelValues("cascada")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.productions.WithLabelValues("receta", "completada")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.validations.WithLabelValues("crear_produccion")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.transfers.WithLabelValues("true")))
}

func TestRecorder_ExposesOwnRegistry(t *testing.T) {
	r := NewRecorder(false)
	r.ObserveRequest("GET", "/api/produccion", 200, 15*time.Millisecond)
	r.ReversalExecuted("movimiento")

	expected := `
# HELP produccion_reversals_total Reversiones ejecutadas por estrategia.
# TYPE produccion_reversals_total counter
produccion_reversals_total{strategy="movimiento"} 1
`
	require.NoError(t, testutil.GatherAndCompare(r.Registry(), strings.NewReader(expected), "produccion_reversals_total"))

	count, err := testutil.GatherAndCount(r.Registry(), "produccion_http_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
