package ports

// Recorder registra eventos de negocio para métricas.
type Recorder interface {
	MovementRecorded(kind, movementType string)
	ReversalExecuted(strategy string)
	ProductionTransition(origin, state string)
	ValidationFailed(operation string)
	TransferRecorded(reverted bool)
}

// NoopRecorder descarta los eventos.
type NoopRecorder struct{}

func (NoopRecorder) MovementRecorded(string, string)     {}
func (NoopRecorder) ReversalExecuted(string)             {}
func (NoopRecorder) ProductionTransition(string, string) {}
func (NoopRecorder) ValidationFailed(string)             {}
func (NoopRecorder) TransferRecorded(bool)               {}
