package ports

import "context"

// ActivityRecorder agrega entradas a la bitácora. Es best-effort: no devuelve error
// y se invoca después del Commit, así que nunca revierte la operación principal.
type ActivityRecorder interface {
	Record(ctx context.Context, action, objectType, objectID string, oldValue, newValue any)
}

// NopActivityRecorder descarta las entradas.
type NopActivityRecorder struct{}

// Record no hace nada.
func (NopActivityRecorder) Record(context.Context, string, string, string, any, any) {}
