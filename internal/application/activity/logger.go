// Package activity bitácora de auditoría de las mutaciones.
//
// Política explícita: la bitácora es best-effort. Se escribe después del Commit
// de la operación principal y un fallo al escribirla solo se registra en el log;
// nunca revierte ni hace fallar la mutación que la originó.
//
// La escritura es síncrona y acotada por writeTimeout: la respuesta de la petición
// se demora como mucho ese tiempo, y una entrada confirmada ya es visible en List
// cuando la mutación responde.
package activity

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/retail-ledger-api/internal/application/ports"
	"github.com/jhoicas/retail-ledger-api/internal/domain"
	"github.com/jhoicas/retail-ledger-api/internal/domain/entity"
	"github.com/jhoicas/retail-ledger-api/internal/domain/repository"
	"github.com/jhoicas/retail-ledger-api/pkg/logger"
)

var _ ports.ActivityRecorder = (*Logger)(nil)

const (
	writeTimeout = 2 * time.Second
	defaultLimit = 100
	maxLimit     = 500
)

// Logger escribe y lista la bitácora.
type Logger struct {
	repo    repository.ActivityLogRepository
	log     *logger.Logger
	now     func() time.Time
	timeout time.Duration
}

// Option configura el Logger.
type Option func(*Logger)

// WithWriteTimeout cambia el tope de cada escritura (por defecto 2s).
func WithWriteTimeout(d time.Duration) Option {
	return func(l *Logger) { l.timeout = d }
}

// NewLogger construye la bitácora.
func NewLogger(repo repository.ActivityLogRepository, log *logger.Logger, opts ...Option) *Logger {
	if log == nil {
		log = logger.Nop()
	}
	l := &Logger{repo: repo, log: log, now: time.Now, timeout: writeTimeout}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Record agrega una entrada. No devuelve error: los fallos se registran como warning.
// Usa un contexto desligado de la petición para que una cancelación posterior
// al Commit no pierda la entrada.
func (l *Logger) Record(ctx context.Context, action, objectType, objectID string, oldValue, newValue any) {
	entry := &entity.ActivityLog{
		ID:         uuid.New().String(),
		ActionType: action,
		ObjectType: objectType,
		ObjectID:   objectID,
		OldValue:   snapshot(oldValue),
		NewValue:   snapshot(newValue),
		Actor:      domain.ActorID(ctx),
		Timestamp:  l.now().UTC(),
	}
	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.timeout)
	defer cancel()
	if err := l.repo.Append(wctx, entry); err != nil {
		l.log.Warn().Err(err).
			Str("action", action).
			Str("object_type", objectType).
			Str("object_id", objectID).
			Msg("bitácora: no se pudo registrar la actividad")
	}
}

// List devuelve las entradas más recientes primero.
func (l *Logger) List(ctx context.Context, limit int) ([]entity.ActivityLog, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return l.repo.List(ctx, limit)
}

func snapshot(v any) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
