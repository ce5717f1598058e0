package ports

import (
	"context"
	"time"
)

// ReportCache caché de lectura para reportes. Las claves se versionan por generación:
// Get devuelve la generación leída y Set guarda bajo esa misma generación, así un
// reporte calculado mientras otra petición invalidaba nunca queda visible.
// Invalidate se llama después de cada mutación confirmada y registra sus propios fallos.
type ReportCache interface {
	Get(ctx context.Context, key string, dst any) (hit bool, generation int64, err error)
	Set(ctx context.Context, generation int64, key string, value any, ttl time.Duration) error
	Invalidate(ctx context.Context)
}

// NopReportCache caché desactivada.
type NopReportCache struct{}

func (NopReportCache) Get(context.Context, string, any) (bool, int64, error) { return false, 0, nil }
func (NopReportCache) Set(context.Context, int64, string, any, time.Duration) error { return nil }
func (NopReportCache) Invalidate(context.Context) {}
