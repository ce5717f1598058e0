package domain

import "context"

// Actor operador autenticado que origina una petición.
type Actor struct {
	UserID   string
	Username string
	Role     string
}

type actorKey struct{}

// WithActor adjunta el actor al contexto de la petición.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// ActorFromContext devuelve el actor de la petición, si existe.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(Actor)
	return a, ok
}

// ActorID devuelve el UserID del actor o "system" para procesos internos.
func ActorID(ctx context.Context) string {
	if a, ok := ActorFromContext(ctx); ok && a.UserID != "" {
		return a.UserID
	}
	return "system"
}
