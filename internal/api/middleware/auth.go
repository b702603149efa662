package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/api/handlers"
	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/domain"
)

// Заголовки, которыми вышестоящий gateway передаёт личность вызывающего.
// Сервис доверяет им так же, как и любому внутреннему трафику: проверка
// подписи и аутентификация — забота gateway-я.
const (
	HeaderActorRole = "X-Actor-Role"
	HeaderActorID   = "X-Actor-ID"
)

type actorContextKey struct{}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Auth резолвит действующее лицо из заголовков запроса и кладет его в
// context. Запросы без корректной пары роль+ID отклоняются.
func Auth(log Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := domain.Role(r.Header.Get(HeaderActorRole))
			switch role {
			case domain.RoleAdmin, domain.RoleTeacher, domain.RoleStudent:
			default:
				log.Warn("%s %s - unknown actor role %q", r.Method, r.URL.Path, role)
				handlers.RespondError(w, http.StatusUnauthorized, "неизвестная роль вызывающего")
				return
			}

			id, err := uuid.Parse(r.Header.Get(HeaderActorID))
			if err != nil {
				log.Warn("%s %s - invalid actor id: %v", r.Method, r.URL.Path, err)
				handlers.RespondError(w, http.StatusUnauthorized, "некорректный идентификатор вызывающего")
				return
			}

			actor := domain.Actor{Role: role, ID: id}
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

// RequireAdmin пропускает только администраторов
func RequireAdmin(log Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok || !actor.IsAdmin() {
				log.Warn("%s %s - admin access required", r.Method, r.URL.Path)
				handlers.RespondForbidden(w, "операция доступна только администратору")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithActor кладет действующее лицо в context
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// ActorFromContext достает действующее лицо из context
func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor, ok
}
