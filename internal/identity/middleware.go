package identity

import (
	"net/http"
	"strings"

	"log/slog"

	"github.com/trusthub/trusthub/internal/platform/httpx"
	"github.com/trusthub/trusthub/internal/shared"
)

// Authenticator turns a bearer token into a request-scoped session identity.
// Refresh is pure, so interleaved requests from the same session need no
// coordination here.
type Authenticator struct {
	Builder *Builder
	Logger  *slog.Logger
}

// Middleware rejects requests without a valid session token and attaches
// the refreshed identity to the request context.
func (a Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			httpx.RespondError(w, shared.ErrUnauthorized)
			return
		}
		id, jti, err := a.Builder.Refresh(token)
		if err != nil {
			if a.Logger != nil {
				a.Logger.Debug("token refresh rejected", slog.String("path", r.URL.Path))
			}
			httpx.RespondError(w, shared.ErrUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWith(r.Context(), id, jti)))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
