package middleware

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/vancomm/minesweeper-web/internal/config"
	"github.com/vancomm/minesweeper-web/internal/session"
)

type CtxKey int

const (
	CtxSessionClaims CtxKey = iota
)

// Session parses the game token, when one is present and valid, into
// [session.Claims] stored under [CtxSessionClaims]. Requests without a usable
// token pass through untouched; handlers decide whether they need one.
//
// An explicit ?token= wins over the header and the game_token cookie, so a
// client can address a new game while an older cookie is still around.
func Session(
	logger logrus.FieldLogger,
	cookies *config.Cookies,
	tokens *session.Tokens,
) Middleware {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.URL.Query().Get("token")
			if token == "" {
				token, _ = cookies.GameToken(r)
			}
			if token == "" {
				h.ServeHTTP(w, r)
				return
			}
			claims, err := tokens.Parse(token)
			if err != nil {
				logger.WithError(err).Debug("rejected game token")
				h.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), CtxSessionClaims, claims)
			h.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func SessionClaims(ctx context.Context) (*session.Claims, bool) {
	claims, ok := ctx.Value(CtxSessionClaims).(*session.Claims)
	return claims, ok
}
