package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/rahulverma-dev/medstock-backend/api/responses"
	pkgerrors "github.com/rahulverma-dev/medstock-backend/pkg/errors"
	"github.com/rahulverma-dev/medstock-backend/pkg/logger"
)

const (
	storeIDHeader = "X-Store-ID"
	userIDHeader  = "X-User-ID"
)

// StoreContext extracts the gateway-provided store and actor headers and
// injects them into the request context. Requests without a valid store id
// never reach the handlers.
func StoreContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			storeID := strings.TrimSpace(r.Header.Get(storeIDHeader))
			if storeID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "store context missing"))
				return
			}
			if _, err := uuid.Parse(storeID); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid store id"))
				return
			}

			ctx := WithStoreID(r.Context(), storeID)
			if userID := strings.TrimSpace(r.Header.Get(userIDHeader)); userID != "" {
				ctx = WithUserID(ctx, userID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
