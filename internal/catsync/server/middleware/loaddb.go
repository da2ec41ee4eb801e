package middleware

import (
	"net/http"

	"github.com/MajorCrixus/AetherLink-sub001/internal/catsync/db"
)

// LoadDB checks out a database connection for the request and releases it
// when the handler returns.
func LoadDB(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := db.ConnCtx(r.Context())
		if d := db.DB(ctx); d != nil {
			defer d.Close(ctx)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
