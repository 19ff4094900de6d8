package api

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// corsHeaders let dashboards served from another origin read the API. Every
// route is a GET, so nothing beyond read access is granted.
var corsHeaders = [][2]string{
	{"Access-Control-Allow-Origin", "*"},
	{"Access-Control-Allow-Methods", "GET, OPTIONS"},
	{"Access-Control-Allow-Headers", "Authorization, Accept, Content-Type"},
	{"Access-Control-Max-Age", "86400"},
}

// corsMiddleware adds the CORS headers to every Huma response.
func corsMiddleware(ctx huma.Context, next func(huma.Context)) {
	for _, h := range corsHeaders {
		ctx.SetHeader(h[0], h[1])
	}
	next(ctx)
}

// addPreflightHandler answers OPTIONS on any path. Huma only routes the
// registered methods, so preflight has to be handled on the mux.
func addPreflightHandler(mux *http.ServeMux) {
	mux.HandleFunc("OPTIONS /", func(w http.ResponseWriter, _ *http.Request) {
		for _, h := range corsHeaders {
			w.Header().Set(h[0], h[1])
		}
		w.WriteHeader(http.StatusNoContent)
	})
}
