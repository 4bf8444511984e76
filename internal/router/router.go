// Package router wires the proxy's HTTP surface: the index page, the
// admin GraphQL plane, and the proxied data plane, all under one
// listener with permissive CORS on the POST endpoints.
package router

import (
	"net/http"

	"github.com/proxycraft/gqlproxy/internal/adminapi"
	"github.com/proxycraft/gqlproxy/internal/httpproxy"
	"github.com/proxycraft/gqlproxy/internal/wsproxy"
)

const indexPage = `<!DOCTYPE html>
<html>
<head><title>gqlproxy</title></head>
<body>
  <ul>
    <li><a href="/admin-graphiql">Admin API</a></li>
    <li><a href="/graphiql">Proxied API</a></li>
  </ul>
</body>
</html>`

// New assembles the proxy's ServeMux from its constituent handlers.
func New(admin *adminapi.Handler, adminWS *adminapi.WSHandler, proxy *httpproxy.Handler, proxyWS *wsproxy.Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(indexPage))
	})

	mux.HandleFunc("/admin-graphiql", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(graphiqlPage("gqlproxy admin", "/admin-api/graphql"))
	})
	mux.Handle("/admin-api/graphql", cors(admin))
	mux.Handle("/admin-api/graphql-ws", adminWS)

	mux.HandleFunc("/graphiql", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(graphiqlPage("gqlproxy", "/api/graphql"))
	})
	mux.Handle("/api/graphql", cors(proxy))
	mux.Handle("/api/graphql-ws", proxyWS)

	return mux
}

// cors sets permissive preflight headers on POST endpoints and answers
// OPTIONS requests without reaching the wrapped handler.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "*")
		w.Header().Set("Access-Control-Allow-Headers", "*")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
