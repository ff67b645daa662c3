package httpserver

import (
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

// newAPIProxy builds the authenticated passthrough for /api/*: the session
// cookie is exchanged for the stored bearer token, any Authorization header
// the frontend tried to smuggle in is dropped, and the /api prefix is
// stripped before the request reaches the upstream.
func newAPIProxy(logger *log.Logger, deps Deps) (gin.HandlerFunc, error) {
	target, err := url.Parse(deps.APIBaseURL)
	if err != nil {
		return nil, err
	}

	proxy := httputil.NewSingleHostReverseProxy(target)
	director := proxy.Director
	proxy.Director = func(r *http.Request) {
		director(r)
		r.URL.Path = target.Path + strings.TrimPrefix(r.URL.Path, target.Path+"/api")
		r.Host = target.Host
	}
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		logger.Printf("proxy: %s %s error=%v", r.Method, r.URL.Path, err)
		w.WriteHeader(http.StatusBadGateway)
	}

	return func(c *gin.Context) {
		// Preflight never carries the cookie; let it through.
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		sess, _, ok := lookupSession(c, deps)
		if !ok {
			c.String(http.StatusUnauthorized, "No autenticado (sesión vencida o inválida).")
			return
		}

		// Never let the frontend inject its own Authorization.
		c.Request.Header.Del("Authorization")
		c.Request.Header.Set("Authorization", "Bearer "+sess.AccessToken)

		proxy.ServeHTTP(c.Writer, c.Request)
	}, nil
}
