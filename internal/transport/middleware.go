package transport

import (
	"net/http"
	"strings"

	"github.com/wb-go/wbf/ginext"
)

const (
	corsAllowedHeaders = "Accept, Content-Type, Content-Length, Accept-Encoding, X-Request-Id"
	corsAllowedMethods = "GET, POST, PUT, OPTIONS"
)

// NewCORS - разрешаем фронту с любого origin ходить в API, preflight отвечаем сразу
func NewCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", corsAllowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", corsAllowedHeaders)
		w.Header().Set("Access-Control-Expose-Headers", "X-Request-Id")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// SiteFallback отдает статику фронта с корня сайта для всего, что не попало в роуты API
func SiteFallback(dir string) func(*ginext.Context) {
	files := http.FileServer(http.Dir(dir))
	return func(ctx *ginext.Context) {
		method := ctx.Request.Method
		if (method != http.MethodGet && method != http.MethodHead) || strings.HasPrefix(ctx.Request.URL.Path, "/api/") {
			ctx.JSON(404, map[string]string{"error": "route not found"})
			return
		}
		files.ServeHTTP(ctx.Writer, ctx.Request)
	}
}
