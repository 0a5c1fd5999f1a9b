package api

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var devOrigins = []string{
	"http://localhost:3000", // dashboard dev server
	"http://localhost:5173",
}

// corsMiddleware allows the dashboard origins. Production origins come from
// a comma separated list.
func corsMiddleware(isProduction bool, prodOrigins string) gin.HandlerFunc {
	config := cors.DefaultConfig()
	config.AllowOrigins = devOrigins
	if isProduction {
		config.AllowOrigins = splitOrigins(prodOrigins)
		if len(config.AllowOrigins) == 0 {
			// No cross-origin callers at all.
			config.AllowOriginFunc = func(string) bool { return false }
		}
	}
	config.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	return cors.New(config)
}

func splitOrigins(v string) []string {
	var out []string
	for _, o := range strings.Split(v, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
