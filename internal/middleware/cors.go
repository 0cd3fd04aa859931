package middleware

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// CORSConfig holds CORS configuration options.
type CORSConfig struct {
	// AllowedOrigins lists origins allowed to make cross-origin requests.
	// An entry may use "*." in the host for any subdomain
	// ("https://*.vercel.app") and ":*" for any port ("http://localhost:*").
	AllowedOrigins []string

	// AllowedMethods specifies the allowed HTTP methods.
	AllowedMethods []string

	// AllowedHeaders specifies the allowed request headers.
	AllowedHeaders []string

	// ExposedHeaders specifies which headers the browser can access.
	ExposedHeaders []string

	// AllowCredentials indicates whether credentials (cookies, auth) are allowed.
	// Matched origins are echoed back, never "*".
	AllowCredentials bool

	// MaxAge is the value for Access-Control-Max-Age header (in seconds).
	MaxAge int
}

// DefaultCORSConfig allows the hosted frontend and local development
// servers on any port.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedOrigins: []string{
			"https://*.vercel.app",
			"http://localhost:*",
			"http://127.0.0.1:*",
		},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}
}

// originPattern is a parsed AllowedOrigins entry.
type originPattern struct {
	scheme    string
	host      string // without the "*." prefix when subdomain is set
	port      string // "" = default port only, "*" = any explicit port
	subdomain bool
}

func parseOriginPattern(raw string) (originPattern, bool) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok || scheme == "" || rest == "" {
		return originPattern{}, false
	}

	p := originPattern{scheme: scheme}
	host := rest
	if i := strings.LastIndex(rest, ":"); i >= 0 && !strings.Contains(rest[i:], "]") {
		host, p.port = rest[:i], rest[i+1:]
	}
	if strings.HasPrefix(host, "*.") {
		p.subdomain = true
		host = strings.TrimPrefix(host, "*.")
	}
	host = strings.Trim(host, "[]")
	if host == "" {
		return originPattern{}, false
	}
	p.host = host
	return p, true
}

func (p originPattern) matches(scheme, host, port string) bool {
	if scheme != p.scheme {
		return false
	}
	switch p.port {
	case "*":
		if port == "" {
			return false
		}
	default:
		if port != p.port {
			return false
		}
	}
	if p.subdomain {
		// "*.example.com" matches "a.example.com" but not "example.com" or "badexample.com".
		return strings.HasSuffix(host, "."+p.host)
	}
	return host == p.host
}

// CORS returns a middleware that handles Cross-Origin Resource Sharing,
// including preflight OPTIONS requests.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	methodsStr := strings.Join(cfg.AllowedMethods, ", ")
	headersStr := strings.Join(cfg.AllowedHeaders, ", ")
	exposedStr := strings.Join(cfg.ExposedHeaders, ", ")
	maxAgeStr := ""
	if cfg.MaxAge > 0 {
		maxAgeStr = strconv.Itoa(cfg.MaxAge)
	}

	patterns := make([]originPattern, 0, len(cfg.AllowedOrigins))
	for _, raw := range cfg.AllowedOrigins {
		if p, ok := parseOriginPattern(raw); ok {
			patterns = append(patterns, p)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			// No Origin header = same-origin request, skip CORS
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Add("Vary", "Origin")

			if !isOriginAllowed(origin, patterns) {
				// Preflight from a foreign origin is refused outright; simple
				// requests proceed without CORS headers and the browser blocks them.
				if r.Method == http.MethodOptions {
					w.WriteHeader(http.StatusForbidden)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)

			if cfg.AllowCredentials {
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}

			if exposedStr != "" {
				w.Header().Set("Access-Control-Expose-Headers", exposedStr)
			}

			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", methodsStr)
				w.Header().Set("Access-Control-Allow-Headers", headersStr)

				if maxAgeStr != "" {
					w.Header().Set("Access-Control-Max-Age", maxAgeStr)
				}

				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// isOriginAllowed checks the origin against the parsed allow list.
// An empty list denies every cross-origin request.
func isOriginAllowed(origin string, patterns []originPattern) bool {
	u, err := url.Parse(strings.ToLower(origin))
	if err != nil || u.Scheme == "" || u.Host == "" || u.Path != "" {
		return false
	}

	host, port := u.Hostname(), u.Port()
	for _, p := range patterns {
		if p.matches(u.Scheme, host, port) {
			return true
		}
	}
	return false
}
