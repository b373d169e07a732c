package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// CORSConfig holds CORS configuration options.
type CORSConfig struct {
	// AllowedOrigins lists exact origins or "*.example.com" subdomain patterns.
	// Empty denies every cross-origin request.
	AllowedOrigins []string

	AllowedMethods []string
	AllowedHeaders []string
	ExposedHeaders []string

	// AllowCredentials must not be combined with wildcard origins.
	AllowCredentials bool

	// MaxAge is the preflight cache lifetime in seconds.
	MaxAge int
}

// DefaultCORSConfig returns the policy for the pet API: the methods its
// routes use, bearer auth and JSON bodies, and the request id header exposed.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "Accept", RequestIDHeader},
		ExposedHeaders:   []string{RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           86400,
	}
}

type corsPolicy struct {
	exact     map[string]bool
	suffixes  []string
	methods   string
	headers   string
	exposed   string
	maxAge    string
	allowCred bool
}

func newCORSPolicy(cfg CORSConfig) corsPolicy {
	p := corsPolicy{
		exact:     make(map[string]bool, len(cfg.AllowedOrigins)),
		methods:   strings.Join(cfg.AllowedMethods, ", "),
		headers:   strings.Join(cfg.AllowedHeaders, ", "),
		exposed:   strings.Join(cfg.ExposedHeaders, ", "),
		allowCred: cfg.AllowCredentials,
	}
	if cfg.MaxAge > 0 {
		p.maxAge = strconv.Itoa(cfg.MaxAge)
	}
	for _, origin := range cfg.AllowedOrigins {
		origin = strings.ToLower(strings.TrimSpace(origin))
		if suffix, ok := strings.CutPrefix(origin, "*"); ok && strings.HasPrefix(suffix, ".") {
			p.suffixes = append(p.suffixes, suffix)
			continue
		}
		p.exact[origin] = true
	}
	return p
}

// allows matches exact origins, then "*.domain" patterns against a real
// subdomain label ("https://a.example.com" but not "https://badexample.com").
func (p corsPolicy) allows(origin string) bool {
	origin = strings.ToLower(origin)
	if p.exact[origin] {
		return true
	}
	for _, suffix := range p.suffixes {
		host, ok := strings.CutSuffix(origin, suffix)
		if !ok {
			continue
		}
		if _, label, found := strings.Cut(host, "://"); found && label != "" {
			return true
		}
	}
	return false
}

// CORS handles cross-origin requests and preflights. Disallowed origins get
// no CORS headers, and their preflights get 403.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	policy := newCORSPolicy(cfg)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !policy.allows(origin) {
				if r.Method == http.MethodOptions {
					w.WriteHeader(http.StatusForbidden)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Add("Vary", "Origin")
			if policy.allowCred {
				h.Set("Access-Control-Allow-Credentials", "true")
			}
			if policy.exposed != "" {
				h.Set("Access-Control-Expose-Headers", policy.exposed)
			}

			if r.Method == http.MethodOptions {
				h.Set("Access-Control-Allow-Methods", policy.methods)
				h.Set("Access-Control-Allow-Headers", policy.headers)
				if policy.maxAge != "" {
					h.Set("Access-Control-Max-Age", policy.maxAge)
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
