// Package muxhandlers provides HTTP middleware handlers for the mux router.
//
// Every middleware follows the same shape: a Config struct and a
// constructor returning a mux.MiddlewareFunc. Constructors that can reject
// their configuration also return an error.
//
// # Request ID Middleware
//
// RequestIDMiddleware generates (or propagates) an X-Request-ID header and
// attaches a zerolog logger carrying the id to the request context, so
// downstream code can log with zerolog.Ctx(r.Context()).
//
//	r.Use(muxhandlers.RequestIDMiddleware(muxhandlers.RequestIDConfig{}))
//
// # Logging Middleware
//
// LoggingMiddleware writes one access log line per request with method,
// path, status, size and latency.
//
//	handler = muxhandlers.LoggingMiddleware(muxhandlers.LoggingConfig{})(handler)
//
// # Method Override Middleware
//
// MethodOverrideMiddleware rewrites a POST request's method from an
// X-HTTP-Method-Override style header or a "_method" form field so that
// everything downstream of it, access logs included, sees the effective
// method.
//
//	mw, err := muxhandlers.MethodOverrideMiddleware(muxhandlers.MethodOverrideConfig{
//	    FormField: "_method",
//	})
//
// # Metrics Middleware
//
// MetricsMiddleware records Prometheus request counters and latency
// histograms labelled by the matched route pattern. Register it with
// Router.Use so the matched route is known.
//
//	mw, err := muxhandlers.MetricsMiddleware(muxhandlers.MetricsConfig{
//	    Namespace: "workopia",
//	    Registry:  prometheus.DefaultRegisterer,
//	})
//	r.Use(mw)
//
// # Rate Limit Middleware
//
// RateLimitMiddleware throttles requests per client key with a token
// bucket. It is intended for sensitive routes such as login.
//
//	mw, err := muxhandlers.RateLimitMiddleware(muxhandlers.RateLimitConfig{
//	    Rate:  rate.Every(6 * time.Second),
//	    Burst: 5,
//	})
//	r.Post("/users/login", authenticate, mw)
//
// # Timeout Middleware
//
// TimeoutMiddleware answers 503 when a handler overruns its deadline and
// cancels the request context it handed to the handler.
//
// # Proxy Headers Middleware
//
// ProxyHeadersMiddleware restores the client address and scheme from
// X-Forwarded-For, X-Real-IP and X-Forwarded-Proto when the peer is one of
// the configured reverse proxies. Install it before RateLimitMiddleware so
// throttling keys on the visitor.
//
//	mw, err := muxhandlers.ProxyHeadersMiddleware(muxhandlers.ProxyHeadersConfig{
//	    TrustedProxies: []string{"10.0.0.0/8"},
//	})
//
// # Basic Auth Middleware
//
// BasicAuthMiddleware implements HTTP Basic Authentication per RFC 7617
// for a single operator credential, typically guarding /metrics.
package muxhandlers
