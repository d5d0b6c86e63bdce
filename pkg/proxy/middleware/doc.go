// Package middleware provides the HTTP middleware wrapped around every route.
//
// The server chains them in this order, outermost first:
//
//	Chain(mux,
//	    RecoveryMiddleware(logger),  // panic -> 500 {"error": "Internal server error"}
//	    LoggingMiddleware(logger),   // one access log line per request
//	    RequestIDMiddleware,         // X-Request-ID in context and response
//	    MetricsMiddleware(collector),
//	    CORSMiddleware(cfg.Server.CORS),
//	)
//
// CORS sits innermost so that preflight requests are still logged, counted
// and tagged with a request ID.
package middleware
