// Package server assembles the extractor's HTTP server.
//
// NewServer mounts POST /generate, the health endpoints and /metrics on a
// ServeMux and wraps it in the middleware chain (recovery, access logging,
// request ID, metrics, CORS). Start serves until its context is cancelled
// and then drains in-flight requests within server.shutdown_timeout:
//
//	srv, err := server.NewServer(cfg, server.Dependencies{
//	    Quota:     store,
//	    Generator: genClient,
//	    Metrics:   collector,
//	    Health:    checker,
//	})
//	if err != nil {
//	    return err
//	}
//	return srv.Start(ctx)
//
// Signal handling belongs to the caller; cmd/extractor cancels ctx on
// SIGINT or SIGTERM.
package server
