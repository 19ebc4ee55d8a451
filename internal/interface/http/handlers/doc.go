// Package handlers contains HTTP handler interfaces and implementations.
//
// This package provides health check interfaces and implementations used by
// the REST API's /health, /ready, and /live probes.
//
// The HealthChecker interface allows registering multiple named health checks
// that are executed in parallel:
//
//	checker := handlers.NewCompositeHealthChecker("v1.0.0")
//	checker.AddCheck("postgres", handlers.NewDatabaseCheck(conn))
//	checker.AddCheck("redis", handlers.NewCacheCheck(cache))
//
//	status := checker.Check(ctx)
//	if !status.Healthy {
//	    log.Printf("Health check failed: %s", status.Message)
//	}
//
// When implementing health checks:
//   - Use timeouts to prevent slow checks from blocking the response
//   - Include critical dependencies like the event store and cache
//   - Keep checks fast (< 1 second ideally)
//   - Return detailed information for debugging
package handlers
