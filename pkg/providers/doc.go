// Package providers implements the abstraction over language-model backends.
//
// # Architecture
//
//  1. Provider interface - the contract every backend adapter implements
//  2. HTTPProvider - shared HTTP client logic (connection pooling, typed
//     error mapping, passive health)
//  3. Adapters - backend wire formats (see package openai)
//
// # Error Handling
//
// HTTPProvider maps every failure to a typed error so callers can classify it
// without string matching:
//
//   - AuthError: 401 or 403 from the backend
//   - RateLimitError: 429, with Retry-After parsed when present
//   - TimeoutError: the deadline passed (matches context.DeadlineExceeded)
//   - ProviderError: any other non-2xx status or transport failure
//   - ParseError: the body could not be decoded or had no usable content
//   - ValidationError: the request was rejected before sending
//   - ConfigError: the adapter was misconfigured
//
// Caller cancellation is returned as the context error itself.
//
// # Retries
//
// There are none. Each call makes exactly one upstream attempt; a request
// that already consumed user quota must not fan out into several paid calls.
//
// # Health
//
// Health is tracked passively from real traffic. Any success marks the
// provider healthy; three consecutive failures (5xx, auth, timeouts or
// transport errors) mark it unhealthy. 4xx responses other than auth do not
// count against health. Adapters expose an active probe via HealthCheck.
package providers
