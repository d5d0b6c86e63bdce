// Package proxy holds the HTTP plumbing shared by the extractor's handlers:
// request parsing with body limits, JSON response writers, rate limit
// headers and request metadata for logging.
//
// Subpackages:
//   - handlers: the POST /generate handler
//   - middleware: recovery, access logging, request IDs, metrics and CORS
//   - types: JSON request and response bodies
package proxy
