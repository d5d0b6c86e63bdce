// Package generation wraps a language-model provider with the extraction
// instruction, a per-call timeout and failure classification.
//
// Generate returns a Result rather than an error so handlers can branch on
// Result.OK() and, when needed, on Failure.Kind:
//
//	res := client.Generate(ctx, pageText)
//	if !res.OK() {
//	    // res.Failure.Kind is one of timeout, canceled, auth, rate_limited,
//	    // upstream, malformed_response, invalid_request, internal
//	}
package generation
