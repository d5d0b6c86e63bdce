// Package types defines the JSON bodies exchanged on the extractor's HTTP API.
//
//	POST /generate  {"userId": "u-1", "prompt": "<page text>"}
//	200             {"response": "<markdown>"}
//	4xx/5xx         {"error": "<message>"}
package types
