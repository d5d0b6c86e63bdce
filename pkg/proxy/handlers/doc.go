// Package handlers implements the extractor's POST /generate endpoint.
//
//	400  {"error": "Missing userId or prompt"}
//	413  {"error": "Request body too large"}
//	429  {"error": "Daily GPT limit reached (3/day)"}
//	500  {"error": "<generation failure message>"}
//	200  {"response": "<markdown>"}
package handlers
