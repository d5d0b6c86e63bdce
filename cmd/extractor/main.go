// Command extractor serves the instruction-extraction API used by the
// "Just the Instructions" browser extension.
//
// Usage:
//
//	# Start with built-in defaults (API key from OPENAI_API_KEY)
//	extractor run
//
//	# Start with a configuration file
//	extractor run --config /etc/extractor/config.yaml
//
//	# Check configuration, secret resolution and upstream reachability
//	extractor validate --secrets --ping
//
//	# Show version information
//	extractor version
package main

import "os"

func main() {
	os.Exit(Execute())
}
