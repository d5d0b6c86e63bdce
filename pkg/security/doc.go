// Package security groups credential handling. Subpackage secrets resolves
// the model provider API key at startup.
package security
