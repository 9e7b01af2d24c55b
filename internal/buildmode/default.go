//go:build !demo

// Package buildmode reports how the binary was built. Demo-only behaviour is
// compiled in with -tags demo and cannot be switched on at runtime.
package buildmode

const Demo = false
