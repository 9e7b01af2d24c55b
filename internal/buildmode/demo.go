//go:build demo

package buildmode

// Demo enables the test-data routes and the simulated email provider.
const Demo = true
