// Package core defines the shared language of the levelcheck system.
//
// This package contains:
//   - Severity levels for reported findings
//   - Anomaly kinds detected by the dependency checker
//   - The severity Policy that maps anomalies to severities
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
