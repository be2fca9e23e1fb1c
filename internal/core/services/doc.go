// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Each pipeline stage is one service. Stages hand off through the
// artifact store, so any stage can be rerun on its own.
package services
