// Package components defines the plain data shared by the simulation systems.
package components
