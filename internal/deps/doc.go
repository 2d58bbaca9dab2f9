// Package deps checks for the external binaries spotigrab executes.
package deps
