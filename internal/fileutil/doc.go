// Package fileutil holds small filesystem helpers shared by the CLI and the
// batch orchestrator: the library run lock and collision-free directory
// creation.
package fileutil
