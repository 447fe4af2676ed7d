// Package snapshot implements the batch snapshot driver: for every mesh file
// in a directory it clears the host scene, imports the mesh and captures it
// from the fixed viewpoints, then quits the host.
//
// The driver is strictly sequential and stops at the first error. The pause
// after every redraw is a fixed duration rather than a completion signal, so
// a host that repaints slower than Config.Wait can produce stale captures.
package snapshot
