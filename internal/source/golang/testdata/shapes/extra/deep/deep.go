// Package deep sits below a directory without Go files.
package deep

// Depth is how far down this package lives.
const Depth = 2
