// Package ignored is excluded by the test filter.
package ignored

// Hidden should never be documented.
const Hidden = true
