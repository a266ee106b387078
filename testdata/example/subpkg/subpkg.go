// Package subpkg holds the messages used by `example.Greeter`.
package subpkg

// Message exposes a sample constant.
const Message = "hello"
