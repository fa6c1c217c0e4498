// Package errors provides the structured error type shared by quoteboard.
//
// Every failure the runtime isolates is reported as an *Error carrying a
// registered code and a category:
//   - render: a component's render function panicked or failed
//   - lookup: a quote or symbol lookup failed
//   - subscription: a channel subscriber panicked or failed
//   - config: invalid configuration or registration
//   - lifecycle: an invalid component state transition
//
// # Usage
//
//	err := errors.New("E100").
//	    WithComponent("stock-price#3").
//	    Wrap(cause)
//
// Errors unwrap to their cause, so errors.Is and errors.As keep working on
// sentinels such as quote.ErrNotFound.
package errors
