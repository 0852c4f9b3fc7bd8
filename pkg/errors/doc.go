// Package errors provides structured error types for better observability
// and programmatic error handling across the application.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeTransport,
//	    "appliance connection lost",
//	    cause,
//	    map[string]interface{}{
//	        "endpoint": endpoint,
//	        "state": state.String(),
//	    },
//	)
package errors
