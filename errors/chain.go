package errors

import stderrors "errors"

// maxChainDepth bounds cause-chain walks so a malformed cycle can
// never hang the caller.
const maxChainDepth = 64

// Chain returns the full cause chain starting at err, outermost first.
// The walk is cycle-guarded and always terminates.
func Chain(err error) []error {
	var chain []error
	seen := make(map[*AppError]bool)

	for err != nil && len(chain) < maxChainDepth {
		if appErr, ok := err.(*AppError); ok {
			if seen[appErr] {
				break
			}
			seen[appErr] = true
		}
		chain = append(chain, err)
		err = stderrors.Unwrap(err)
	}
	return chain
}

// RootCause walks the cause chain and returns the terminal error.
// The result may be a foreign (non-AppError) error.
func RootCause(err error) error {
	chain := Chain(err)
	if len(chain) == 0 {
		return nil
	}
	return chain[len(chain)-1]
}

// HasCategory reports whether any error in the chain is an AppError
// of the given category.
func HasCategory(err error, cat Category) bool {
	for _, e := range Chain(err) {
		if appErr, ok := e.(*AppError); ok && appErr.Category == cat {
			return true
		}
	}
	return false
}

// HasCode reports whether any error in the chain is an AppError
// with the given code.
func HasCode(err error, code ErrorCode) bool {
	for _, e := range Chain(err) {
		if appErr, ok := e.(*AppError); ok && appErr.Code == code {
			return true
		}
	}
	return false
}

// IsRetryable reports whether the outermost AppError in the chain is
// retryable. Foreign errors are considered retryable so callers fail
// open toward retrying transient faults.
func IsRetryable(err error) bool {
	for _, e := range Chain(err) {
		if appErr, ok := e.(*AppError); ok {
			return appErr.Retryable
		}
	}
	return true
}
