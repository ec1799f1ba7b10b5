package scoring

import (
	"errors"
	"fmt"
)

// Error taxonomy for the scoring engine.
//
// ErrConfig covers missing or dimensionally inconsistent model artifacts and
// is fatal: engine construction fails and no scoring call can proceed.
// ErrInput covers empty, corrupt, or unreadable audio and is recoverable
// per request. ErrNumeric (non-finite values produced during extraction or
// scaling) is a subclass of ErrInput: errors.Is(err, ErrInput) holds for
// numeric errors too. No component ever returns a partial ScoringResult
// alongside an error.
var (
	ErrConfig  = errors.New("configuration error")
	ErrInput   = errors.New("input error")
	ErrNumeric = fmt.Errorf("%w: numeric error", ErrInput)
)

func configErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfig, fmt.Sprintf(format, args...))
}

func inputErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInput, fmt.Sprintf(format, args...))
}

func numericErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNumeric, fmt.Sprintf(format, args...))
}
