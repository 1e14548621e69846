package recommend

import (
	"errors"
	"fmt"
)

var (
	// ErrDiscarded is returned by Engine.Generate when Dismiss was called
	// while the request was in flight. The generated project is dropped.
	ErrDiscarded = errors.New("generation discarded after dismiss")

	// ErrNoSession is returned by Next and Generate before Start.
	ErrNoSession = errors.New("recommendation session not started")

	// ErrNothingToRetry is returned by RetryPointer when no pointer write
	// has failed for the learner.
	ErrNothingToRetry = errors.New("no failed pointer update to retry")
)

// CatalogUnavailableError reports a failed catalog read or write.
type CatalogUnavailableError struct {
	Op    string
	Skill string
	Err   error
}

func (e *CatalogUnavailableError) Error() string {
	return fmt.Sprintf("catalog unavailable (%s %s): %v", e.Op, e.Skill, e.Err)
}

func (e *CatalogUnavailableError) Unwrap() error { return e.Err }

// LearnerRecordUnavailableError reports a failed learner record read or
// write. After a failed pointer write in Accept the catalog entry is
// already saved and Engine.RetryPointer can be used.
type LearnerRecordUnavailableError struct {
	Op        string
	LearnerID string
	Err       error
}

func (e *LearnerRecordUnavailableError) Error() string {
	return fmt.Sprintf("learner record unavailable (%s %s): %v", e.Op, e.LearnerID, e.Err)
}

func (e *LearnerRecordUnavailableError) Unwrap() error { return e.Err }

// GenerationRequestError reports that the generative service could not
// be reached, timed out, or rejected the request.
type GenerationRequestError struct {
	Err error
}

func (e *GenerationRequestError) Error() string {
	return fmt.Sprintf("project generation failed: %v", e.Err)
}

func (e *GenerationRequestError) Unwrap() error { return e.Err }

// GenerationParseError reports a response without a usable project
// definition. Raw holds the response text.
type GenerationParseError struct {
	Raw string
	Err error
}

func (e *GenerationParseError) Error() string {
	return fmt.Sprintf("generated project could not be parsed: %v", e.Err)
}

func (e *GenerationParseError) Unwrap() error { return e.Err }

// Retryable reports whether err is a store or service failure the learner
// can retry from the UI. Parse errors are retryable too: the next
// generation is a fresh request.
func Retryable(err error) bool {
	var (
		c *CatalogUnavailableError
		l *LearnerRecordUnavailableError
		g *GenerationRequestError
		p *GenerationParseError
	)
	return errors.As(err, &c) || errors.As(err, &l) || errors.As(err, &g) || errors.As(err, &p)
}
