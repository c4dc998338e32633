package errors

import (
	stderrors "errors"
	"fmt"

	goerrors "github.com/go-errors/errors"
)

type Kind string

const (
	KindFieldMiss       Kind = "FIELD_MISS"
	KindListingRejected Kind = "LISTING_REJECTED"
	KindNavigation      Kind = "NAVIGATION"
	KindBatchWrite      Kind = "BATCH_WRITE"
	KindRunFatal        Kind = "RUN_FATAL"
	KindConfig          Kind = "CONFIG"
)

// DomainError carries the failure kind so each layer can decide whether it
// degrades locally or hands the error up.
type DomainError struct {
	Kind    Kind
	Message string
	Err     error
	Stack   []byte
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func (e *DomainError) StackTrace() []byte {
	return e.Stack
}

func New(kind Kind, message string, err error) *DomainError {
	var stack []byte
	if err != nil {
		if stackErr, ok := err.(*goerrors.Error); ok {
			stack = stackErr.Stack()
		} else {
			stack = goerrors.Wrap(err, 2).Stack()
		}
	} else {
		stack = goerrors.New(message).Stack()
	}

	return &DomainError{
		Kind:    kind,
		Message: message,
		Err:     err,
		Stack:   stack,
	}
}

func Rejected(reason string) *DomainError {
	return &DomainError{Kind: KindListingRejected, Message: reason}
}

func Navigation(message string, err error) *DomainError {
	return New(KindNavigation, message, err)
}

func BatchWrite(message string, err error) *DomainError {
	return New(KindBatchWrite, message, err)
}

func RunFatal(message string, err error) *DomainError {
	return New(KindRunFatal, message, err)
}

func Config(message string) *DomainError {
	return New(KindConfig, message, nil)
}

// KindOf returns the kind of the first DomainError in the chain, or "".
func KindOf(err error) Kind {
	var de *DomainError
	if stderrors.As(err, &de) {
		return de.Kind
	}
	return ""
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Reason returns the message of a rejection, used for diagnostics counters.
func Reason(err error) string {
	var de *DomainError
	if stderrors.As(err, &de) {
		return de.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

func As(err error, target any) bool {
	return stderrors.As(err, target)
}
