package common

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrAlreadyProcessed   = errors.New("already processed")
	ErrTransientChain     = errors.New("transient chain error")
	ErrGuardViolation     = errors.New("guard violation")
)

// NotFoundError is returned when a deposit, transfer or claim does not exist.
type NotFoundError struct {
	Resource string
	Key      string
}

func NewNotFoundError(resource string, key string) *NotFoundError {
	return &NotFoundError{Resource: resource, Key: key}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// InvalidTransactionError marks a transaction that can never settle: wrong
// contract, wrong selector or reverted execution.
type InvalidTransactionError struct {
	TxHash string
	Reason string
}

func NewInvalidTransactionError(txHash string, reason string) *InvalidTransactionError {
	return &InvalidTransactionError{TxHash: txHash, Reason: reason}
}

func (e *InvalidTransactionError) Error() string {
	return fmt.Sprintf("invalid transaction %s: %s", e.TxHash, e.Reason)
}

func (e *InvalidTransactionError) Is(target error) bool {
	return target == ErrInvalidTransaction
}

// AlreadyProcessedError carries the stored outcome of the first successful
// call so callers can answer with it.
type AlreadyProcessedError struct {
	Key      string
	Existing interface{}
}

func NewAlreadyProcessedError(key string, existing interface{}) *AlreadyProcessedError {
	return &AlreadyProcessedError{Key: key, Existing: existing}
}

func (e *AlreadyProcessedError) Error() string {
	return fmt.Sprintf("%s already processed", e.Key)
}

func (e *AlreadyProcessedError) Is(target error) bool {
	return target == ErrAlreadyProcessed
}

type TransientChainError struct {
	Op  string
	Err error
}

func NewTransientChainError(op string, err error) *TransientChainError {
	return &TransientChainError{Op: op, Err: err}
}

func (e *TransientChainError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransientChainError) Unwrap() error {
	return e.Err
}

func (e *TransientChainError) Is(target error) bool {
	return target == ErrTransientChain
}

type GuardViolationError struct {
	Current string
	Target  string
	Reason  string
}

func NewGuardViolationError(current string, target string, reason string) *GuardViolationError {
	return &GuardViolationError{Current: current, Target: target, Reason: reason}
}

func (e *GuardViolationError) Error() string {
	if e.Target == "" {
		return fmt.Sprintf("%s (current status %s)", e.Reason, e.Current)
	}
	return fmt.Sprintf("%s: %s -> %s", e.Reason, e.Current, e.Target)
}

func (e *GuardViolationError) Is(target error) bool {
	return target == ErrGuardViolation
}
