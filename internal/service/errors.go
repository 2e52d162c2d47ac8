package service

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/naveenspark/eventdesk/pkg/client"
)

// ErrUnauthenticated is returned before any request is sent when an
// operation needs a session and none is stored.
var ErrUnauthenticated = errors.New("not authenticated")

// Op names the failed operation.
type Op string

const (
	OpQuery        Op = "QueryFailed"
	OpCreate       Op = "CreateFailed"
	OpRegister     Op = "RegisterFailed"
	OpFetchMembers Op = "FetchFailed"
	OpLogin        Op = "LoginFailed"
	OpSignup       Op = "SignupFailed"
)

// fallbackNotices are shown when the server did not supply a message.
var fallbackNotices = map[Op]string{
	OpQuery:        "Failed to fetch events. Please try again.",
	OpCreate:       "Failed to create event. Please try again.",
	OpRegister:     "Failed to register.",
	OpFetchMembers: "Failed to fetch registered users.",
	OpLogin:        "An error occurred during login.",
	OpSignup:       "Registration failed. Please try again.",
}

// Failure is a network or server-reported failure of an operation.
type Failure struct {
	Op Op
	// Message is the server-provided explanation, if any.
	Message string
	Err     error
}

func (f *Failure) Error() string {
	if f.Message != "" {
		return fmt.Sprintf("%s: %s", f.Op, f.Message)
	}
	return fmt.Sprintf("%s: %v", f.Op, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// Notice is the user-facing text for the failure.
func (f *Failure) Notice() string {
	if f.Message != "" {
		return f.Message
	}
	return fallbackNotices[f.Op]
}

func newFailure(op Op, err error) *Failure {
	msg, _ := client.ServerMessage(err)
	return &Failure{Op: op, Message: msg, Err: err}
}

// IsAuthFailure reports whether err means the stored session was rejected.
func IsAuthFailure(err error) bool {
	return client.IsStatus(err, http.StatusUnauthorized)
}

// IsOp reports whether err is a Failure of the given op.
func IsOp(err error, op Op) bool {
	var f *Failure
	return errors.As(err, &f) && f.Op == op
}
