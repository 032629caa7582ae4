package api

import (
	"errors"
	"fmt"
)

type Kind int

const (
	// KindServer: the backend answered with a non-2xx status.
	KindServer Kind = iota + 1
	// KindNetwork: the request was sent but no response arrived.
	KindNetwork
	// KindRequest: the request could not be built.
	KindRequest
)

func (k Kind) String() string {
	switch k {
	case KindServer:
		return "server"
	case KindNetwork:
		return "network"
	case KindRequest:
		return "request"
	}

	return fmt.Sprintf("kind(%d)", int(k))
}

var (
	ErrServer  = errors.New("server error")
	ErrNetwork = errors.New("network error")
	ErrRequest = errors.New("request error")
)

const genericMessage = "Ocurrió un error inesperado. Intente nuevamente."

// Error is every failure the client reports, normalized to a kind and a
// message fit for the cashier.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s error: %s: %v", e.Kind, e.Message, e.Err)
	}

	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

// Unwrap exposes both the kind sentinel and the cause, so errors.Is works
// against either.
func (e *Error) Unwrap() []error {
	out := make([]error, 0, 2)

	switch e.Kind {
	case KindServer:
		out = append(out, ErrServer)
	case KindNetwork:
		out = append(out, ErrNetwork)
	case KindRequest:
		out = append(out, ErrRequest)
	}

	if e.Err != nil {
		out = append(out, e.Err)
	}

	return out
}

func serverError(status int, msg string) *Error {
	if msg == "" {
		msg = fmt.Sprintf("El servidor respondió con estado %d", status)
	}

	return &Error{Kind: KindServer, Status: status, Message: msg}
}

func networkError(err error) *Error {
	return &Error{Kind: KindNetwork, Message: "No se recibió respuesta del servidor. Verifique la conexión.", Err: err}
}

func requestError(err error) *Error {
	return &Error{Kind: KindRequest, Message: "No se pudo preparar la solicitud.", Err: err}
}

// Message is the text to show the user for err: the server's own message
// when there is one, otherwise the error text or a generic fallback.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}

	if msg := err.Error(); msg != "" {
		return msg
	}

	return genericMessage
}

// IsStatus reports whether err is a server error with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *Error

	return errors.As(err, &apiErr) && apiErr.Kind == KindServer && apiErr.Status == status
}
