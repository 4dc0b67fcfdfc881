package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"

	"github.com/radieske/yegame-client/internal/api/dto"
)

// ErrUnauthorized casa (errors.Is) com qualquer HTTPError de status 401
var ErrUnauthorized = errors.New("unauthorized")

// ErrResponseTooLarge: corpo de resposta passou de maxBody
var ErrResponseTooLarge = errors.New("response too large")

// TransportError: nenhuma resposta chegou (dial, timeout, cancelamento)
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Timeout informa se a falha foi por estouro de prazo
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(e.Err, &ne) && ne.Timeout()
}

// HTTPError: resposta recebida com status fora de 2xx
// Message vem do corpo estruturado ({message} ou {error}) quando houver
type HTTPError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
	Body       []byte
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: http %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s: http %d", e.Method, e.Path, e.StatusCode)
}

func (e *HTTPError) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == 401
}

func newHTTPError(method, path string, status int, body []byte) *HTTPError {
	herr := &HTTPError{Method: method, Path: path, StatusCode: status, Body: body}
	var eb dto.ErrorBody
	if json.Unmarshal(body, &eb) == nil {
		herr.Message = eb.Text()
	}
	return herr
}

// Message devolve o texto a mostrar ao usuário: a mensagem do servidor
// quando existir, senão o próprio erro
func Message(err error) string {
	var herr *HTTPError
	if errors.As(err, &herr) && herr.Message != "" {
		return herr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
