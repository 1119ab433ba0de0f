package lsp

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const RPC_VERSION = "2.0"

// https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification/#errorCodes
const (
	ErrorParse          = -32700
	ErrorInvalidRequest = -32600
	ErrorMethodNotFound = -32601
	ErrorInvalidParams  = -32602
	ErrorInternal       = -32603
	ErrorRequestFailed  = -32803
)

var headerSeparator = []byte{'\r', '\n', '\r', '\n'}

type Request struct {
	RPC    string `json:"jsonrpc"`
	ID     int    `json:"id"`
	Method string `json:"method"`
}

type Response struct {
	RPC string `json:"jsonrpc"`
	ID  *int   `json:"id"`
}

type Notification struct {
	RPC    string `json:"jsonrpc"`
	Method string `json:"method"`
}

type ResponseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Response
	Error ResponseError `json:"error"`
}

func NewErrorResponse(id int, code int, message string) ErrorResponse {
	return ErrorResponse{
		Response: Response{
			RPC: RPC_VERSION,
			ID:  &id,
		},
		Error: ResponseError{
			Code:    code,
			Message: message,
		},
	}
}

func EncodeMessage(msg any) string {
	content, err := json.Marshal(msg)
	if err != nil {
		panic(err)
	}
	return fmt.Sprintf("Content-Length: %d\r\n\r\n%s", len(content), content)
}

type baseMessage struct {
	Method string `json:"method"`
}

// DecodeMessage takes one framed message as produced by Split and returns
// its method and JSON content. Responses to our own requests have no method.
func DecodeMessage(msg []byte) (string, []byte, error) {
	header, content, found := bytes.Cut(msg, headerSeparator)
	if !found {
		return "", nil, errors.New("did not find header separator")
	}

	length, err := contentLength(header)
	if err != nil {
		return "", nil, err
	}
	if len(content) < length {
		return "", nil, fmt.Errorf("content is %d bytes, header announced %d", len(content), length)
	}
	content = content[:length]

	var base baseMessage
	if err := json.Unmarshal(content, &base); err != nil {
		return "", nil, err
	}
	return base.Method, content, nil
}

// Split is a bufio.SplitFunc yielding one framed message per token.
func Split(data []byte, _ bool) (advance int, token []byte, err error) {
	header, content, found := bytes.Cut(data, headerSeparator)
	if !found {
		return 0, nil, nil
	}

	length, err := contentLength(header)
	if err != nil {
		return 0, nil, err
	}
	if len(content) < length {
		return 0, nil, nil
	}

	total := len(header) + len(headerSeparator) + length
	return total, data[:total], nil
}

func contentLength(header []byte) (int, error) {
	for _, line := range strings.Split(string(header), "\r\n") {
		name, value, ok := strings.Cut(line, ":")
		if !ok || !strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			continue
		}
		length, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return 0, fmt.Errorf("invalid Content-Length: %w", err)
		}
		if length < 0 {
			return 0, fmt.Errorf("invalid Content-Length: %d", length)
		}
		return length, nil
	}
	return 0, errors.New("missing Content-Length header")
}
