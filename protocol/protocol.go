// Package protocol implements the line dispatcher that sits between a raw
// byte stream and the engine: parse one whitespace-tokenized command line,
// apply it to an engine.Engine, and write back the reply. It is deliberately
// thin - framing, connection lifecycle, and concurrency are the caller's
// concern.
package protocol

import (
	"fmt"
	"io"
	"strings"

	"lsmkv/engine"
)

// ErrUnknownCommand is returned when the first token of a line is not one
// of put, get, delete. The behavior on an unknown command is left to the
// caller, which can close the connection or reply with an error.
var ErrUnknownCommand = fmt.Errorf("protocol: unknown command")

// Dispatch parses one line and applies it against e, writing a response to
// w. get writes the raw value bytes with no framing; put and delete write
// nothing on success. The returned error is the engine error (if any) or
// ErrUnknownCommand / a malformed-line error.
func Dispatch(line string, e *engine.Engine, w io.Writer) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	switch strings.ToLower(fields[0]) {
	case "put":
		if len(fields) != 3 {
			return fmt.Errorf("protocol: put requires exactly two arguments, got %d", len(fields)-1)
		}
		return e.Put(fields[1], fields[2])

	case "delete":
		if len(fields) != 2 {
			return fmt.Errorf("protocol: delete requires exactly one argument, got %d", len(fields)-1)
		}
		return e.Delete(fields[1])

	case "get":
		if len(fields) != 2 {
			return fmt.Errorf("protocol: get requires exactly one argument, got %d", len(fields)-1)
		}
		v, ok, err := e.Get(fields[1])
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		_, err = io.WriteString(w, v.Payload())
		return err

	default:
		return ErrUnknownCommand
	}
}
