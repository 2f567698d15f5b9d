// iojson are utilities for reading and writing JSON IO from a
// command line interface perspective
package iojson

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// indent is the four-space indentation used for all emitted JSON. External
// consumers of mirrored documents rely on this exact shape.
const indent = "    "

// Marshal serializes obj as indented JSON.
func Marshal(obj any) ([]byte, error) {
	return json.MarshalIndent(obj, "", indent)
}

// Error is the standard error format type that is returned when errors
// happen.
type Error struct {
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

func jsonError(msg string, jsonErr error) string {
	// Use json.Marshal to properly escape strings
	msgBytes, _ := json.Marshal(msg)
	errBytes, _ := json.Marshal(jsonErr.Error())
	return fmt.Sprintf(`{"message":%s,"data":{"json_error":%s}}`, msgBytes, errBytes)
}

// MarshalError builds the standard error blob. If the struct itself fails to
// marshal, a manually constructed JSON blob is returned instead so callers
// always get valid JSON.
func MarshalError(msg string, data map[string]any) string {
	resp := Error{Message: msg, Data: data}

	bits, err := Marshal(resp)
	if err != nil {
		return jsonError(msg, err)
	}

	return string(bits)
}

// WriteError writes the standard error blob to stderr.
func WriteError(str string, data map[string]any) error {
	errstr := MarshalError(str, data)

	_, err := fmt.Fprintln(os.Stderr, errstr)
	return err
}

// WriteTo serializes obj as indented JSON to w, followed by a newline.
func WriteTo(w io.Writer, obj any) error {
	bits, err := Marshal(obj)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	_, err = fmt.Fprintln(w, string(bits))
	return err
}

// Write calls WriteTo with [os.Stdout].
func Write(obj any) error {
	return WriteTo(os.Stdout, obj)
}
