// SPDX-FileCopyrightText: 2025 GSI Helmholtzzentrum für Schwerionenforschung GmbH
//
// SPDX-License-Identifier: MPL-2.0

// Package testutil holds helpers shared by tests.
package testutil

// ErrorWriter is an io.Writer that accepts a fixed number of writes and
// fails every write after that.
type ErrorWriter struct {
	err     error
	allowed int
	written int
}

// NewErrorWriter returns a writer whose first write already fails.
func NewErrorWriter(err error) *ErrorWriter {
	return NewErrorWriterAfter(0, err)
}

// NewErrorWriterAfter returns a writer that accepts n writes before failing.
func NewErrorWriterAfter(n int, err error) *ErrorWriter {
	return &ErrorWriter{err: err, allowed: n}
}

// Write implements io.Writer.
func (e *ErrorWriter) Write(p []byte) (int, error) {
	if e.written >= e.allowed {
		return 0, e.err
	}

	e.written++

	return len(p), nil
}

// Writes returns the number of writes that succeeded.
func (e *ErrorWriter) Writes() int {
	return e.written
}
