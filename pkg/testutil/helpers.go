// Package testutil provides common utility functions for testing.
package testutil

import (
	"bytes"
	"io"
	"math"
	"os"
	"testing"

	"github.com/iwvelando/strac/pkg/strac"
)

// FindRow finds the sweep row whose swept value equals x: P for a price
// based table, Q for a quantity based one. Returns a pointer to the row if
// found, nil otherwise.
func FindRow(table *strac.Table, x float64) *strac.Row {
	if table == nil {
		return nil
	}
	for i := range table.Rows {
		swept := table.Rows[i].P
		if table.Strategy == strac.QuantityBased {
			swept = table.Rows[i].Q
		}
		if math.Abs(swept-x) < 1e-9 {
			return &table.Rows[i]
		}
	}
	return nil
}

// CaptureStdout runs fn and returns everything it wrote to os.Stdout.
func CaptureStdout(t *testing.T, fn func()) string {
	t.Helper()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}

	original := os.Stdout
	os.Stdout = w
	defer func() {
		os.Stdout = original
	}()

	done := make(chan []byte)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.Bytes()
	}()

	fn()

	_ = w.Close()
	out := <-done
	_ = r.Close()
	return string(out)
}
