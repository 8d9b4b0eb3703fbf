package assert_test

import (
	"fmt"
	"io"
	"testing"

	"github.com/calliopefm/calliope/src/assert"
)

// recordingFatalf implements assert.TestingFatalf and remembers everything
// reported to it.
type recordingFatalf struct {
	fatals  []string
	helpers int
}

func (r *recordingFatalf) Fatalf(format string, args ...any) {
	r.fatals = append(r.fatals, fmt.Sprintf(format, args...))
}

func (r *recordingFatalf) Helper() {
	r.helpers++
}

// TestNilErr makes sure that NilErr works as expected.
func TestNilErr(t *testing.T) {
	var nilErr error

	fakeTf := &recordingFatalf{}
	assert.NilErr(fakeTf, nilErr)
	if len(fakeTf.fatals) != 0 {
		t.Fatalf("unexpected Fatalf() call for nil error")
	}
	if fakeTf.helpers != 1 {
		t.Fatalf("testing.T.Helper() not called")
	}

	assert.NilErr(fakeTf, io.EOF)
	if len(fakeTf.fatals) != 1 {
		t.Fatalf("expected Fatalf() to be called but it was not")
	}
}

// TestNotNilErr makes sure that NotNilErr works as expected.
func TestNotNilErr(t *testing.T) {
	fakeTf := &recordingFatalf{}
	assert.NotNilErr(fakeTf, io.EOF)
	if len(fakeTf.fatals) != 0 {
		t.Fatalf("unexpected Fatalf() call for non-nil error")
	}
	if fakeTf.helpers != 1 {
		t.Fatalf("testing.T.Helper() not called")
	}

	var nilErr error
	assert.NotNilErr(fakeTf, nilErr)
	if len(fakeTf.fatals) != 1 {
		t.Fatalf("expected Fatalf() to be called but it was not")
	}
}
