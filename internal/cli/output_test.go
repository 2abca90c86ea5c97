package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"household-shopping/internal/apperr"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, formatter.Success(map[string]string{"result": "success"}, "ignored"))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
}

func TestOutputFormatter_TextSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, formatter.Success(map[string]string{"result": "success"}, "done\n"))
	assert.Equal(t, "done\n", buf.String())
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, formatter.Error("not_found", "list not found", nil))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "not_found", resp.Error.Code)
	assert.Equal(t, "list not found", resp.Error.Message)
}

func TestOutputFormatter_TextError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf, Verbose: true}

	require.NoError(t, formatter.Error("conflict", "list is completed", "v3"))
	assert.Equal(t, "Error [conflict]: list is completed\nDetails: v3\n", buf.String())
}

func TestVerboseLog(t *testing.T) {
	out, diag := &bytes.Buffer{}, &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: out, ErrWriter: diag}

	formatter.VerboseLog("hidden %d", 1)
	assert.Empty(t, diag.String())

	formatter.Verbose = true
	formatter.VerboseLog("shown %d", 2)
	assert.Equal(t, "shown 2\n", diag.String())
	assert.Empty(t, out.String())
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"exit error", NewExitError(ExitCommandError, "bad flag"), ExitCommandError},
		{"wrapped exit error", fmt.Errorf("outer: %w", WrapExitError(ExitFailure, "x", errors.New("y"))), ExitFailure},
		{"domain error", apperr.NotFound("op", "id", "list"), ExitFailure},
		{"infrastructure error", errors.New("disk full"), ExitCommandError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, "forbidden", errorCode(apperr.Forbidden("op", "id")))
	assert.Equal(t, "conflict", errorCode(apperr.Conflict("op", "id", "nope")))
	assert.Equal(t, "validation", errorCode(apperr.Validation("op", "bad")))
	assert.Equal(t, "unauthenticated", errorCode(apperr.Unauthenticated("op")))
	assert.Equal(t, "error", errorCode(errors.New("boom")))
}
