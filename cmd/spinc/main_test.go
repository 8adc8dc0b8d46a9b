package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func runMain(args []string) (exitCode int, stdOut, stdErr string) {
	var outBuf, errBuf bytes.Buffer
	exitCode = doMain(args, &outBuf, &errBuf)
	return exitCode, outBuf.String(), errBuf.String()
}

func TestDoMain_MissingFileArgPrintsUsage(t *testing.T) {
	code, _, stdErr := runMain(nil)
	require.Equal(t, 2, code)
	require.Contains(t, stdErr, "usage: spinc")
}

func TestDoMain_NoFrontEndWiredReportsError(t *testing.T) {
	code, _, stdErr := runMain([]string{"top.spin"})
	require.Equal(t, 1, code)
	require.Contains(t, stdErr, "no front-end wired in")
}

func TestDoMain_BytecodeFlagStillRequiresFrontEnd(t *testing.T) {
	code, _, stdErr := runMain([]string{"-bytecode", "top.spin"})
	require.Equal(t, 1, code)
	require.Contains(t, stdErr, "no front-end wired in")
}

func TestDoMain_UnknownFlagFails(t *testing.T) {
	code, _, _ := runMain([]string{"-nonexistent", "top.spin"})
	require.Equal(t, 2, code)
}
