package utils_test

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gh2fj/internal/utils"
)

type countingFlusher struct {
	bytes.Buffer
	flushes int
}

func (flusher *countingFlusher) Flush() {
	flusher.flushes++
}

func TestFlushingWriterFlushesBufferedOutput(testInstance *testing.T) {
	destination := &bytes.Buffer{}
	bufferedWriter := bufio.NewWriterSize(destination, 4096)

	flushingWriter := utils.NewFlushingWriter(bufferedWriter)
	_, writeError := flushingWriter.Write([]byte("\rprogress"))
	require.NoError(testInstance, writeError)
	require.Equal(testInstance, "\rprogress", destination.String())
}

func TestFlushingWriterSupportsFlushWithoutError(testInstance *testing.T) {
	flusher := &countingFlusher{}

	flushingWriter := utils.NewFlushingWriter(flusher)
	_, writeError := flushingWriter.Write([]byte("line"))
	require.NoError(testInstance, writeError)
	require.Equal(testInstance, 1, flusher.flushes)
	require.Equal(testInstance, "line", flusher.String())
}

func TestNewFlushingWriterDoesNotDoubleWrap(testInstance *testing.T) {
	require.Nil(testInstance, utils.NewFlushingWriter(nil))

	flushingWriter := utils.NewFlushingWriter(&bytes.Buffer{})
	require.Same(testInstance, flushingWriter, utils.NewFlushingWriter(flushingWriter))
}
