package jsontree

import (
	"bytes"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintRoundTripByteIdentical(t *testing.T) {
	input := `{"a":1,"b":[true,null,"xé"]}`
	root, err := Parse(input)
	require.NoError(t, err)
	out, err := Print(root)
	require.NoError(t, err)
	assert.Equal(t, input, out)
}

func TestPrintFormatIndentsWithTabs(t *testing.T) {
	root, err := Parse(`{"a":1}`)
	require.NoError(t, err)
	out, err := Print(root, WithFormat())
	require.NoError(t, err)
	assert.Equal(t, "{\n\t\"a\":\t1\n}", out)
}

func TestPrintFormatEmptyObjectStillBreaksLine(t *testing.T) {
	out, err := Print(NewObject(), WithFormat())
	require.NoError(t, err)
	assert.Equal(t, "{\n}", out)
}

func TestPrintNaNAndInfBecomeNull(t *testing.T) {
	n := NewNumber(math.NaN())
	out, err := Print(n)
	require.NoError(t, err)
	assert.Equal(t, "null", out)

	n = NewNumber(math.Inf(1))
	out, err = Print(n)
	require.NoError(t, err)
	assert.Equal(t, "null", out)
}

func TestPrintStringEscaping(t *testing.T) {
	n := NewString("a\"b\\c\n\x01")
	out, err := Print(n)
	require.NoError(t, err)
	assert.Equal(t, "\"a\\\"b\\\\c\\n\\u0001\"", out)
}

func TestPrintNumberRoundTrip(t *testing.T) {
	for _, d := range []float64{0, -0.5, 1.0e300, 3.1415926535, 1, -1, 123456789} {
		n := NewNumber(d)
		out, err := Print(n)
		require.NoError(t, err)
		arr, err := Parse("[" + out + "]")
		require.NoError(t, err)
		assert.Equal(t, d, GetArrayItem(arr, 0).Number)
	}
}

func TestPrintFixedBufferOverflowFails(t *testing.T) {
	root, err := Parse(`{"a":1}`)
	require.NoError(t, err)
	buf := make([]byte, 2)
	_, err = Print(root, WithFixedBuffer(buf))
	require.Error(t, err)
}

func TestPrintIdempotence(t *testing.T) {
	root, err := Parse(`[1,2,3,{"a":"b"}]`)
	require.NoError(t, err)
	first, err := Print(root)
	require.NoError(t, err)

	reparsed, err := Parse(first)
	require.NoError(t, err)
	second, err := Print(reparsed)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestPrintBufferedMatchesPrint(t *testing.T) {
	root, err := Parse(`{"a":[1,2,3]}`)
	require.NoError(t, err)
	want, err := Print(root)
	require.NoError(t, err)
	got, err := PrintBuffered(root, 512)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestPrintPreallocatedFitsAndOverflows(t *testing.T) {
	root, err := Parse(`{"a":1}`)
	require.NoError(t, err)

	fits := make([]byte, 32)
	out, err := PrintPreallocated(root, fits)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, out)

	tooSmall := make([]byte, 1)
	_, err = PrintPreallocated(root, tooSmall)
	require.Error(t, err)
}

func TestStringAndBytesConvenience(t *testing.T) {
	root, err := Parse(`[1,2]`)
	require.NoError(t, err)
	assert.Equal(t, "[1,2]", String(root))
	assert.Equal(t, []byte("[1,2]"), Bytes(root))

	assert.Equal(t, "", String(nil))
	assert.Empty(t, Bytes(nil))
}

func TestAcquirePrinterReuseProducesSameOutput(t *testing.T) {
	rootA, err := Parse(`{"a":1}`)
	require.NoError(t, err)
	rootB, err := Parse(`[true,false]`)
	require.NoError(t, err)

	pr := AcquirePrinter()
	outA, err := pr.Print(rootA)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, outA)

	outB, err := pr.Print(rootB)
	require.NoError(t, err)
	assert.Equal(t, `[true,false]`, outB)

	ReleasePrinter(pr)
}

func TestWithPrintLoggerTracesBufferGrowth(t *testing.T) {
	var logBuf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logBuf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	n := NewString(strings.Repeat("x", 1024))
	_, err := Print(n, WithCapacityHint(4), WithPrintLogger(logger))
	require.NoError(t, err)
	assert.Contains(t, logBuf.String(), "grew print buffer")
}
