package provider

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFile_OpenWriteRead(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "report.txt")

	res, err := File{Flag: os.O_CREATE | os.O_RDWR}.Open(ctx, path)
	require.NoError(t, err)

	w, ok := res.(io.Writer)
	require.True(t, ok, "file resource must be writable")
	_, err = w.Write([]byte("payload"))
	require.NoError(t, err)
	require.NoError(t, res.Close())

	res, err = File{}.Open(ctx, path)
	require.NoError(t, err)
	defer res.Close()

	data, err := io.ReadAll(res.(io.Reader))
	require.NoError(t, err)
	require.Equal(t, "payload", string(data))
}

func TestFile_OpenMissing(t *testing.T) {
	_, err := File{}.Open(context.Background(), filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
	require.True(t, os.IsNotExist(err))
}

func TestFile_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := File{}.Open(ctx, "irrelevant")
	require.ErrorIs(t, err, context.Canceled)
}

func TestBuffer_PersistsAcrossOpens(t *testing.T) {
	ctx := context.Background()
	bufs := NewBuffer()

	res, err := bufs.Open(ctx, "log")
	require.NoError(t, err)
	_, err = res.(io.Writer).Write([]byte("first "))
	require.NoError(t, err)
	require.NoError(t, res.Close())

	res, err = bufs.Open(ctx, "log")
	require.NoError(t, err)
	_, err = res.(io.Writer).Write([]byte("second"))
	require.NoError(t, err)

	data, err := io.ReadAll(res.(io.Reader))
	require.NoError(t, err)
	require.Equal(t, "first second", string(data))
	require.NoError(t, res.Close())

	require.Equal(t, []byte("first second"), bufs.Bytes("log"))
}

func TestBuffer_ClosedResource(t *testing.T) {
	bufs := NewBuffer()
	res, err := bufs.Open(context.Background(), "x")
	require.NoError(t, err)
	require.NoError(t, res.Close())

	_, err = res.(io.Reader).Read(make([]byte, 1))
	require.ErrorIs(t, err, os.ErrClosed)
	_, err = res.(io.Writer).Write([]byte("y"))
	require.ErrorIs(t, err, os.ErrClosed)
	require.ErrorIs(t, res.Close(), os.ErrClosed)
}

func TestBuffer_SharedResourceConcurrency(t *testing.T) {
	bufs := NewBuffer()
	res, err := bufs.Open(context.Background(), "shared")
	require.NoError(t, err)

	const writers = 4
	const perWriter = 50

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWriter; j++ {
				_, werr := res.(io.Writer).Write([]byte("x"))
				if werr != nil {
					t.Error(werr)
					return
				}
			}
		}()
	}
	wg.Wait()

	require.Len(t, bufs.Bytes("shared"), writers*perWriter)
	require.NoError(t, res.Close())
}

func TestStub_Counters(t *testing.T) {
	ctx := context.Background()
	stub := NewStub()

	a, err := stub.Open(ctx, "foo")
	require.NoError(t, err)
	_, err = stub.Open(ctx, "foo")
	require.NoError(t, err)

	require.Equal(t, 2, stub.Opens("foo"))
	require.Equal(t, 0, stub.Closes("foo"))
	require.Equal(t, 2, stub.Live())

	require.NoError(t, a.Close())
	require.Equal(t, 1, stub.Closes("foo"))
	require.Equal(t, 1, stub.Live())
}

func TestStub_InjectedFailures(t *testing.T) {
	ctx := context.Background()
	openErr := errors.New("no such resource")
	closeErr := errors.New("close rejected")

	stub := NewStub()
	stub.FailOpen = map[string]error{"bad": openErr}
	stub.FailClose = map[string]error{"flaky": closeErr}

	_, err := stub.Open(ctx, "bad")
	require.ErrorIs(t, err, openErr)
	require.Equal(t, 0, stub.Opens("bad"))

	res, err := stub.Open(ctx, "flaky")
	require.NoError(t, err)
	require.ErrorIs(t, res.Close(), closeErr)
	require.Equal(t, 1, stub.Closes("flaky"), "failed close is still counted")
}
