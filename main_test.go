package main

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onetable/config"
	"onetable/storage"
)

// freePort reserves a port by listening on :0 and closing the listener.
func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "localhost:0")
	require.NoError(t, err)
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}

func dialRetry(t *testing.T, addr string) net.Conn {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		conn, err := net.Dial("tcp", addr)
		if err == nil {
			return conn
		}
		if time.Now().After(deadline) {
			t.Fatalf("dial %s: %v", addr, err)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// Writes executed by a connection that is still live when the shutdown
// signal arrives must be drained before runServer returns, so the flush
// that follows persists them.
func TestRunServerDrainsConnectionsBeforeReturning(t *testing.T) {
	dir := t.TempDir()
	reg, err := storage.OpenRegistry(dir)
	require.NoError(t, err)

	port := freePort(t)
	cfg := &config.Config{DataDir: dir, Port: port}
	sigCh := make(chan os.Signal, 1)

	errCh := make(chan error, 1)
	go func() { errCh <- runServer(cfg, reg, sigCh) }()

	conn := dialRetry(t, fmt.Sprintf("localhost:%d", port))
	defer conn.Close()
	in := bufio.NewScanner(conn)

	fmt.Fprintln(conn, "CREATE DATABASE shop")
	require.True(t, in.Scan())
	require.Equal(t, "Database 'shop' created and selected", in.Text())

	// Shut down while the connection is still live: it must keep serving
	// commands during the drain.
	sigCh <- syscall.SIGTERM

	fmt.Fprintln(conn, "INSERT INTO table VALUES (1, 'pen')")
	require.True(t, in.Scan())
	require.Equal(t, "Inserted successfully into 'shop'", in.Text())

	select {
	case err := <-errCh:
		t.Fatalf("runServer returned before the connection finished: %v", err)
	default:
	}

	fmt.Fprintln(conn, "EXIT")
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("runServer did not return after the last connection closed")
	}

	// Only now does the flush run, and the insert must survive it.
	require.NoError(t, reg.FlushAll())

	reg2, err := storage.OpenRegistry(dir)
	require.NoError(t, err)
	tbl, err := reg2.Create("shop")
	require.NoError(t, err)
	row, err := tbl.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "pen", row[1])
}
