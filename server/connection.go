package server

import (
	"bufio"
	"fmt"
	"log"
	"net"

	"github.com/google/uuid"

	"onetable/config"
	"onetable/executor"
	"onetable/storage"
)

// maxLineLen lifts bufio.Scanner's default 64KiB token limit so an
// over-long command line fails as a command, not as a dead connection.
const maxLineLen = 1 << 20

// Connection handles the lifecycle of a single client: optional password
// challenge, then the command loop. Every connection runs its own
// session, so selections never leak between clients.
type Connection struct {
	conn net.Conn
	id   string
	cfg  *config.Config
	sess *executor.Session
	auth *Authenticator
}

func newConnection(conn net.Conn, cfg *config.Config, reg *storage.Registry, auth *Authenticator) *Connection {
	return &Connection{
		conn: conn,
		id:   uuid.NewString(),
		cfg:  cfg,
		sess: executor.NewSession(reg),
		auth: auth,
	}
}

// Handle runs the full connection lifecycle and closes the connection on
// return.
func (c *Connection) Handle() {
	defer c.conn.Close()

	log.Printf("connection %s: %s connected", c.id, c.conn.RemoteAddr())
	in := bufio.NewScanner(c.conn)
	in.Buffer(make([]byte, 0, 64*1024), maxLineLen)

	if c.auth != nil {
		if !c.challenge(in) {
			log.Printf("connection %s: authentication failed", c.id)
			return
		}
		log.Printf("connection %s: authenticated", c.id)
	}

	c.commandLoop(in)
	log.Printf("connection %s: disconnected", c.id)
}

// challenge prompts for the password and checks the next line.
func (c *Connection) challenge(in *bufio.Scanner) bool {
	fmt.Fprintln(c.conn, "Password:")
	if !in.Scan() {
		return false
	}
	if !c.auth.Check(in.Text()) {
		fmt.Fprintln(c.conn, "Error: authentication failed")
		return false
	}
	fmt.Fprintln(c.conn, "OK")
	return true
}

// commandLoop executes lines until EXIT or the client goes away. Every
// error is written back as a response line and the loop continues.
func (c *Connection) commandLoop(in *bufio.Scanner) {
	for in.Scan() {
		line := in.Text()
		if line == "EXIT" {
			return
		}
		if c.cfg.LogLevel >= 1 {
			log.Printf("connection %s: execute: %s", c.id, line)
		}
		res, err := c.sess.Execute(line)
		if err != nil {
			fmt.Fprintf(c.conn, "Error: %v\n", err)
			continue
		}
		if res != nil {
			if text := res.Render(); text != "" {
				fmt.Fprintln(c.conn, text)
			}
		}
	}
	if err := in.Err(); err != nil {
		log.Printf("connection %s: read: %v", c.id, err)
	}
}
