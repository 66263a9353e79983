// conncheck sends its argument commands to a running onetable server
// and prints every response line. Useful for poking a server by hand:
//
//	conncheck -addr localhost:7432 "CREATE DATABASE shop" \
//	    "INSERT INTO table VALUES (1, 'pen')" "SELECT * FROM table"
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"os"
)

func main() {
	addr := flag.String("addr", "localhost:7432", "server address")
	password := flag.String("password", "", "connection password, if the server requires one")
	flag.Parse()

	if flag.NArg() == 0 {
		log.Fatal("no commands given")
	}

	conn, err := net.Dial("tcp", *addr)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	w := bufio.NewWriter(conn)
	if *password != "" {
		fmt.Fprintln(w, *password)
	}
	for _, cmd := range flag.Args() {
		fmt.Fprintln(w, cmd)
	}
	fmt.Fprintln(w, "EXIT")
	if err := w.Flush(); err != nil {
		log.Fatal(err)
	}

	if _, err := io.Copy(os.Stdout, conn); err != nil {
		log.Fatal(err)
	}
}
