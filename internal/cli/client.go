package cli

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"strings"
)

// Run dials the server and relays lines between it and the terminal.
// It returns when the user input ends, the connection closes, or the
// user sends /exit.
func Run(addr string, in io.Reader, out io.Writer) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", addr, err)
	}
	defer conn.Close()

	// Server lines go straight to the terminal. The goroutine exits when
	// the connection closes, from either end.
	done := make(chan struct{})
	go func() {
		defer close(done)
		scanner := bufio.NewScanner(conn)
		for scanner.Scan() {
			fmt.Fprintln(out, scanner.Text())
		}
	}()

	input := bufio.NewScanner(in)
	for input.Scan() {
		line := input.Text()
		if _, err := fmt.Fprintf(conn, "%s\n", line); err != nil {
			break
		}
		if strings.TrimSpace(line) == "/exit" {
			// The server acknowledges and closes; drain until then.
			<-done
			return nil
		}
	}

	// Input ended without an explicit exit. Closing the connection
	// unblocks the reader goroutine.
	conn.Close()
	<-done
	return nil
}
