// Command kvsh is the interactive shell: it reads put/get/delete lines
// from stdin, forwards each to a kvsd instance over TCP, and prints the
// reply.
package main

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	host string
	port int
)

var rootCmd = &cobra.Command{
	Use:   "kvsh",
	Short: "Interactive shell for the LSM-tree key-value store",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func init() {
	rootCmd.Flags().StringVar(&host, "host", "localhost", "kvsd host to connect to")
	rootCmd.Flags().IntVar(&port, "port", 54321, "kvsd port to connect to")
}

func printHelp() {
	fmt.Println(`
kvsh

Available commands:
  put <key> <val>  Insert a key-value pair
  get <key>         Retrieve the value for key
  delete <key>      Remove a key-value pair
  exit              Terminate this session
`)
}

func run() error {
	addr := fmt.Sprintf("%s:%d", host, port)

	printHelp()
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}

		operation, args, ok := checkInput(scanner.Text())
		if !ok {
			fmt.Fprintln(os.Stderr, "Invalid arguments.")
			continue
		}
		if operation == "" {
			continue
		}
		if operation == "exit" {
			return nil
		}

		if err := send(addr, operation, args); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
}

// checkInput tokenizes a line and validates its argument count for the
// recognized operations. ok is false when the line names an unknown
// operation or has the wrong number of arguments for a known one; an
// empty line reports operation="" with ok true.
func checkInput(line string) (operation string, args []string, ok bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil, true
	}

	operation = strings.ToLower(fields[0])
	args = fields[1:]
	return operation, args, checkArgs(operation, len(args))
}

func checkArgs(operation string, argsLen int) bool {
	switch operation {
	case "put":
		return argsLen == 2
	case "get", "delete":
		return argsLen == 1
	case "exit":
		return argsLen == 0
	default:
		fmt.Fprintf(os.Stderr, "The command %q is not defined.\n", operation)
		return false
	}
}

// send opens a fresh connection per command, writes one line, and prints
// whatever the daemon writes back - matching kvsd's one-shot
// read-then-reply handling per connection.
func send(addr, operation string, args []string) error {
	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", addr, err)
	}
	defer conn.Close()

	line := strings.Join(append([]string{operation}, args...), " ") + "\n"
	if _, err := conn.Write([]byte(line)); err != nil {
		return fmt.Errorf("send request: %w", err)
	}

	reply, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil && reply == "" {
		return nil
	}
	if reply != "" {
		fmt.Println(reply)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
