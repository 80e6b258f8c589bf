// Package cli implements the local, non-networked REPL used by cmd/kvs:
// it talks to an engine.Engine directly in-process, with no TCP hop.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"lsmkv/engine"
)

type CLI struct {
	scanner *bufio.Scanner
	e       *engine.Engine
}

func NewCLI(s *bufio.Scanner, e *engine.Engine) *CLI {
	return &CLI{s, e}
}

func (c *CLI) Start() {
	c.printHelp()
	c.printPrompt()
	for {
		if c.scanner.Scan() {
			c.processInput(c.scanner.Text())
		}
	}
}

func (c *CLI) printHelp() {
	fmt.Println(`
kvs

Available Commands:
  PUT <key> <val> Insert a key-value pair into the store
  DELETE <key>    Remove a key-value pair from the store
  GET <key>       Retrieve the value for key from the store
  EXIT            Terminate this session
`)
}

func (c *CLI) printPrompt() {
	fmt.Print("> ")
}

func (c *CLI) processInput(line string) {
	fields := strings.Fields(line)

	if len(fields) < 1 {
		return
	}
	command := strings.ToLower(fields[0])

	switch command {
	default:
		fmt.Printf("Unknown command %q\n", command)
	case "put":
		c.processPutCommand(fields[1:])
	case "delete":
		c.processDeleteCommand(fields[1:])
	case "get":
		c.processGetCommand(fields[1:])
	case "exit":
		os.Exit(0)
	}
	c.printPrompt()
}

func (c *CLI) processPutCommand(args []string) {
	if len(args) != 2 {
		fmt.Println("Usage: PUT <key> <value>")
		return
	}
	if err := c.e.Put(args[0], args[1]); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("OK.")
}

func (c *CLI) processDeleteCommand(args []string) {
	if len(args) != 1 {
		fmt.Println("Usage: DELETE <key>")
		return
	}
	if err := c.e.Delete(args[0]); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("OK.")
}

func (c *CLI) processGetCommand(args []string) {
	if len(args) != 1 {
		fmt.Println("Usage: GET <key>")
		return
	}
	v, ok, err := c.e.Get(args[0])
	if err != nil {
		fmt.Println(err)
		return
	}
	if !ok {
		fmt.Println("Key not found.")
		return
	}
	fmt.Println(v.Payload())
}
