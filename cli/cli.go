// Package cli implements the interactive demo shell over the ordered index.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"bptree/bptree"
)

type Cli struct {
	scanner    *bufio.Scanner
	tree       *bptree.Tree[string, string]
	visualizer *bptree.Visualizer[string, string]
}

func NewCli(s *bufio.Scanner, t *bptree.Tree[string, string]) *Cli {
	v := &bptree.Visualizer[string, string]{
		Tree: t,
	}
	return &Cli{scanner: s, tree: t, visualizer: v}
}

func (c *Cli) Start() {
	c.printHelp()
	c.printPrompt()
	for c.scanner.Scan() {
		c.processInput(c.scanner.Text())
		c.printPrompt()
	}
}

func (c *Cli) printHelp() {
	fmt.Print(`
B+Tree CLI

Available Commands:
  SET <key> <val>        Insert a key-value pair into the tree
  GET <key>              Retrieve the value for key
  DEL <key>              Remove a key-value pair from the tree
  SCAN [from] [until]    List pairs in key order, optionally bounded
  SIZE                   Print the number of stored pairs
  SHOW                   Visualize the tree level by level
  EXIT                   Terminate this session

`)
}

func (c *Cli) printPrompt() {
	fmt.Print("> ")
}

func (c *Cli) processInput(line string) {
	fields := strings.Fields(line)
	if len(fields) < 1 {
		return
	}
	command := strings.ToLower(fields[0])
	switch command {
	default:
		fmt.Printf("Unknown command \"%s\"\n", command)
	case "set":
		c.processSetCommand(fields[1:])
	case "get":
		c.processGetCommand(fields[1:])
	case "del":
		c.processDeleteCommand(fields[1:])
	case "scan":
		c.processScanCommand(fields[1:])
	case "size":
		fmt.Println(c.tree.Size())
	case "show":
		fmt.Println(c.visualizer.Visualize())
	case "exit":
		os.Exit(0)
	}
}

func (c *Cli) processSetCommand(args []string) {
	if len(args) != 2 {
		fmt.Println("Usage: SET <key> <value>")
		return
	}
	if prev, replaced := c.tree.Put(args[0], args[1]); replaced {
		fmt.Printf("Replaced previous value %q.\n", prev)
	}
}

func (c *Cli) processGetCommand(args []string) {
	if len(args) != 1 {
		fmt.Println("Usage: GET <key>")
		return
	}
	val, found := c.tree.Get(args[0])
	if !found {
		fmt.Println("Key not found.")
		return
	}
	fmt.Println(val)
}

func (c *Cli) processDeleteCommand(args []string) {
	if len(args) != 1 {
		fmt.Println("Usage: DEL <key>")
		return
	}
	if _, removed := c.tree.Remove(args[0]); !removed {
		fmt.Println("Key not found.")
		return
	}
	fmt.Println("OK")
}

func (c *Cli) processScanCommand(args []string) {
	if len(args) > 2 {
		fmt.Println("Usage: SCAN [from] [until]")
		return
	}

	it := c.tree.Iterator()
	if len(args) >= 1 {
		it = c.tree.IteratorFrom(args[0])
	}
	for it.HasNext() {
		key, val := it.Next()
		if len(args) == 2 && key >= args[1] {
			break
		}
		fmt.Printf("%s = %s\n", key, val)
	}
}
