// Command kvs is the local, non-networked CLI: it opens an engine.Engine
// directly in-process and drives it through an interactive REPL, with
// optional startup seeding via go-faker.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/go-faker/faker/v4"

	"lsmkv/cli"
	"lsmkv/engine"
)

const dataDir = "demo"

var shouldReset, shouldSeed *bool
var seedNumRecords *int

func eraseDataDir() {
	if err := os.RemoveAll(dataDir); err != nil {
		panic(err)
	}
}

func seedWithTestRecords(e *engine.Engine) {
	for i := 0; i < *seedNumRecords; i++ {
		k := faker.Word() + faker.Word()
		v := faker.Word() + faker.Word()
		if err := e.Put(k, v); err != nil {
			log.Printf("seed: put failed: %v", err)
		}
	}
}

func main() {
	setupFlags()

	if *shouldReset {
		eraseDataDir()
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	e, err := engine.Open(engine.Options{DataDir: dataDir})
	if err != nil {
		log.Fatal(err)
	}

	if *shouldSeed {
		seedWithTestRecords(e)
	}

	scanner := bufio.NewScanner(os.Stdin)
	repl := cli.NewCLI(scanner, e)
	repl.Start()
}

func setupFlags() {
	shouldReset = flag.Bool("reset", false, "Reset the store by erasing its data directory before startup.")
	shouldSeed = flag.Bool("seed", false, "Seed the store using records created with go-faker.")
	seedNumRecords = flag.Int("records", 1000, "Amount of records to seed the store with upon startup.")
	flag.Usage = func() {
		fmt.Println("\nkvs\n\nArguments:")
		flag.PrintDefaults()
	}
	flag.Parse()
}
