package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/go-faker/faker/v4"
	"github.com/sirupsen/logrus"

	"bptree/bptree"
	"bptree/cli"
	"bptree/config"
)

var configPath *string
var shouldSeed, debug *bool
var seedNumRecords, order *int

func seedTreeWithTestRecords(t *bptree.Tree[string, string], numRecords int) {
	for i := 0; i < numRecords; i++ {
		k := faker.Word() + faker.Word()
		v := faker.Word() + faker.Word()
		t.Put(k, v)
	}
}

func main() {
	setupFlags()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			logrus.Fatal(err)
		}
	}
	// flags override the config file
	if *order != 0 {
		cfg.Order = *order
	}
	if *debug {
		cfg.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		logrus.Fatal(err)
	}

	opts := []bptree.Option[string, string]{}
	if cfg.Debug {
		log := logrus.New()
		log.SetLevel(logrus.DebugLevel)
		opts = append(opts, bptree.WithLogger[string, string](log))
	}

	tree := bptree.NewOrdered[string, string](cfg.Order, opts...)

	if *shouldSeed {
		n := cfg.SeedRecords
		if *seedNumRecords != 0 {
			n = *seedNumRecords
		}
		seedTreeWithTestRecords(tree, n)
	}

	scanner := bufio.NewScanner(os.Stdin)
	demo := cli.NewCli(scanner, tree)
	demo.Start()
}

func setupFlags() {
	configPath = flag.String("config", "", "Path to an optional TOML config file.")
	shouldSeed = flag.Bool("seed", false, "Seed the tree using records created with go-faker.")
	seedNumRecords = flag.Int("records", 0, "Amount of records to seed the tree with upon startup.")
	order = flag.Int("order", 0, "Maximum number of children per internal node (>= 4).")
	debug = flag.Bool("debug", false, "Log split/merge diagnostics.")
	flag.Usage = func() {
		fmt.Println("\nB+Tree CLI\n\nArguments:")
		flag.PrintDefaults()
	}
	flag.Parse()
}
