package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/rly0nheart/updates"
)

func main() {
	crate := flag.String("crate", "", "crate name to check")
	running := flag.String("version", "", "version currently in use")
	noCache := flag.Bool("no-cache", false, "always query the registry")
	configPath := flag.String("config", "", "path to checker config file")
	jsonOut := flag.Bool("json", false, "JSON output")
	verbose := flag.Bool("v", false, "log swallowed errors to stderr")
	versionFlag := flag.Bool("lib-version", false, "print library version")
	flag.Parse()

	if *versionFlag {
		fmt.Println("updates", updates.Version)
		return
	}

	if *crate == "" || *running == "" {
		fmt.Fprintln(os.Stderr, "error: -crate and -version are required")
		flag.Usage()
		os.Exit(2)
	}

	opts := []updates.Option{updates.WithConfigFile(*configPath)}
	if *verbose {
		logger, err := zap.NewDevelopment()
		if err == nil {
			defer logger.Sync() //nolint:errcheck
			opts = append(opts, updates.WithLogger(logger))
		}
	}

	checker := updates.New(*noCache, opts...)
	res := checker.Check(*crate, *running)

	if *jsonOut {
		out := map[string]any{"update_available": res != nil}
		if res != nil {
			out["result"] = res
		}
		if err := json.NewEncoder(os.Stdout).Encode(out); err != nil {
			fmt.Fprintf(os.Stderr, "error: encoding output: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if res == nil {
		fmt.Printf("%s %s is up to date.\n", *crate, *running)
		return
	}
	fmt.Println(res)
}
