package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/justyntemme/twinpane/internal/app"
)

func main() {
	left := flag.String("left", "", "Directory for the left pane (default: last session or home)")
	right := flag.String("right", "", "Directory for the right pane")
	configPath := flag.String("config", "", "Config file (default: ~/.config/twinpane/config.json)")
	index := flag.Bool("index", false, "Build the search index in the background")
	roots := flag.String("index-roots", "", "Comma separated directories to index (default: home)")
	noWatch := flag.Bool("no-watch", false, "Do not refresh panes on filesystem changes")
	logFile := flag.String("log", "", "Log file (default: user cache dir)")
	flag.Parse()

	if flag.NArg() > 0 && *left == "" {
		*left = flag.Arg(0)
	}

	var indexRoots []string
	for _, r := range strings.Split(*roots, ",") {
		if r = strings.TrimSpace(r); r != "" {
			indexRoots = append(indexRoots, r)
		}
	}

	err := app.Main(app.MainOptions{
		Left:       *left,
		Right:      *right,
		ConfigPath: *configPath,
		Index:      *index || len(indexRoots) > 0,
		IndexRoots: indexRoots,
		Watch:      !*noWatch,
		LogFile:    *logFile,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "twinpane:", err)
		os.Exit(1)
	}
}
