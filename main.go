package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/mrlokans/bookshelf/internal/cli"
	"github.com/mrlokans/bookshelf/internal/config"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

type command interface {
	ParseFlags(args []string) error
	Run() error
}

func main() {
	cfg := config.NewConfig()

	// No arguments, or only flags, means the interactive UI
	if len(os.Args) < 2 || (len(os.Args[1]) > 0 && os.Args[1][0] == '-' && !isHelp(os.Args[1])) {
		run(cli.NewTUICommand(cfg), os.Args[1:])
		return
	}

	name := os.Args[1]
	args := os.Args[2:]

	switch name {
	case "tui":
		run(cli.NewTUICommand(cfg), args)
	case "list":
		run(cli.NewListCommand(cfg), args)
	case "show":
		run(cli.NewShowCommand(cfg), args)
	case "add":
		run(cli.NewAddCommand(cfg), args)
	case "edit":
		run(cli.NewEditCommand(cfg), args)
	case "delete":
		run(cli.NewDeleteCommand(cfg), args)
	case "seed":
		run(cli.NewSeedCommand(cfg), args)

	case "version":
		fmt.Printf("bookshelf %s (%s)\n", Version, Commit)

	case "-h", "--help", "help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", name)
		printUsage()
		os.Exit(1)
	}
}

func isHelp(arg string) bool {
	return arg == "-h" || arg == "--help"
}

func run(cmd command, args []string) {
	if err := cmd.ParseFlags(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  tui       Interactive book list and form (default if no command given)\n")
	fmt.Fprintf(os.Stderr, "  list      Print one page of books\n")
	fmt.Fprintf(os.Stderr, "  show      Print every field of one book\n")
	fmt.Fprintf(os.Stderr, "  add       Add a book\n")
	fmt.Fprintf(os.Stderr, "  edit      Update a book, changing only the given fields\n")
	fmt.Fprintf(os.Stderr, "  delete    Delete a book\n")
	fmt.Fprintf(os.Stderr, "  seed      Add the sample books\n")
	fmt.Fprintf(os.Stderr, "  version   Print the version\n")
	fmt.Fprintf(os.Stderr, "\nEnvironment:\n")
	fmt.Fprintf(os.Stderr, "  BOOKS_API_URL, BOOKS_API_TIMEOUT, BOOKS_KEY_FIELD, BOOKS_PER_PAGE,\n")
	fmt.Fprintf(os.Stderr, "  BOOKS_PAGINATED, BOOKS_CONFIRM_DELETE, BOOKS_ERROR_MODE, LOG_LEVEL, LOG_FILE\n")
	fmt.Fprintf(os.Stderr, "\nUse '%s <command> -h' for help on a specific command.\n", os.Args[0])
}
