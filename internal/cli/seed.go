package cli

import (
	"fmt"

	"github.com/mrlokans/bookshelf/internal/bookform"
	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// SampleBooks is what seed adds to an empty backend.
var SampleBooks = []entities.BookInput{
	{
		Title:         "To Kill a Mockingbird",
		Author:        "Harper Lee",
		PublishedDate: "1960-07-11",
		ISBN:          "9780061120084",
		Pages:         "281",
	},
	{
		Title:         "1984",
		Author:        "George Orwell",
		PublishedDate: "1949-06-08",
		ISBN:          "9780451524935",
		Pages:         "328",
	},
	{
		Title:         "Moby-Dick",
		Author:        "Herman Melville",
		PublishedDate: "1851-10-18",
		ISBN:          "9781503280786",
		Pages:         "720",
	},
}

// SeedCommand creates the sample books through the backend API.
type SeedCommand struct {
	base
	DryRun bool
}

func NewSeedCommand(cfg *config.Config) *SeedCommand {
	return &SeedCommand{base: newBase(cfg)}
}

func (cmd *SeedCommand) ParseFlags(args []string) error {
	fs := cmd.newFlagSet("seed", "seed [options]")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Show what would be added without sending anything")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}
	return nil
}

func (cmd *SeedCommand) Run() error {
	fmt.Fprintln(cmd.Stdout, "Seeding sample books")
	fmt.Fprintln(cmd.Stdout, "====================")

	if cmd.DryRun {
		for i, book := range SampleBooks {
			fmt.Fprintf(cmd.Stdout, "%d. %q by %s\n", i+1, book.Title, book.Author)
		}
		fmt.Fprintln(cmd.Stdout, "\nDry run complete. Use without --dry-run to add them.")
		return nil
	}

	ctrl, err := cmd.controller(cmd.cfg.ControllerOptions())
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	var failed []string
	for _, book := range SampleBooks {
		if ctrl.Execute(ctx, bookform.Create(book)) {
			fmt.Fprintf(cmd.Stdout, "  [OK] %s\n", book.Title)
			continue
		}
		reason := cmd.failure(ctrl)
		failed = append(failed, fmt.Sprintf("%s: %v", book.Title, reason))
		fmt.Fprintf(cmd.Stdout, "  [ERROR] %s: %v\n", book.Title, reason)
	}

	fmt.Fprintf(cmd.Stdout, "\nBooks added: %d/%d\n", len(SampleBooks)-len(failed), len(SampleBooks))
	if len(failed) > 0 {
		return fmt.Errorf("%d of %d sample books could not be added", len(failed), len(SampleBooks))
	}
	return nil
}
