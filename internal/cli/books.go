package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/mrlokans/bookshelf/internal/bookform"
	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/view"
)

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// singleKey returns the one positional argument every keyed command takes.
func singleKey(fs *pflag.FlagSet) (string, error) {
	if fs.NArg() != 1 {
		fs.Usage()
		return "", fmt.Errorf("expected exactly one book key, got %d arguments", fs.NArg())
	}
	return fs.Arg(0), nil
}

// ListCommand prints one page of books and the pagination bar.
type ListCommand struct {
	base
	Page    int
	PerPage int
}

func NewListCommand(cfg *config.Config) *ListCommand {
	return &ListCommand{base: newBase(cfg)}
}

func (cmd *ListCommand) ParseFlags(args []string) error {
	fs := cmd.newFlagSet("list", "list [options]")
	fs.IntVar(&cmd.Page, "page", 1, "Page to fetch")
	fs.IntVar(&cmd.PerPage, "per-page", cmd.cfg.Form.PerPage, "Books per page")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}
	return nil
}

func (cmd *ListCommand) Run() error {
	opts := cmd.cfg.ControllerOptions()
	opts.PerPage = cmd.PerPage
	ctrl, err := cmd.controller(opts)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	if !ctrl.ListPage(ctx, cmd.Page) {
		return cmd.failure(ctrl)
	}
	return view.Render(cmd.Stdout, ctrl.Snapshot(), ctrl.KeyField())
}

// ShowCommand prints every field of one book.
type ShowCommand struct {
	base
	Key string
}

func NewShowCommand(cfg *config.Config) *ShowCommand {
	return &ShowCommand{base: newBase(cfg)}
}

func (cmd *ShowCommand) ParseFlags(args []string) error {
	fs := cmd.newFlagSet("show", "show KEY [options]")
	if err := fs.Parse(args); err != nil {
		return err
	}
	key, err := singleKey(fs)
	if err != nil {
		return err
	}
	cmd.Key = key
	return nil
}

func (cmd *ShowCommand) Run() error {
	ctrl, err := cmd.controller(cmd.cfg.ControllerOptions())
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	if !ctrl.Edit(ctx, cmd.Key) {
		return cmd.failure(ctrl)
	}
	return view.RenderBook(cmd.Stdout, ctrl.Snapshot().Form)
}

// AddCommand creates a book from flags. Values are sent as typed.
type AddCommand struct {
	base
	book  bookFlags
	flags *pflag.FlagSet
}

func NewAddCommand(cfg *config.Config) *AddCommand {
	return &AddCommand{base: newBase(cfg)}
}

func (cmd *AddCommand) ParseFlags(args []string) error {
	cmd.flags = cmd.newFlagSet("add", "add --title T --author A --published-date D --isbn I --pages N [options]")
	cmd.book.addFlags(cmd.flags)
	if err := cmd.flags.Parse(args); err != nil {
		return err
	}
	if cmd.flags.NArg() > 0 {
		return fmt.Errorf("unexpected argument: %s", cmd.flags.Arg(0))
	}
	return nil
}

func (cmd *AddCommand) Run() error {
	ctrl, err := cmd.controller(cmd.cfg.ControllerOptions())
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	ctrl.SetForm(cmd.book.overlay(cmd.flags, bookform.FormState{}))
	if !ctrl.Submit(ctx) {
		return cmd.failure(ctrl)
	}
	fmt.Fprintf(cmd.Stdout, "Added %q\n\n", cmd.book.Title)
	return view.Render(cmd.Stdout, ctrl.Snapshot(), ctrl.KeyField())
}

// EditCommand loads a book, overlays the flags that were given and
// submits the result as an update.
type EditCommand struct {
	base
	Key   string
	book  bookFlags
	flags *pflag.FlagSet
}

func NewEditCommand(cfg *config.Config) *EditCommand {
	return &EditCommand{base: newBase(cfg)}
}

func (cmd *EditCommand) ParseFlags(args []string) error {
	cmd.flags = cmd.newFlagSet("edit", "edit KEY [--title T] [--author A] [--published-date D] [--isbn I] [--pages N] [options]")
	cmd.book.addFlags(cmd.flags)
	if err := cmd.flags.Parse(args); err != nil {
		return err
	}
	key, err := singleKey(cmd.flags)
	if err != nil {
		return err
	}
	cmd.Key = key
	return nil
}

func (cmd *EditCommand) Run() error {
	ctrl, err := cmd.controller(cmd.cfg.ControllerOptions())
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	if !ctrl.Edit(ctx, cmd.Key) {
		return cmd.failure(ctrl)
	}
	form := cmd.book.overlay(cmd.flags, ctrl.Snapshot().Form)
	ctrl.SetForm(form)

	if !ctrl.Submit(ctx) {
		return cmd.failure(ctrl)
	}
	fmt.Fprintf(cmd.Stdout, "Updated %q\n\n", form.Title)
	return view.Render(cmd.Stdout, ctrl.Snapshot(), ctrl.KeyField())
}

// DeleteCommand removes one book, asking on stdin unless --yes is given.
type DeleteCommand struct {
	base
	Key string
	Yes bool
}

func NewDeleteCommand(cfg *config.Config) *DeleteCommand {
	return &DeleteCommand{base: newBase(cfg)}
}

func (cmd *DeleteCommand) ParseFlags(args []string) error {
	fs := cmd.newFlagSet("delete", "delete KEY [--yes] [options]")
	fs.BoolVarP(&cmd.Yes, "yes", "y", false, "Do not ask for confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}
	key, err := singleKey(fs)
	if err != nil {
		return err
	}
	cmd.Key = key
	return nil
}

func (cmd *DeleteCommand) Run() error {
	opts := cmd.cfg.ControllerOptions()
	if cmd.Yes {
		opts.ConfirmDelete = false
	}
	opts.Confirmer = newPromptConfirmer(cmd.Stdin, cmd.Stderr)

	ctrl, err := cmd.controller(opts)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	if !ctrl.Delete(ctx, cmd.Key) {
		state := ctrl.Snapshot()
		if !state.Error.Visible && len(cmd.alerts) == 0 {
			fmt.Fprintln(cmd.Stdout, "Cancelled")
			return nil
		}
		return cmd.failure(ctrl)
	}
	fmt.Fprintf(cmd.Stdout, "Deleted %s\n\n", cmd.Key)
	return view.Render(cmd.Stdout, ctrl.Snapshot(), ctrl.KeyField())
}
