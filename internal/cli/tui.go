package cli

import (
	"fmt"

	"github.com/mrlokans/bookshelf/internal/booksapi"
	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/logging"
	"github.com/mrlokans/bookshelf/internal/tui"
)

// TUICommand runs the interactive book list and form.
type TUICommand struct {
	base
}

func NewTUICommand(cfg *config.Config) *TUICommand {
	return &TUICommand{base: newBase(cfg)}
}

func (cmd *TUICommand) ParseFlags(args []string) error {
	fs := cmd.newFlagSet("tui", "[tui] [options]")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}
	return nil
}

func (cmd *TUICommand) Run() error {
	if err := cmd.resolve(); err != nil {
		return err
	}

	// The terminal belongs to the UI, so logs only go to LOG_FILE.
	level := cmd.cfg.Log.Level
	if cmd.Verbose {
		level = "debug"
	}
	logger, closeLog, err := logging.OpenFile(cmd.cfg.Log.File, level)
	if err != nil {
		return err
	}
	defer closeLog()

	client, err := booksapi.NewClient(booksapi.Options{
		BaseURL: cmd.cfg.API.BaseURL,
		Timeout: cmd.cfg.API.Timeout,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	opts := cmd.cfg.ControllerOptions()
	opts.Logger = logger

	ctx, cancel := signalContext()
	defer cancel()

	logger.Info("starting book form UI", "url", cmd.cfg.API.BaseURL, "key_field", cmd.cfg.Form.KeyField)
	return tui.Run(ctx, client, opts)
}
