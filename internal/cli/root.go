// Package cli is the command line front end of the outline editor.
package cli

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pstuifzand/sermonedit/internal/app"
	"github.com/pstuifzand/sermonedit/internal/config"
	"github.com/pstuifzand/sermonedit/internal/socket"
	"github.com/pstuifzand/sermonedit/internal/storage"
)

// Globals holds the persistent flags and the state every command shares
type Globals struct {
	ConfigPath string
	LogPath    string
	SocketDir  string

	cfg     *config.Config
	logFile *os.File
}

func NewRootCmd() *cobra.Command {
	g := &Globals{}

	cmd := &cobra.Command{
		Use:          "sermonedit",
		Short:        "Outline editor for sermons and talks",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Print the outline of a document
  sermonedit show sermon.html

  # Edit a document from a script
  sermonedit run sermon.html edits.txt --write

  # Keep a document open and drive it from another shell
  sermonedit serve sermon.html
  sermonedit send exec 'type "Amen"'
`),
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return g.setup()
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return g.close()
	}

	cmd.PersistentFlags().StringVar(&g.ConfigPath, "config", envOr("SERMONEDIT_CONFIG", ""), "Path to config.toml (default: ~/.config/sermonedit/config.toml)")
	cmd.PersistentFlags().StringVar(&g.LogPath, "log", "", "Log file (default: log_file from the config)")
	cmd.PersistentFlags().StringVar(&g.SocketDir, "socket-dir", envOr("SERMONEDIT_SOCKET_DIR", ""), "Directory of instance sockets")

	cmd.AddCommand(newShowCmd(g))
	cmd.AddCommand(newStatsCmd(g))
	cmd.AddCommand(newFindCmd(g))
	cmd.AddCommand(newDiffCmd(g))
	cmd.AddCommand(newCheckCmd(g))
	cmd.AddCommand(newBackupsCmd(g))
	cmd.AddCommand(newRunCmd(g))
	cmd.AddCommand(newServeCmd(g))
	cmd.AddCommand(newSendCmd(g))

	return cmd
}

// setup loads the configuration and points the standard logger at the log
// file
func (g *Globals) setup() error {
	var err error
	if g.ConfigPath != "" {
		g.cfg, err = config.LoadFromFile(g.ConfigPath)
	} else {
		g.cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	path := g.LogPath
	if path == "" {
		path = g.cfg.LogFile()
	}
	g.logFile, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	log.SetOutput(g.logFile)
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	return nil
}

func (g *Globals) close() error {
	if g.logFile == nil {
		return nil
	}
	log.SetOutput(io.Discard)
	err := g.logFile.Close()
	g.logFile = nil
	return err
}

func (g *Globals) socketDir() string {
	if g.SocketDir != "" {
		return g.SocketDir
	}
	return socket.SocketDir()
}

// openStore creates the file store for path with backups as configured
func (g *Globals) openStore(path string) (*storage.FileStore, error) {
	store := storage.NewFileStore(path)
	if !g.cfg.Storage.Backups {
		return store, nil
	}
	var (
		bm  *storage.BackupManager
		err error
	)
	if g.cfg.Storage.BackupDir != "" {
		bm, err = storage.NewBackupManagerIn(g.cfg.Storage.BackupDir)
	} else {
		bm, err = storage.NewBackupManager()
	}
	if err != nil {
		return nil, err
	}
	store.Backups = bm
	return store, nil
}

// openEditor loads the document at path into a new editor. A missing file
// gives an empty document.
func (g *Globals) openEditor(path string) (*app.Editor, *storage.FileStore, error) {
	store, err := g.openStore(path)
	if err != nil {
		return nil, nil, err
	}
	doc, err := store.Load()
	if err != nil {
		return nil, nil, err
	}
	log.Printf("Opened %s (%s)", path, store.Provenance)
	ed := app.NewEditor(doc, nil, g.cfg)
	ed.SetStore(store)
	return ed, store, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
