package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pstuifzand/sermonedit/internal/export"
	"github.com/pstuifzand/sermonedit/internal/socket"
)

func newRunCmd(g *Globals) *cobra.Command {
	var (
		write bool
		quiet bool
	)

	cmd := &cobra.Command{
		Use:   "run <file> <script|->",
		Short: "Apply an editing script to a document",
		Long: strings.TrimSpace(`
A script holds one editor command per line, for example

  caret 0 0
  type "Opening prayer"
  key Alt+Left
  find is:empty
  remove
  w

Blank lines and lines starting with # are skipped. The outline is printed
when the script finishes. With --write the document is saved afterwards.
`),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, _, err := g.openEditor(args[0])
			if err != nil {
				return err
			}

			var script io.Reader = cmd.InOrStdin()
			if args[1] != "-" {
				f, err := os.Open(args[1])
				if err != nil {
					return fmt.Errorf("failed to open script: %w", err)
				}
				defer f.Close()
				script = f
			}

			if err := ed.RunScript(script); err != nil {
				return err
			}
			if write {
				if err := ed.Execute("w"); err != nil {
					return err
				}
				fmt.Fprintln(cmd.ErrOrStderr(), ed.Status())
			}
			if quiet {
				return nil
			}
			return export.WriteOutline(cmd.OutOrStdout(), ed.Outline(), export.Options{WordCounts: true})
		},
	}

	cmd.Flags().BoolVar(&write, "write", false, "Save the document after the script")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not print the outline")
	return cmd
}

func newServeCmd(g *Globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve <file>",
		Short: "Keep a document open and accept commands on a Unix socket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, _, err := g.openEditor(args[0])
			if err != nil {
				return err
			}

			srv, err := socket.NewServer(g.socketDir(), os.Getpid())
			if err != nil {
				return err
			}
			srv.Start()
			defer srv.Stop()

			fmt.Fprintf(cmd.OutOrStdout(), "Serving %s on %s\n", args[0], srv.SocketPath())

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			err = ed.Serve(ctx, srv.Messages())
			if errors.Is(err, context.Canceled) {
				log.Printf("Stopped serving %s", args[0])
				if ed.Dirty() {
					fmt.Fprintln(cmd.ErrOrStderr(), "unsaved changes discarded")
				}
				return nil
			}
			return err
		},
	}
	return cmd
}

func newSendCmd(g *Globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send <exec|outline|save> [line...]",
		Short: "Send a command to a running instance",
		Example: strings.TrimSpace(`
  sermonedit send exec 'jump opening'
  sermonedit send exec 'type "Amen"'
  sermonedit send outline
  sermonedit send save
`),
		Args:      cobra.MinimumNArgs(1),
		ValidArgs: []string{socket.CommandExec, socket.CommandOutline, socket.CommandSave},
		RunE: func(cmd *cobra.Command, args []string) error {
			msg := socket.Message{Command: args[0], Line: strings.Join(args[1:], " ")}
			switch msg.Command {
			case socket.CommandExec:
				if msg.Line == "" {
					return errors.New("exec needs a command line")
				}
			case socket.CommandOutline, socket.CommandSave:
			default:
				return fmt.Errorf("unknown command: %s", msg.Command)
			}

			socketPath, pid, err := socket.FindRunningInstance(g.socketDir())
			if err != nil {
				return err
			}
			log.Printf("Found running instance at PID %d: %s", pid, socketPath)

			client, err := socket.NewClient(socketPath)
			if err != nil {
				return fmt.Errorf("failed to connect: %w", err)
			}
			resp, err := client.Send(msg)
			if err != nil {
				return fmt.Errorf("failed to send command: %w", err)
			}
			if !resp.Success {
				return fmt.Errorf("server error: %s", resp.Message)
			}

			out := cmd.OutOrStdout()
			for _, line := range resp.Lines {
				fmt.Fprintln(out, line)
			}
			if resp.Message != "" {
				fmt.Fprintln(out, resp.Message)
			}
			return nil
		},
	}
	return cmd
}
