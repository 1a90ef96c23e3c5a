package cli

import (
	"fmt"
	"mime"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/crambrain/cram/internal/client/upload"
)

func newUploadCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file.pdf>",
		Short: "Upload a PDF and ingest it into the study index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpload(app, cmd, args[0])
		},
	}
}

func runUpload(app *App, cmd *cobra.Command, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	mediaType := mime.TypeByExtension(filepath.Ext(path))
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = strings.TrimSpace(mediaType[:i])
	}

	file := upload.File{
		Name:      filepath.Base(path),
		MediaType: mediaType,
		Data:      data,
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Uploading %s (%s)\n", file.Name, humanize.IBytes(uint64(len(data))))

	// first Ctrl-C cancels the transfer, second kills the process
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)
	go func() {
		<-sig
		app.Uploads.Cancel()
		signal.Stop(sig)
	}()

	tty := isTTY()
	app.Uploads.OnUpdate(progressOutput(cmd, tty))

	task, err := app.Uploads.Start(cmd.Context(), file)
	if err != nil {
		return err
	}
	if tty {
		fmt.Fprintln(cmd.OutOrStdout())
	}

	switch task.Phase {
	case upload.PhaseComplete:
		fmt.Fprintf(cmd.OutOrStdout(), "Done. Document id: %s\n", task.DocID)
		fmt.Fprintf(cmd.OutOrStdout(), "Ask about it with: cram ask \"...\" --doc %s\n", task.DocID)
		return nil
	case upload.PhaseCancelled:
		fmt.Fprintln(cmd.OutOrStdout(), task.Notice)
		return nil
	default:
		return fmt.Errorf("%s", task.Notice)
	}
}

// progressOutput returns a task observer bound to the command's output:
// a redrawing line on a terminal, one line per phase change otherwise.
func progressOutput(cmd *cobra.Command, tty bool) func(upload.Task) {
	var lastPhase upload.Phase
	return func(t upload.Task) {
		if tty {
			fmt.Fprintf(cmd.OutOrStdout(), "\r%-12s %3d%%", t.Phase, t.Progress)
			return
		}
		if t.Phase != lastPhase {
			lastPhase = t.Phase
			fmt.Fprintf(cmd.OutOrStdout(), "%s...\n", t.Phase)
		}
	}
}
