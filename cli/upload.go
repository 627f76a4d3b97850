package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/service-sdk/upcli/operation"
)

const missingTokenMessage = "No token found. Run `upcli login <token>` to set your token."

func (app *App) upload(cmd *cobra.Command, files []string, configPath string, keepGoing bool) error {
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	token, ok, err := app.Store.Load()
	if err != nil {
		return fmt.Errorf("load token from %s: %w", app.Store.Path(), err)
	}
	if !ok || token == "" {
		fmt.Fprintln(stderr, missingTokenMessage)
		return &reportedError{operation.ErrMissingCredential}
	}

	config, err := operation.ResolveConfig(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	uploader := operation.NewUploader(config, app.NewService(config))
	if app.Filesystem != nil {
		uploader.SetFilesystem(app.Filesystem)
	}
	uploader.SetKeepGoing(keepGoing)

	results, err := uploader.Upload(cmd.Context(), token, files)
	if err != nil {
		var readErr *operation.FileReadError
		if errors.As(err, &readErr) {
			fmt.Fprintln(stderr, "Failed to read file:", err)
			return &reportedError{err}
		}
		var serviceErr *operation.ServiceError
		var mismatchErr *operation.ProtocolMismatchError
		if errors.As(err, &serviceErr) || errors.As(err, &mismatchErr) {
			// the batch failed remotely; this is reported but not an exit failure
			fmt.Fprintln(stderr, "Failed to upload file(s):", err)
			return nil
		}
		fmt.Fprintln(stderr, "Upload aborted:", err)
		return &reportedError{err}
	}

	fmt.Fprintln(stdout, "Finished uploading files")
	for _, result := range results {
		var readErr *operation.FileReadError
		if errors.As(result.Err, &readErr) {
			fmt.Fprintln(stderr, "Skipped unreadable file:", readErr)
			continue
		}
		fmt.Fprintln(stdout, "File successfully uploaded. URL is here 👉", result.URL)
		if result.URL == "" && result.Err != nil {
			fmt.Fprintf(stderr, "  %s: %v\n", result.Name, result.Err)
		}
	}
	return nil
}
