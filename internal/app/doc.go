// Package app wires the sales analysis pipeline together for a single run.
//
// # Initialization Flow
//
//  1. Resolve output paths against the working directory
//  2. Check that output directories are writable, disabling outputs that are not
//  3. Initialize tracing and run metrics
//  4. Build the loader, summarizer, renderer and export writers from config
//  5. Register the standard steps with an operations.Manager
//
// # Usage
//
//	application, err := app.NewApplication(cfg, logger, os.Stdout)
//	if err != nil {
//	    return err
//	}
//	if _, err := application.Run(ctx); err != nil {
//	    fmt.Println(errors.UserMessage(err))
//	    os.Exit(errors.ExitCode(err))
//	}
//
// # Error Handling
//
// All errors are returned to the caller. The app does not call os.Exit()
// directly, allowing the main function to control the exit process.
package app
