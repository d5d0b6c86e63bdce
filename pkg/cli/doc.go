/*
Package cli holds helpers shared by the extractor subcommands: typed
command and configuration errors with exit-code mapping, text/JSON result
formatting, and shutdown signal handling.

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()

	if err := srv.Start(ctx); err != nil {
		os.Exit(cli.ExitCode(err))
	}
*/
package cli
