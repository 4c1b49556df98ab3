// Package app wires the score calculator's HTTP server together: config,
// logging, OpenTelemetry, the analyzer, the websocket hub, services and the
// chi router.
//
// # Initialization Flow
//
//	1. Load configuration from the environment and an optional YAML file
//	2. Initialize logging and OpenTelemetry providers
//	3. Load the SIUS field list and build the analyzer
//	4. Start the websocket hub and create the services
//	5. Set up middleware and routes
//	6. Create the HTTP server
//
// # Usage
//
//	application, err := app.NewApplication()
//	if err != nil {
//	    return err
//	}
//	return application.Run()
//
// # Graceful Shutdown
//
// Run serves until SIGINT or SIGTERM. Serve and Stop are driven by an
// errgroup: cancellation shuts the server down, then stops the hub (closing
// every websocket client) and flushes the telemetry providers.
//
// Initialization errors are returned to the caller; the package never calls
// os.Exit.
package app
