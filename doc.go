// Package clamd provides a Go client for the ClamAV daemon (clamd) wire
// protocol over plain TCP.
//
// It covers liveness and admin commands (PING, VERSION, RELOAD, STATS,
// SHUTDOWN), path scans on the daemon's filesystem (SCAN, CONTSCAN,
// MULTISCAN) and streaming scans of local data (INSTREAM). The package has
// zero external runtime dependencies (stdlib only).
//
// Every operation dials a fresh connection and releases it before
// returning; session mode (IDSESSION/END) is not supported.
//
// # Quick Start
//
//	client, err := clamd.NewClient("localhost", 3310)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := client.ScanFilePath(ctx, "/path/to/file.pdf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Status: %s, Infected: %v\n", result.Status, result.IsInfected())
package clamd
