// Package server implements the MCP (Model Context Protocol) server for
// histogram equalization and plotting.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - image_load: Load an image as a colour or grayscale model
//   - image_equalize: Per-channel histogram equalization, with lookup tables
//   - image_cancel_channels: Zero named channels of a colour image
//   - image_draw_histogram: Histogram figures for original and/or equalized matrices
//   - image_draw_images: Matrices rendered stacked in one figure
//   - image_histogram_bins: Raw 256-bin counts per channel
//
// Every tool takes a path. Tools that read a model accept mode ("color" or
// "gray"); rendering tools accept source ("original", "equalized" or
// "both"). Selecting the equalized matrix equalizes on demand.
//
// # Model Caching
//
// Models are cached by path and mode for the lifetime of the process, so an
// equalization computed by image_equalize is reused by later rendering
// calls on the same model.
//
// # Error Handling
//
// Tool errors are returned as JSON-RPC error responses:
//   - -32602: malformed arguments or an unknown mode, method or source
//   - -32000: the tool ran and failed (unreadable file, bad style, ...)
//   - -32601: unknown JSON-RPC method
//
// # Usage
//
//	srv := server.New(server.Config{Display: display.Defaults(), Logger: logger})
//	if err := srv.Run(); err != nil {
//	    logger.Fatal(err)
//	}
package server
