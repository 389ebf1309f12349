// Package mcp provides a Model Context Protocol interface to the booking server.
//
// The package exposes a thin MCP client that proxies every tool call to the
// REST API, so the MCP surface and the HTTP surface always agree on behavior.
//
// MCP Tools:
//   - venue_state: Render the full seat map with a per-status summary
//   - seat_info: Get one seat's status, holder, and hold expiry
//   - select_seat: Place a temporary hold on a seat for a user
//   - book_seat: Confirm a held seat for its holder
//   - release_seat: Release a hold before it expires
//   - server_stats: Get live WebSocket connection stats
//
// Transport Modes:
//
// The server supports two transport modes:
//   - Stdio: Direct stdio communication for local MCP clients
//   - HTTP: POST /mcp endpoint mounted next to the REST API
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:3000")
//	server.ServeStdio(client.GetMCPServer())
package mcp
