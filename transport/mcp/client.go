package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/concert-booking/booking/engine"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Concert Booking",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Concert Booking - MCP Interface

This is a thin client that proxies all requests to the REST API server.

Seats are laid out in a grid and addressed as row letter plus column
number, e.g. A1 or G7. A seat is available, held, or booked. Selecting a
seat places a temporary hold that expires on its own unless the same user
books it. Every state change fans out to WebSocket subscribers in real time.

AVAILABLE TOOLS:
- venue_state: Full seat map with per-status counts
- seat_info: One seat's status, holder, and hold expiry
- select_seat: Place a temporary hold on a seat
- book_seat: Confirm a held seat (holder only)
- release_seat: Release a hold before it expires
- server_stats: Live WebSocket connection stats`),
	)

	// Register all tools
	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "venue_state",
		Description: "Get the full seat map with a per-status summary",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleVenueState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "seat_info",
		Description: "Get detailed information about a single seat",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"seat_id": map[string]interface{}{
					"type":        "string",
					"description": "Seat ID, e.g. G7",
				},
			},
			Required: []string{"seat_id"},
		},
	}, c.handleSeatInfo)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "select_seat",
		Description: "Place a temporary hold on a seat for a user. The hold expires automatically unless the seat is booked.",
		InputSchema: seatOpSchema(),
	}, c.seatOpHandler("/api/seats/select"))

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "book_seat",
		Description: "Confirm a held seat. Only the user holding the seat can book it.",
		InputSchema: seatOpSchema(),
	}, c.seatOpHandler("/api/seats/book"))

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "release_seat",
		Description: "Release a seat hold before it expires. Only the holder can release.",
		InputSchema: seatOpSchema(),
	}, c.seatOpHandler("/api/seats/release"))

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "server_stats",
		Description: "Get live WebSocket connection statistics",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleServerStats)
}

// seatOpSchema is shared by select_seat, book_seat, and release_seat.
func seatOpSchema() mcp.ToolInputSchema {
	return mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]interface{}{
			"seat_id": map[string]interface{}{
				"type":        "string",
				"description": "Seat ID, e.g. G7",
			},
			"user_id": map[string]interface{}{
				"type":        "string",
				"description": "User performing the operation",
			},
		},
		Required: []string{"seat_id", "user_id"},
	}
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Tool handlers

func (c *Client) handleVenueState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var seats []engine.Seat
	err := c.apiCall("GET", "/api/seats", nil, &seats)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatVenue(seats)), nil
}

func (c *Client) handleSeatInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	seatID, _ := args["seat_id"].(string)

	var seat engine.Seat
	err := c.apiCall("GET", fmt.Sprintf("/api/seats/%s", seatID), nil, &seat)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSeat(&seat)), nil
}

// seatOpHandler builds a handler for one of the POST seat operations; they
// share a request and response shape.
func (c *Client) seatOpHandler(path string) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.Params.Arguments.(map[string]interface{})
		seatID, _ := args["seat_id"].(string)
		userID, _ := args["user_id"].(string)

		body := map[string]string{
			"seat_id": seatID,
			"user_id": userID,
		}

		var response struct {
			Message string       `json:"message"`
			Seat    *engine.Seat `json:"seat"`
		}
		err := c.apiCall("POST", path, body, &response)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		result := response.Message
		if response.Seat != nil {
			result += "\n\n" + formatSeat(response.Seat)
		}
		return mcp.NewToolResultText(result), nil
	}
}

func (c *Client) handleServerStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var stats map[string]interface{}
	err := c.apiCall("GET", "/stats", nil, &stats)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("Server stats:\n")
	for _, k := range keys {
		fmt.Fprintf(&b, "  %s: %v\n", k, stats[k])
	}
	return mcp.NewToolResultText(b.String()), nil
}

// Formatting helpers

// formatVenue renders the seat grid row by row plus a summary line.
// Legend: . available, o held, X booked.
func formatVenue(seats []engine.Seat) string {
	if len(seats) == 0 {
		return "No seats available"
	}

	maxRow, maxCol := 0, 0
	byPos := make(map[[2]int]engine.Seat, len(seats))
	counts := make(map[engine.SeatStatus]int)
	for _, seat := range seats {
		if seat.Row > maxRow {
			maxRow = seat.Row
		}
		if seat.Col > maxCol {
			maxCol = seat.Col
		}
		byPos[[2]int{seat.Row, seat.Col}] = seat
		counts[seat.Status]++
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Venue (%d seats): %d available, %d held, %d booked\n\n",
		len(seats),
		counts[engine.StatusAvailable],
		counts[engine.StatusHeld],
		counts[engine.StatusBooked])

	// Column header
	b.WriteString("   ")
	for col := 0; col <= maxCol; col++ {
		fmt.Fprintf(&b, "%d", (col+1)%10)
	}
	b.WriteString("\n")

	for row := 0; row <= maxRow; row++ {
		fmt.Fprintf(&b, "%c: ", rune('A'+row))
		for col := 0; col <= maxCol; col++ {
			seat, ok := byPos[[2]int{row, col}]
			if !ok {
				b.WriteString(" ")
				continue
			}
			switch seat.Status {
			case engine.StatusHeld:
				b.WriteString("o")
			case engine.StatusBooked:
				b.WriteString("X")
			default:
				b.WriteString(".")
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("\nLegend: . available, o held, X booked")
	return b.String()
}

func formatSeat(seat *engine.Seat) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Seat %s\n", seat.ID)
	fmt.Fprintf(&b, "Status: %s\n", seat.Status)

	if seat.HeldBy != "" {
		fmt.Fprintf(&b, "Held by: %s\n", seat.HeldBy)
	}
	if seat.ExpiresAt > 0 && seat.Status == engine.StatusHeld {
		expires := time.Unix(seat.ExpiresAt, 0)
		fmt.Fprintf(&b, "Hold expires: %s", expires.Format("15:04:05"))
		if remaining := time.Until(expires); remaining > 0 {
			fmt.Fprintf(&b, " (in %s)", remaining.Round(time.Second))
		}
		b.WriteString("\n")
	}
	return b.String()
}
