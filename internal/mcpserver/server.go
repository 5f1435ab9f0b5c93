package mcpserver

import (
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer creates a configured MCP server with all TrustLens tools registered.
func NewMCPServer(cfg Config) *server.MCPServer {
	s := server.NewMCPServer("trustlens", "1.0.0")
	client := NewTrustLensClient(cfg)
	h := NewHandlers(client)

	s.AddTool(ToolAnalyzeWallet, h.HandleAnalyzeWallet)
	s.AddTool(ToolSimulateTransaction, h.HandleSimulateTransaction)
	s.AddTool(ToolGetWalletHistory, h.HandleGetWalletHistory)
	s.AddTool(ToolGetTrustTrend, h.HandleGetTrustTrend)

	return s
}
