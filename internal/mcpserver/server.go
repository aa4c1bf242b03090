package mcpserver

import (
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer creates a configured MCP server with all SoReL tools registered.
func NewMCPServer(cfg Config) *server.MCPServer {
	s := server.NewMCPServer("sorel", "1.0.0")
	client := NewSorelClient(cfg)
	h := NewHandlers(client)

	s.AddTool(ToolAnalyzeWallet, h.HandleAnalyzeWallet)
	s.AddTool(ToolGetWalletReputation, h.HandleGetWalletReputation)
	s.AddTool(ToolGetLeaderboard, h.HandleGetLeaderboard)
	s.AddTool(ToolGetWalletHistory, h.HandleGetWalletHistory)
	s.AddTool(ToolGetWalletInsights, h.HandleGetWalletInsights)
	s.AddTool(ToolGetPlatformStats, h.HandleGetPlatformStats)
	s.AddTool(ToolGetReputationTrends, h.HandleGetReputationTrends)
	s.AddTool(ToolCheckRPCHealth, h.HandleCheckRPCHealth)

	return s
}
