package mcpserver

import "github.com/mark3labs/mcp-go/mcp"

// Tool definitions for the SoReL MCP server.
// Descriptions are what the LLM reads to decide which tool to use.

var ToolAnalyzeWallet = mcp.NewTool("analyze_wallet",
	mcp.WithDescription(
		"Analyze a Solana wallet and compute its reputation score (0-1000). "+
			"Fetches on-chain activity, scores it across five components "+
			"(volume, frequency, age, contract interactions, program diversity), "+
			"and stores the result. Re-analyzing refreshes the score."),
	mcp.WithString("address",
		mcp.Required(),
		mcp.Description("The Solana wallet address (base58, e.g. 'So111...')")),
)

var ToolGetWalletReputation = mcp.NewTool("get_wallet_reputation",
	mcp.WithDescription(
		"Get the stored reputation score and component breakdown for a previously "+
			"analyzed Solana wallet. Returns the score, label "+
			"(Excellent/Good/Fair/Low), and underlying activity metrics. "+
			"Use analyze_wallet first if the wallet has not been analyzed."),
	mcp.WithString("address",
		mcp.Required(),
		mcp.Description("The Solana wallet address")),
)

var ToolGetLeaderboard = mcp.NewTool("get_leaderboard",
	mcp.WithDescription(
		"Get the top Solana wallets ranked by reputation score. "+
			"Ranks are positional, 1 through N in score order."),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of wallets to return (default 50)")),
)

var ToolGetWalletHistory = mcp.NewTool("get_wallet_history",
	mcp.WithDescription(
		"Get past reputation analyses for a Solana wallet, newest first. "+
			"Shows how the wallet's score has changed over time."),
	mcp.WithString("address",
		mcp.Required(),
		mcp.Description("The Solana wallet address")),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of history entries to return (default 100)")),
)

var ToolGetWalletInsights = mcp.NewTool("get_wallet_insights",
	mcp.WithDescription(
		"Get an AI-generated narrative assessment of an analyzed wallet: "+
			"summary, risk level (low/medium/high), observations, and recommendations. "+
			"The wallet must be analyzed first."),
	mcp.WithString("address",
		mcp.Required(),
		mcp.Description("The Solana wallet address")),
)

var ToolGetPlatformStats = mcp.NewTool("get_platform_stats",
	mcp.WithDescription(
		"Get aggregate SoReL statistics: total wallets analyzed, average "+
			"reputation score, total transactions observed, and wallets "+
			"analyzed in the last 24 hours."),
)

var ToolGetReputationTrends = mcp.NewTool("get_reputation_trends",
	mcp.WithDescription(
		"Get daily average reputation scores over a window of days. "+
			"Useful for spotting score drift across the analyzed population."),
	mcp.WithNumber("days",
		mcp.Description("Window size in days (default 7, max 365)")),
)

var ToolCheckRPCHealth = mcp.NewTool("check_rpc_health",
	mcp.WithDescription(
		"Run a live health check against the configured Solana RPC endpoint. "+
			"Returns status (healthy/degraded/unhealthy), per-call response times, "+
			"and current chain info (version, slot, epoch)."),
)
