package mcpserver

import "github.com/mark3labs/mcp-go/mcp"

// Tool definitions for the TrustLens MCP server.
// Descriptions are what the LLM reads to decide which tool to use.

var ToolAnalyzeWallet = mcp.NewTool("analyze_wallet",
	mcp.WithDescription(
		"Run a full trust analysis of an Ethereum wallet. "+
			"Returns a 0-100 trust score with per-component breakdown, triggered risk "+
			"signatures (wash trading, mixer exposure, dusting and more), a behavioral "+
			"classification, and a plain-language summary. "+
			"Use this before interacting with an unknown address."),
	mcp.WithString("address",
		mcp.Required(),
		mcp.Description("The wallet address to analyze (e.g. '0x1234...')")),
	mcp.WithBoolean("refresh",
		mcp.Description("Bypass the analysis cache and re-fetch chain data")),
)

var ToolSimulateTransaction = mcp.NewTool("simulate_transaction",
	mcp.WithDescription(
		"Assess the risk of a proposed transaction BEFORE sending it. "+
			"Returns a 0-100 risk score, a risk level, an estimated loss probability, "+
			"and concrete warnings (blocklisted destination, fresh address, unusual "+
			"amount). Use this as a pre-flight check for any transfer."),
	mcp.WithString("from",
		mcp.Required(),
		mcp.Description("Sender wallet address (e.g. '0x1234...')")),
	mcp.WithString("to",
		mcp.Required(),
		mcp.Description("Destination wallet address (e.g. '0x5678...')")),
	mcp.WithNumber("amount",
		mcp.Description("Transfer amount in ETH (default 0, which skips amount-based checks)")),
)

var ToolGetWalletHistory = mcp.NewTool("get_wallet_history",
	mcp.WithDescription(
		"List previously recorded trust analyses for a wallet, newest first. "+
			"Each snapshot includes the trust score, category, and risk level at the "+
			"time it was recorded. Use this to see how a wallet's standing has evolved."),
	mcp.WithString("address",
		mcp.Required(),
		mcp.Description("The wallet address (e.g. '0x1234...')")),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of snapshots to return (default 20, max 100)")),
)

var ToolGetTrustTrend = mcp.NewTool("get_trust_trend",
	mcp.WithDescription(
		"Get the change in a wallet's trust score over a time window. "+
			"Returns the score delta between the oldest and newest recorded analysis "+
			"in the window. A negative delta means trust is deteriorating."),
	mcp.WithString("address",
		mcp.Required(),
		mcp.Description("The wallet address (e.g. '0x1234...')")),
	mcp.WithString("window",
		mcp.Description("Time window as a Go duration (e.g. '168h' for one week, default '720h')")),
)
