package config

// DefaultTopN is the number of entries shown in ranked tables when the
// user does not override it.
const DefaultTopN = 5

// BotSignatures contains user agent substrings used for bot detection
var BotSignatures = map[string]bool{
	// Traditional crawlers and tooling
	"googlebot": true, "bingbot": true, "slurp": true, "duckduckbot": true,
	"baiduspider": true, "yandexbot": true, "facebookexternalhit": true,
	"twitterbot": true, "linkedinbot": true, "applebot": true, "amazonbot": true,
	"crawl": true, "spider": true, "bot": true, "scraper": true,
	"curl": true, "wget": true, "python-requests": true, "httpie": true,

	// AI crawlers
	"gptbot": true, "chatgpt": true, "oai-searchbot": true,
	"claudebot": true, "claude-web": true, "anthropic-ai": true,
	"perplexitybot": true, "ccbot": true, "bytespider": true,
}
