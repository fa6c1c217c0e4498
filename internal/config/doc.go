// Package config provides configuration parsing for quoteboard.
//
// The configuration is stored in quoteboard.json. Missing fields take
// defaults, and a few environment variables override the file so secrets
// such as the quote API key never have to be committed.
//
// # Configuration File Structure
//
//	{
//	  "addr": "localhost:3000",
//	  "apiKey": "demo",
//	  "baseURL": "https://www.alphavantage.co/query",
//	  "asyncTimeout": "10s",
//	  "maxQueue": 256,
//	  "cache": {
//	    "size": 128,
//	    "ttl": "1m"
//	  },
//	  "log": {
//	    "level": "info",
//	    "format": "text"
//	  },
//	  "drawerTitle": "Stocks"
//	}
//
// # Environment Overrides
//
//	QUOTEBOARD_API_KEY    overrides apiKey
//	QUOTEBOARD_ADDR       overrides addr
//	QUOTEBOARD_LOG_LEVEL  overrides log.level
package config
