package config

// DefaultRules returns the built-in crypto/market selection rules.
func DefaultRules() *Rules {
	r := &Rules{
		Categories: []CategoryRule{
			{
				Name:   "STOCK_CRITICAL",
				Weight: 150,
				Keywords: []string{
					// Fed & monetary policy
					"fed raises", "fed cuts", "fed rate decision", "fomc decision",
					"powell says", "federal reserve announces",
					// Broad index moves
					"dow plunges", "dow surges", "dow crashes",
					"s&p plunges", "s&p surges", "s&p crashes",
					"nasdaq plunges", "nasdaq surges", "nasdaq crashes",
					"market crash", "circuit breaker", "trading halted",
					"black monday", "market meltdown",
					// Economic data
					"unemployment rate", "jobs report shock",
					"inflation shock", "cpi shock", "gdp shock",
					"recession declared", "recession confirmed",
					// Treasuries
					"treasury yields surge", "treasury yields plunge",
					"bond market crisis", "bond market turmoil",
					// Global crises
					"financial crisis", "banking crisis", "debt crisis",
					"government shutdown", "debt ceiling crisis",
				},
			},
			{
				Name:   "CRITICAL",
				Weight: 100,
				Keywords: []string{
					"sec approves", "sec denies", "sec sues",
					"banned", "ban", "regulation passed",
					"etf approved", "etf rejected",
					"hard fork", "network upgrade",
					"exchange hack", "exploit", "$100m", "$500m", "$1b",
					"binance hack", "coinbase halt",
				},
			},
			{
				Name:   "HIGH",
				Weight: 50,
				Keywords: []string{
					"cftc", "federal reserve", "fed rate",
					"bitcoin etf", "ethereum etf", "crypto etf",
					"blackrock", "fidelity", "grayscale",
					"microstrategy", "michael saylor",
					"el salvador", "government adopts",
					"sec lawsuit", "settles lawsuit", "regulatory",
				},
			},
			{
				Name:   "MEDIUM",
				Weight: 25,
				Keywords: []string{
					"listing", "delisting",
					"partnership", "integration",
					"funding round", "raises $",
					"mainnet launch", "testnet",
					"major upgrade", "protocol update",
				},
			},
			{
				Name:   "MARKET_MOVE",
				Weight: 40,
				Keywords: []string{
					"surges", "plunges", "crashes", "rallies",
					"all-time high", "ath", "record high",
					"breaks $", "hits $100", "hits $50",
					"+10%", "+15%", "+20%",
					"-10%", "-15%", "-20%",
				},
			},
		},
		ExcludeKeywords: []string{
			"opinion", "analysis",
			"how to", "guide", "tutorial",
			"price prediction", "forecast",
			"meme coin", "shitcoin", "dog coin",
			"airdrop", "giveaway", "sponsored",
			// personal finance / lifestyle
			"my friend", "retired with", "secret to",
			"personal story", "what i learned",
			"immigrant", "walmart", "minimum wage",
			"her secret", "his secret", "their secret",
			"my husband", "my wife", "we are in our",
			"where are we", "should i", "should we",
			"mortgage is paid", "we have $", "our home",
			"vulnerable", "iras", "downsizing",
			// company-specific
			"ceo says", "cfo says", "earnings beat", "earnings miss",
			"quarterly results", "stock buyback", "dividend increase",
			"merger with", "acquires", "acquisition",
			"ipo", "going public", "stock split",
		},
		ClickbaitPatterns: []string{
			`\?\s*$`,
			`:\s*$`,
			`^(?:Why|How|What|When|Where|Who|Which|Is|Are|Can|Could|Will|Would|Should|Does|Do|Did)\b.*\?`,
			`(?i)\b(?:you won'?t believe|here'?s why|this is why|the reason why|what happens next|everything you need to know|find out|shocking)\b`,
			`(?:\.\.\.|…)\s*$`,
		},
		MinImportanceScore:  25,
		StockThreshold:      120,
		StockSources:        []string{"marketwatch", "yahoo_finance", "reuters"},
		PublishedSimilarity: 0.3,
		BatchSimilarity:     0.5,
		SourcePriority: map[string]int{
			"theblock":    1,
			"coindesk":    2,
			"bloomberg":   3,
			"marketwatch": 4,
			"reuters":     5,
			"decrypt":     6,
		},
		TopK:          5,
		RetentionDays: 7,
		AllowedHashtags: []string{
			"#Bitcoin", "#BTC", "#Ethereum", "#ETH", "#Crypto", "#SEC", "#ETF",
			"#DeFi", "#NFT", "#Regulation", "#BlackRock", "#Fidelity", "#Grayscale",
			"#Coinbase", "#Binance", "#Fed", "#Markets", "#Breaking", "#Bullish",
			"#Bearish", "#Altcoins", "#Trading", "#Institutional", "#Adoption",
		},
	}
	if err := r.compile(); err != nil {
		panic(err)
	}
	return r
}
