package stream

// MarketSubscription is the one-shot subscribe payload for the CLOB market
// feed.
type MarketSubscription struct {
	AssetsIDs []string `json:"assets_ids"`
	Type      string   `json:"type"`
}

// NewMarketSubscription subscribes to book, price_change and trade events for
// the given asset (token) IDs.
func NewMarketSubscription(assetIDs []string) MarketSubscription {
	return MarketSubscription{
		AssetsIDs: assetIDs,
		Type:      "market",
	}
}

type rtdsTopic struct {
	Topic string `json:"topic"`
	Type  string `json:"type"`
}

// CommentsSubscription is the subscribe payload for the RTDS comments feed.
type CommentsSubscription struct {
	Action        string      `json:"action"`
	Subscriptions []rtdsTopic `json:"subscriptions"`
}

// NewCommentsSubscription subscribes to comment_created events.
func NewCommentsSubscription() CommentsSubscription {
	return CommentsSubscription{
		Action: "subscribe",
		Subscriptions: []rtdsTopic{
			{Topic: commentsTopic, Type: commentCreated},
		},
	}
}
