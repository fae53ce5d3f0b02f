package domain

// Raw records returned by the exchange. Numeric fields stay strings as sent by the venue.

// RawSymbol listed trading pair.
type RawSymbol struct {
	Symbol     string
	BaseAsset  string
	QuoteAsset string
}

// RawBalance account balance of one asset.
type RawBalance struct {
	Asset  string
	Free   string
	Locked string
}

// RawTrade account trade fill.
type RawTrade struct {
	Symbol          string
	Time            int64
	IsBuyer         bool
	Quantity        string
	Price           string
	Commission      string
	CommissionAsset string
}

// RawTransfer deposit or withdrawal.
type RawTransfer struct {
	Asset  string
	Time   int64
	Amount string
	// Fee charged on withdrawals, empty for deposits.
	Fee string
	// Type tag, "deposit" or "withdrawal".
	Type string
}
