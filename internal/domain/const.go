package domain

const (
	// MAX_ORDER_TIMESTAMP clamps order expirations in milliseconds.
	// Some historical orders carry an expiration postgres cannot turn into a timestamp.
	MAX_ORDER_TIMESTAMP int64 = 253378408747000

	// POLYGON_STORE_MINTER is the collection store contract allowed to mint on polygon
	POLYGON_STORE_MINTER = "0x214ffc0f0103735728dc66b61a22e4f163e275ae"

	// Order status of a listing that can still be bought
	ORDER_STATUS_OPEN = "open"

	// URN network tokens as expected by the content server
	URN_NETWORK_ETHEREUM = "ethereum"
	URN_NETWORK_MATIC    = "matic"
)

// URN_NETWORK_ALIASES renames network tokens that were indexed with the wrong name
var URN_NETWORK_ALIASES = map[string]string{
	"mainnet": URN_NETWORK_ETHEREUM,
	"polygon": URN_NETWORK_MATIC,
}
