package model

// PresenceStatus is the pull-based answer to "is this user online".
// LastSeen is reported verbatim, or "Never" when no heartbeat was ever
// recorded.
type PresenceStatus struct {
	IsOnline bool   `json:"isOnline"`
	LastSeen string `json:"lastSeen"`
}

const LastSeenNever = "Never"
