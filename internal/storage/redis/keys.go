package redis

import (
	"fmt"

	"github.com/mcoot/dicestake/internal/model"
)

// Key prefix for all dicestake data
const keyPrefix = "dicestake"

// Fields of the instance hash
const countField = "count"

// instanceKey returns the Redis key of the registry instance hash.
// Every game and the counter are fields of this one key so they share its TTL.
func instanceKey() string {
	return fmt.Sprintf("%s:instance", keyPrefix)
}

// gameField returns the instance hash field for a Game
func gameField(id model.GameID) string {
	return fmt.Sprintf("game:%d", uint64(id))
}

// accountKey returns the Redis key for an Account
func accountKey(address model.Address) string {
	return fmt.Sprintf("%s:account:%s", keyPrefix, address)
}

// registeredAccountKey returns the Redis key for a RegisteredAccount
func registeredAccountKey(address model.Address) string {
	return fmt.Sprintf("%s:registered_account:%s", keyPrefix, address)
}

// usernameIndexKey returns the Redis key for the username -> address index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}
