package redis

import "fmt"

// Key prefix for all game-related data
const keyPrefix = "hangedgame"

// userKey returns the Redis key for a User record
func userKey(username string) string {
	return fmt.Sprintf("%s:user:%s", keyPrefix, username)
}

// usersIndexKey returns the Redis key for the SET of known usernames
func usersIndexKey() string {
	return fmt.Sprintf("%s:idx:users", keyPrefix)
}

// phrasesKey returns the Redis key for the phrase corpus list
func phrasesKey() string {
	return fmt.Sprintf("%s:phrases", keyPrefix)
}
