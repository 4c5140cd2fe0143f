package redisrepo

import "fmt"

const (
	USER_POSTS_KEY      = "user-posts:%s"      // <userID>
	USER_POSTS_LOCK_KEY = "lock:user-posts:%s" // <userID>
	REPAIR_QUEUE_KEY    = "ledger:repair"
)

func UserPostsKey(userID string) string {
	return fmt.Sprintf(USER_POSTS_KEY, userID)
}

func UserPostsLockKey(userID string) string {
	return fmt.Sprintf(USER_POSTS_LOCK_KEY, userID)
}
