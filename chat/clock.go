package chat

import "time"

func today() string {
	return time.Now().Format("January 2, 2006")
}
