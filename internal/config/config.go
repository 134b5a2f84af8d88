package config

import "time"

const (
	// Websocket pumps
	WriteWait      = 10 * time.Second
	PongWait       = 60 * time.Second
	PingPeriod     = (PongWait * 9) / 10
	MaxMessageSize = 4096
	SendBufferSize = 256

	// Auth
	TokenTTL  = 72 * time.Hour
	JWTIssuer = "doubtroom-service"

	// Login rate limiting
	LoginRateLimit  = 10
	LoginRateWindow = time.Minute

	// Content validation (mirrors the persisted schema limits)
	QuestionMinLen = 5
	QuestionMaxLen = 1000
	AnswerMinLen   = 5
	AnswerMaxLen   = 2000
	TitleMaxLen    = 100
	DescMaxLen     = 500
)

// Topics a room can be tagged with.
var Topics = []string{
	"DSA", "React", "Node.js", "MongoDB", "System Design",
	"DBMS", "OS", "Networks", "JavaScript", "Python", "Java", "Other",
}

// IsKnownTopic reports whether the topic is one of the allowed tags.
func IsKnownTopic(topic string) bool {
	for _, t := range Topics {
		if t == topic {
			return true
		}
	}
	return false
}
