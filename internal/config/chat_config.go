package config

import "time"

type ChatConfig interface {
	GetCollaboratorTimeout() time.Duration
	GetHistoryLimit() int
	GetDBConnectTimeout() time.Duration
	GetDBMaxOpenConns() int
}

type Chat struct{}

var _ ChatConfig = Chat{}

func (Chat) GetCollaboratorTimeout() time.Duration {
	return 30 * time.Second
}

func (Chat) GetHistoryLimit() int {
	return 100
}

func (Chat) GetDBConnectTimeout() time.Duration {
	return 5 * time.Second
}

func (Chat) GetDBMaxOpenConns() int {
	return 10
}
