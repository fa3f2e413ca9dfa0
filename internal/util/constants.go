package util

const (
	ServerModeRelease = "release"
)
