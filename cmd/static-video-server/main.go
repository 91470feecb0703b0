package main

import (
	"static-video-server/internal/startup"
)

func main() {
	startup.LoadDotEnv()
	Execute()
}
