package main

import (
	"github.com/eleven-am/voice-recorder/internal/bootstrap"
)

// @title Voice Recorder API
// @version 1.0.0
// @description Transcription and profile service for the voice recorder

// @host localhost:5001
// @BasePath /

func main() {
	bootstrap.Run()
}
