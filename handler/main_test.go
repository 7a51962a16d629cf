package handler

import (
	"os"
	"testing"
	"videotube-api/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	logger.SetLevel("error")
	os.Exit(m.Run())
}
