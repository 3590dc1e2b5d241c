package main

import (
	"os"

	"github.com/honkitamc/videohub/internal/app"
)

func main() {
	code := app.Run("videohub", run)
	os.Exit(code)
}
