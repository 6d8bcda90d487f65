package main

import (
	"github.com/shree5k/swipematch/internal/app"
	"github.com/shree5k/swipematch/internal/config"
)

func main() {
	app.Go(config.Load())
}
