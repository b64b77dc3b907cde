package main

import "studio-backend/internal/app"

func main() {
	app.Run()
}
