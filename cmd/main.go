package main

import (
	"videotube-api/app"
)

// @title           VideoTube API
// @version         1.0
// @description     Video sharing backend with rotating JWT sessions.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT

// @host      localhost:8000
// @BasePath  /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
