package main

import "github.com/killallgit/recipe-api/cmd"

// @title           Recipe Extraction API
// @version         1.0.0
// @description     Turns shared cooking videos into structured recipes
// @contact.name    API Support
// @contact.url     https://github.com/killallgit/recipe-api
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:8080
// @BasePath        /
// @schemes         http https
func main() {
	cmd.Execute()
}
