package main

import (
	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/cmd"
	_ "github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/docs"
)

// @title                       Blog CMS API
// @version                     1.0
// @description                 Posts, comments and users with JWT authentication and soft delete.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cmd.Execute()
}
