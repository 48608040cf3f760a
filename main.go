// Package main DroidDeploy APK distribution API
//
//	@title			DroidDeploy API
//	@version		1.0.0
//	@description	DroidDeploy distributes Android application builds to CI pipelines and devices
//
//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html
//
//	@host			localhost:3000
//	@BasePath		/api/v1
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Access token prefixed with "Bearer "
package main

import "github.com/pashaoleynik97/droid-deploy-svc-sub000/internal"

//go:generate swag init --parseDependency --outputTypes go -g ./main.go -o ./internal/server/docs

func main() {
	internal.Run()
}
