// Package sourceenv exposes environment variables as a property source.
//
// Variables use the upper-snake convention: SERVER_PORT matches
// "server.port", "server-port" and "serverPort"; LIST_0_NAME matches
// "list[0].name". Origins name the variable.
//
// Example:
//
//	env := sightline.NewEnvironment(sourceenv.New(sourceenv.Options{Prefix: "APP_"}))
//	port, ok := env.Resolver().Find("server.port")
package sourceenv
