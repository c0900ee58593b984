// Package sightline resolves property names across ordered sources and reports
// where each value came from.
//
// Quick Start:
//
//	files, err := sourcefile.New("config.yaml", sourcefile.Options{})
//	env := sightline.NewEnvironment(
//	    sourceargs.New(os.Args[1:]),
//	    sourceenv.New(sourceenv.Options{Prefix: "APP_"}),
//	    files,
//	)
//
//	r := env.Resolver()
//	p, ok := r.Find("server.port") // also matches SERVER_PORT, server-port, serverPort
//	fmt.Println(p.Value, p.Origin)  // 8080 config.yaml:2:9
//
// Earlier sources win. A source that faults or panics during lookup is
// skipped, never fatal. Malformed names are reported as not found by Find
// and as *NameFormatError by FindStrict.
//
// See example_test.go for detailed usage.
package sightline
